// Package logging ships structured log events to a remote collector, or to the console when none is configured.
//
// Delivery is best effort and at most once: Log never reports a failure to its caller.
// A failed remote delivery is written to the console instead.
package logging

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
)

// Level is the severity of a log event.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	}
	return "", customerrors.ErrInvalidLevel
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Payload is the envelope sent to the collector.
type Payload struct {
	Stack     string `json:"stack"`
	Level     Level  `json:"level"`
	Package   string `json:"package"`
	Message   string `json:"message"`
	Meta      any    `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
}

// timestampLayout matches the ISO-8601 form used by the collector: UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// NewPayload builds an envelope stamped with now.
func NewPayload(stack string, level Level, pkg, message string, meta any, now time.Time) Payload {
	return Payload{
		Stack:     stack,
		Level:     level,
		Package:   pkg,
		Message:   message,
		Meta:      meta,
		Timestamp: now.UTC().Format(timestampLayout),
	}
}

// Options configures a Logger.
type Options struct {
	// SinkURL is the collector address. Empty means console only.
	SinkURL    string
	HTTPClient *http.Client
	// Stdout receives debug and info events, Stderr receives warn and error events.
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// Logger delivers payloads to the configured sink.
type Logger struct {
	sinkURL string
	client  *http.Client
	console *zap.Logger
	now     func() time.Time
}

// New creates a Logger. Nothing is read from the environment: the sink comes from opts only.
func New(opts Options) *Logger {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Logger{
		sinkURL: opts.SinkURL,
		client:  opts.HTTPClient,
		console: newConsole(opts.Stdout, opts.Stderr),
		now:     opts.Now,
	}
}

// newConsole tees two cores: everything below warn goes to stdout, the rest to stderr.
func newConsole(stdout, stderr io.Writer) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l < zapcore.WarnLevel })
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.WarnLevel })

	return zap.New(zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(stdout)), low),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(stderr)), high),
	))
}

// SinkURL returns the configured collector address.
func (l *Logger) SinkURL() string {
	return l.sinkURL
}

// Log builds a payload and delivers it. It returns once delivery has been attempted.
func (l *Logger) Log(ctx context.Context, stack string, level Level, pkg, message string, meta any) {
	payload := NewPayload(stack, level, pkg, message, meta, l.now())

	body, err := json.Marshal(payload)
	if err != nil {
		l.console.Error("Failed to encode log payload", zap.Error(err))
		return
	}

	if l.sinkURL == "" {
		l.console.Log(level.zapLevel(), "[LOG] "+string(body))
		return
	}

	if err := l.send(ctx, body); err != nil {
		l.console.Error("Failed to send log to test server", zap.Error(err))
		l.console.Info("[LOG-local] " + string(body))
	}
}

func (l *Logger) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.sinkURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The collector's answer is not part of the contract.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
