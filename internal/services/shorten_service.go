// Package services contains the submission pipeline and the stats loader shared by the CLI and the web pages
package services

import (
	"context"
	"errors"
	"net/url"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
	"github.com/axellelanca/urlshortener-frontend/internal/logging"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/axellelanca/urlshortener-frontend/internal/repository"
	"github.com/axellelanca/urlshortener-frontend/internal/validation"
)

// MaxRows is the number of rows the shorten form holds.
const MaxRows = 5

const (
	shortenPackage = "shorten-page"
	statsPackage   = "stats-page"
)

// ShortenAPI is the backend call used by the pipeline.
type ShortenAPI interface {
	Shorten(ctx context.Context, items []models.SubmissionItem) ([]models.Result, error)
}

// EventLogger receives structured log events. *logging.Logger implements it.
type EventLogger interface {
	Log(ctx context.Context, stack string, level logging.Level, pkg, message string, meta any)
}

// ShortenService validates form rows and submits them to the backend in one batch.
type ShortenService struct {
	api     ShortenAPI
	events  EventLogger
	history repository.HistoryRepository // nil disables local history
	log     *zap.Logger
	stack   string
}

// NewShortenService creates a ShortenService. history and log may be nil.
func NewShortenService(api ShortenAPI, events EventLogger, history repository.HistoryRepository, log *zap.Logger, stack string) *ShortenService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShortenService{
		api:     api,
		events:  events,
		history: history,
		log:     log,
		stack:   stack,
	}
}

// Prepare turns form rows into submission items without touching the network.
//
// Empty rows are skipped. The first invalid row aborts the whole batch with a
// *errors.ValidationError; no rows at all gives errors.ErrNoURLs.
func (s *ShortenService) Prepare(rows []models.Row) ([]models.SubmissionItem, error) {
	if len(rows) > MaxRows {
		return nil, customerrors.ErrTooManyRows
	}

	items := make([]models.SubmissionItem, 0, len(rows))
	for _, r := range rows {
		if r.IsEmpty() {
			continue
		}
		if msg := validation.ValidateRow(r); msg != "" {
			return nil, &customerrors.ValidationError{URL: r.OriginalURL, Message: msg}
		}

		item := models.SubmissionItem{
			OriginalURL:        r.OriginalURL,
			PreferredShortcode: r.PreferredShortcode,
		}
		if r.ValidityMinutes != "" {
			minutes, _ := validation.ParseValidity(r.ValidityMinutes)
			item.ValidityMinutes = &minutes
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, customerrors.ErrNoURLs
	}
	return items, nil
}

// Send performs the single backend call for prepared items. It never retries.
func (s *ShortenService) Send(ctx context.Context, items []models.SubmissionItem) ([]models.Result, error) {
	s.events.Log(ctx, s.stack, logging.LevelInfo, shortenPackage, "Submitting URLs", map[string]any{"count": len(items)})

	results, err := s.api.Shorten(ctx, items)
	if err != nil {
		s.events.Log(ctx, s.stack, logging.LevelError, shortenPackage, "Shorten failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	s.events.Log(ctx, s.stack, logging.LevelInfo, shortenPackage, "Shorten success", results)
	s.record(results)
	return results, nil
}

// Submit runs Prepare then Send.
func (s *ShortenService) Submit(ctx context.Context, rows []models.Row) ([]models.Result, error) {
	items, err := s.Prepare(rows)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, items)
}

// History lists links shortened from this client, most recent first.
func (s *ShortenService) History(limit int) ([]models.HistoryEntry, error) {
	if s.history == nil {
		return nil, customerrors.ErrHistoryDisabled
	}
	return s.history.ListEntries(limit)
}

// record stores the successful results of one submission. Failures only get logged:
// the displayed results never depend on the local history.
func (s *ShortenService) record(results []models.Result) {
	if s.history == nil {
		return
	}

	batchID := uuid.NewString()
	var entries []models.HistoryEntry
	for _, r := range results {
		if r.ShortURL == "" {
			continue
		}
		entries = append(entries, models.HistoryEntry{
			BatchID:     batchID,
			OriginalURL: r.OriginalURL,
			ShortURL:    r.ShortURL,
			Shortcode:   shortcodeOf(r),
			ExpiresAt:   r.ExpiresAt,
		})
	}

	if err := s.history.CreateEntries(entries); err != nil {
		s.log.Warn("could not record shortened links", zap.String("batch", batchID), zap.Error(err))
		return
	}
	s.log.Debug("shortened links recorded", zap.String("batch", batchID), zap.Int("count", len(entries)))
}

func shortcodeOf(r models.Result) string {
	if r.Shortcode != "" {
		return r.Shortcode
	}
	u, err := url.Parse(r.ShortURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	return path.Base(u.Path)
}

// ErrorResults turns a failed submission into the single result line shown to the user.
func ErrorResults(err error) []models.Result {
	var verr *customerrors.ValidationError
	if errors.As(err, &verr) {
		return []models.Result{{OriginalURL: verr.URL, Error: verr.Message}}
	}
	return []models.Result{{OriginalURL: "", Error: err.Error()}}
}
