package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/urlshortener-frontend/internal/apiclient"
	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
	"github.com/axellelanca/urlshortener-frontend/internal/logging"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

type stubAPI struct {
	mu       sync.Mutex
	calls    int
	got      []models.SubmissionItem
	results  []models.Result
	err      error
	started  chan struct{}
	release  chan struct{}
	stats    []models.StatsItem
	statsErr error
}

func (s *stubAPI) Shorten(_ context.Context, items []models.SubmissionItem) ([]models.Result, error) {
	s.mu.Lock()
	s.calls++
	s.got = items
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.results, s.err
}

func (s *stubAPI) Stats(context.Context) ([]models.StatsItem, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.stats, s.statsErr
}

type event struct {
	Stack   string
	Level   logging.Level
	Package string
	Message string
	Meta    any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []event
}

func (r *eventRecorder) Log(_ context.Context, stack string, level logging.Level, pkg, message string, meta any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{stack, level, pkg, message, meta})
}

func (r *eventRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, string(e.Level)+":"+e.Message)
	}
	return out
}

type fakeHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (f *fakeHistory) CreateEntries(entries []models.HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeHistory) ListEntries(limit int) ([]models.HistoryEntry, error) {
	if limit > 0 && limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeHistory) GetEntriesByBatch(batchID string) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	for _, e := range f.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func emptyRows() []models.Row {
	return make([]models.Row, MaxRows)
}

func TestForm_AllRowsEmpty(t *testing.T) {
	api := &stubAPI{}
	form := NewForm(NewShortenService(api, &eventRecorder{}, nil, nil, "frontend"))

	st, err := form.Submit(context.Background(), emptyRows())
	require.NoError(t, err)

	failed, ok := st.(Failed)
	require.True(t, ok, "state %T", st)
	assert.Equal(t, []models.Result{{OriginalURL: "", Error: "Add at least one URL"}}, failed.Results)
	assert.ErrorIs(t, failed.Err, customerrors.ErrNoURLs)
	assert.Zero(t, api.calls)
}

func TestForm_SingleRowSuccess(t *testing.T) {
	want := []models.Result{{
		OriginalURL: "http://a.co",
		ShortURL:    "http://short.ly/abc123",
		ExpiresAt:   "2025-01-01T00:30:00Z",
	}}
	api := &stubAPI{results: want}
	form := NewForm(NewShortenService(api, &eventRecorder{}, nil, nil, "frontend"))

	rows := emptyRows()
	rows[0] = models.Row{OriginalURL: "http://a.co", ValidityMinutes: "30"}

	st, err := form.Submit(context.Background(), rows)
	require.NoError(t, err)

	done, ok := st.(Done)
	require.True(t, ok, "state %T", st)
	assert.Equal(t, want, done.Results)

	require.Len(t, api.got, 1)
	require.NotNil(t, api.got[0].ValidityMinutes)
	assert.Equal(t, 30, *api.got[0].ValidityMinutes)
	assert.Empty(t, api.got[0].PreferredShortcode)
}

func TestForm_ShortcodeTooShort(t *testing.T) {
	api := &stubAPI{}
	form := NewForm(NewShortenService(api, &eventRecorder{}, nil, nil, "frontend"))

	rows := emptyRows()
	rows[2] = models.Row{OriginalURL: "http://a.co", PreferredShortcode: "ab"}

	st, err := form.Submit(context.Background(), rows)
	require.NoError(t, err)

	failed, ok := st.(Failed)
	require.True(t, ok, "state %T", st)
	assert.Equal(t, []models.Result{{OriginalURL: "http://a.co", Error: "shortcode must be 4-12 alnum/_/-"}}, failed.Results)
	assert.Zero(t, api.calls)
}

func TestForm_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer srv.Close()

	events := &eventRecorder{}
	svc := NewShortenService(apiclient.New(srv.URL, "t", srv.Client()), events, nil, nil, "frontend")
	form := NewForm(svc)

	rows := emptyRows()
	rows[0] = models.Row{OriginalURL: "https://example.com"}

	st, err := form.Submit(context.Background(), rows)
	require.NoError(t, err)

	failed, ok := st.(Failed)
	require.True(t, ok, "state %T", st)
	require.Len(t, failed.Results, 1)
	assert.Empty(t, failed.Results[0].OriginalURL)
	assert.Contains(t, failed.Results[0].Error, "API error 500: boom")

	assert.Equal(t, []string{"info:Submitting URLs", "error:Shorten failed"}, events.messages())
}

func TestForm_BusyRefusesSecondSubmit(t *testing.T) {
	api := &stubAPI{
		results: []models.Result{{OriginalURL: "http://a.co", ShortURL: "http://s/abcd"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	form := NewForm(NewShortenService(api, &eventRecorder{}, nil, nil, "frontend"))
	assert.IsType(t, Idle{}, form.State())

	rows := []models.Row{{OriginalURL: "http://a.co"}}

	type outcome struct {
		st  FormState
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		st, err := form.Submit(context.Background(), rows)
		first <- outcome{st, err}
	}()

	<-api.started
	assert.True(t, form.Busy())
	assert.Equal(t, Submitting{Items: 1}, form.State())

	_, err := form.Submit(context.Background(), rows)
	assert.ErrorIs(t, err, customerrors.ErrBusy)

	close(api.release)
	res := <-first
	require.NoError(t, res.err)
	assert.IsType(t, Done{}, res.st)
	assert.False(t, form.Busy())
	assert.Equal(t, 1, api.calls)
}

func TestForm_ResubmitAfterFailure(t *testing.T) {
	api := &stubAPI{results: []models.Result{{OriginalURL: "http://a.co", ShortURL: "http://s/abcd"}}}
	form := NewForm(NewShortenService(api, &eventRecorder{}, nil, nil, "frontend"))

	st, err := form.Submit(context.Background(), []models.Row{{OriginalURL: "nope"}})
	require.NoError(t, err)
	assert.IsType(t, Failed{}, st)

	st, err = form.Submit(context.Background(), []models.Row{{OriginalURL: "http://a.co"}})
	require.NoError(t, err)
	assert.IsType(t, Done{}, st)
}

func TestPrepare(t *testing.T) {
	svc := NewShortenService(&stubAPI{}, &eventRecorder{}, nil, nil, "frontend")

	t.Run("skips empty rows and keeps order", func(t *testing.T) {
		items, err := svc.Prepare([]models.Row{
			{},
			{OriginalURL: "http://a.co", ValidityMinutes: "0"},
			{ValidityMinutes: "junk", PreferredShortcode: "x"},
			{OriginalURL: "https://b.co", PreferredShortcode: "code_42"},
		})
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "http://a.co", items[0].OriginalURL)
		require.NotNil(t, items[0].ValidityMinutes)
		assert.Equal(t, 0, *items[0].ValidityMinutes)

		assert.Equal(t, "https://b.co", items[1].OriginalURL)
		assert.Nil(t, items[1].ValidityMinutes)
		assert.Equal(t, "code_42", items[1].PreferredShortcode)
	})

	t.Run("url is sent as typed", func(t *testing.T) {
		items, err := svc.Prepare([]models.Row{{OriginalURL: " http://a.co/x \n"}})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, " http://a.co/x \n", items[0].OriginalURL)
	})

	t.Run("first invalid row aborts the batch", func(t *testing.T) {
		_, err := svc.Prepare([]models.Row{
			{OriginalURL: "http://ok.co"},
			{OriginalURL: "ftp://x"},
			{OriginalURL: "bad"},
		})
		var verr *customerrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "ftp://x", verr.URL)
		assert.Equal(t, "Invalid protocol", verr.Message)
	})

	t.Run("invalid validity", func(t *testing.T) {
		_, err := svc.Prepare([]models.Row{{OriginalURL: "http://a.co", ValidityMinutes: "-3"}})
		assert.EqualError(t, err, "validityMinutes must be non-negative integer")
	})

	t.Run("too many rows", func(t *testing.T) {
		_, err := svc.Prepare(make([]models.Row, MaxRows+1))
		assert.ErrorIs(t, err, customerrors.ErrTooManyRows)
	})
}

func TestSend_LogsAroundTheCall(t *testing.T) {
	results := []models.Result{{OriginalURL: "http://a.co", ShortURL: "http://s/abcd"}}
	events := &eventRecorder{}
	svc := NewShortenService(&stubAPI{results: results}, events, nil, nil, "frontend")

	_, err := svc.Submit(context.Background(), []models.Row{{OriginalURL: "http://a.co"}})
	require.NoError(t, err)

	require.Len(t, events.events, 2)
	assert.Equal(t, event{"frontend", logging.LevelInfo, "shorten-page", "Submitting URLs", map[string]any{"count": 1}}, events.events[0])
	assert.Equal(t, event{"frontend", logging.LevelInfo, "shorten-page", "Shorten success", results}, events.events[1])
}

func TestSend_RecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	api := &stubAPI{results: []models.Result{
		{OriginalURL: "http://a.co", ShortURL: "http://short.ly/abc123", ExpiresAt: "2025-01-01T00:30:00Z"},
		{OriginalURL: "http://b.co", Error: "shortcode taken"},
		{OriginalURL: "http://c.co", ShortURL: "http://short.ly/mine", Shortcode: "mine"},
	}}
	svc := NewShortenService(api, &eventRecorder{}, history, nil, "frontend")

	_, err := svc.Submit(context.Background(), []models.Row{
		{OriginalURL: "http://a.co"}, {OriginalURL: "http://b.co"}, {OriginalURL: "http://c.co"},
	})
	require.NoError(t, err)

	require.Len(t, history.entries, 2)
	assert.Equal(t, "abc123", history.entries[0].Shortcode)
	assert.Equal(t, "2025-01-01T00:30:00Z", history.entries[0].ExpiresAt)
	assert.Equal(t, "mine", history.entries[1].Shortcode)
	assert.NotEmpty(t, history.entries[0].BatchID)
	assert.Equal(t, history.entries[0].BatchID, history.entries[1].BatchID)

	listed, err := svc.History(1)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestSend_HistoryFailureDoesNotChangeResults(t *testing.T) {
	results := []models.Result{{OriginalURL: "http://a.co", ShortURL: "http://s/abcd"}}
	svc := NewShortenService(&stubAPI{results: results}, &eventRecorder{}, &fakeHistory{err: errors.New("disk full")}, nil, "frontend")

	got, err := svc.Submit(context.Background(), []models.Row{{OriginalURL: "http://a.co"}})
	require.NoError(t, err)
	assert.Equal(t, results, got)
}

func TestHistory_Disabled(t *testing.T) {
	svc := NewShortenService(&stubAPI{}, &eventRecorder{}, nil, nil, "frontend")

	_, err := svc.History(10)
	assert.ErrorIs(t, err, customerrors.ErrHistoryDisabled)
}

func TestErrorResults(t *testing.T) {
	assert.Equal(t,
		[]models.Result{{OriginalURL: "x", Error: "Invalid URL format"}},
		ErrorResults(&customerrors.ValidationError{URL: "x", Message: "Invalid URL format"}))
	assert.Equal(t,
		[]models.Result{{Error: "API error 502: bad gateway"}},
		ErrorResults(&customerrors.APIError{Status: 502, Body: "bad gateway"}))
}

func TestShortcodeOf(t *testing.T) {
	assert.Equal(t, "given", shortcodeOf(models.Result{Shortcode: "given", ShortURL: "http://s/other"}))
	assert.Equal(t, "abc123", shortcodeOf(models.Result{ShortURL: "http://short.ly/abc123"}))
	assert.Empty(t, shortcodeOf(models.Result{ShortURL: "http://short.ly/"}))
}

func TestStatsService_Load(t *testing.T) {
	items := []models.StatsItem{{Shortcode: "abc123", OriginalURL: "http://a.co"}}
	events := &eventRecorder{}
	svc := NewStatsService(&stubAPI{stats: items}, events, "frontend")

	got, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, []string{"info:Fetching stats"}, events.messages())
	assert.Equal(t, "stats-page", events.events[0].Package)
}

func TestStatsService_LoadFailure(t *testing.T) {
	events := &eventRecorder{}
	svc := NewStatsService(&stubAPI{statsErr: &customerrors.APIError{Status: 401, Body: "unauthorized"}}, events, "frontend")

	got, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, []string{"info:Fetching stats", "error:Stats fetch failed"}, events.messages())
	assert.Equal(t, map[string]any{"error": "API error 401: unauthorized"}, events.events[1].Meta)
}
