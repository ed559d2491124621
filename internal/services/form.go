package services

import (
	"context"
	"sync"

	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

// FormState is the state of one shorten form: Idle, Submitting, Done or Failed.
type FormState interface {
	formState()
}

// Idle is a form that has never been submitted.
type Idle struct{}

// Submitting is a form whose batch is in flight.
type Submitting struct {
	Items int
}

// Done holds the backend results, one per submitted item, in order.
type Done struct {
	Results []models.Result
}

// Failed holds the single error line to display and the cause.
type Failed struct {
	Results []models.Result
	Err     error
}

func (Idle) formState()       {}
func (Submitting) formState() {}
func (Done) formState()       {}
func (Failed) formState()     {}

// Submitter is the pipeline a Form drives. *ShortenService implements it.
type Submitter interface {
	Prepare(rows []models.Row) ([]models.SubmissionItem, error)
	Send(ctx context.Context, items []models.SubmissionItem) ([]models.Result, error)
}

// Form serialises submissions of one form instance. A call made while a batch
// is in flight is refused with errors.ErrBusy; nothing is queued.
type Form struct {
	mu        sync.Mutex
	submitter Submitter
	state     FormState
}

// NewForm creates an Idle form.
func NewForm(submitter Submitter) *Form {
	return &Form{submitter: submitter, state: Idle{}}
}

// State returns the current state.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy reports whether a batch is in flight.
func (f *Form) Busy() bool {
	_, busy := f.State().(Submitting)
	return busy
}

// Submit validates rows and, when they pass, sends them. It returns the final
// Done or Failed state. The in-flight call always runs to completion.
func (f *Form) Submit(ctx context.Context, rows []models.Row) (FormState, error) {
	f.mu.Lock()
	if _, busy := f.state.(Submitting); busy {
		f.mu.Unlock()
		return nil, customerrors.ErrBusy
	}

	items, err := f.submitter.Prepare(rows)
	if err != nil {
		f.state = Failed{Results: ErrorResults(err), Err: err}
		st := f.state
		f.mu.Unlock()
		return st, nil
	}
	f.state = Submitting{Items: len(items)}
	f.mu.Unlock()

	results, err := f.submitter.Send(ctx, items)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed{Results: ErrorResults(err), Err: err}
	} else {
		f.state = Done{Results: results}
	}
	return f.state, nil
}
