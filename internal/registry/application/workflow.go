package application

import (
	"context"
	"fmt"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/pubsub"
	"github.com/zjrosen/signup/internal/registry/domain"
)

// Result is what one submission produced.
type Result struct {
	Name    string
	Outcome domain.Outcome
	// Message is the greeting shown to the user.
	Message string
	// Rows is the registry as it should be displayed after the submission.
	Rows []domain.Registrant
}

// Greeting returns the user-facing message for an outcome.
func Greeting(outcome domain.Outcome, name string) string {
	switch outcome {
	case domain.OutcomeAlreadyPresent:
		return fmt.Sprintf("Welcome back, %s!", name)
	case domain.OutcomeInserted:
		return fmt.Sprintf("Thanks for signing up, %s!", name)
	default:
		return ""
	}
}

// Workflow runs one page interaction: read the registry, register the entered name if
// it is missing, and on insert drop the cached read and fetch again.
type Workflow struct {
	reader *Reader
	writer *Writer
	events pubsub.Publisher[domain.Registrant]
}

// WorkflowOption customizes a Workflow.
type WorkflowOption func(*Workflow)

// WithEvents publishes CreatedEvent for each inserted registrant and InvalidatedEvent
// when the cached read is dropped.
func WithEvents(p pubsub.Publisher[domain.Registrant]) WorkflowOption {
	return func(w *Workflow) { w.events = p }
}

// NewWorkflow combines a Reader and a Writer that share the same table.
func NewWorkflow(reader *Reader, writer *Writer, opts ...WorkflowOption) *Workflow {
	w := &Workflow{reader: reader, writer: writer}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load returns the registry for display.
func (w *Workflow) Load(ctx context.Context) ([]domain.Registrant, error) {
	return w.reader.FetchAll(ctx)
}

// Refresh drops the cached read and fetches again. Used when the table changed
// outside this process.
func (w *Workflow) Refresh(ctx context.Context) ([]domain.Registrant, error) {
	if err := w.reader.Invalidate(ctx); err != nil {
		return nil, err
	}
	w.publish(pubsub.InvalidatedEvent, domain.Registrant{})
	return w.reader.FetchAll(ctx)
}

// Submit registers name if it is not yet present. A blank name returns
// domain.ErrEmptyName and touches nothing.
//
// If the insert succeeds but the follow-up fetch fails, the returned Result still
// reports OutcomeInserted (with no rows) alongside the error.
func (w *Workflow) Submit(ctx context.Context, name string) (Result, error) {
	if _, err := domain.NewRegistrant(name, ""); err != nil {
		return Result{}, err
	}

	rows, err := w.reader.FetchAll(ctx)
	if err != nil {
		return Result{}, err
	}

	outcome, err := w.writer.RegisterIfAbsent(ctx, name, domain.NamesOf(rows))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Name:    name,
		Outcome: outcome,
		Message: Greeting(outcome, name),
		Rows:    rows,
	}
	if outcome != domain.OutcomeInserted {
		return result, nil
	}

	w.publish(pubsub.CreatedEvent, domain.Registrant{Name: name, Data: w.writer.placeholder})

	if err := w.reader.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatRegistry, "cache invalidation failed", err)
		result.Rows = nil
		return result, err
	}
	w.publish(pubsub.InvalidatedEvent, domain.Registrant{})

	refreshed, err := w.reader.FetchAll(ctx)
	if err != nil {
		result.Rows = nil
		return result, fmt.Errorf("refreshing after insert: %w", err)
	}
	result.Rows = refreshed
	return result, nil
}

func (w *Workflow) publish(eventType pubsub.EventType, r domain.Registrant) {
	if w.events != nil {
		w.events.Publish(eventType, r)
	}
}
