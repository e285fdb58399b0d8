package invalidation

import (
	"context"
	"errors"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultSuccessMessage is shown when a mutation names no success message.
	DefaultSuccessMessage = "Changes saved."
	// DefaultFailureMessage is shown when a failed write carries no usable message.
	DefaultFailureMessage = "Something went wrong. Please try again."
)

// Mutation describes one write and how to report it.
type Mutation[R any] struct {
	Kind domain.MutationKind
	// Exec performs the write.
	Exec func(ctx context.Context) (R, error)
	// Target extracts the touched scope and entities from the result. When
	// nil, a result implementing domain.Targeter is asked instead.
	Target func(R) domain.Target
	// SuccessMessage is shown after a successful write, DefaultSuccessMessage if empty.
	SuccessMessage string
	// FailureMessage replaces DefaultFailureMessage when the error has no message.
	FailureMessage string
	// LogPrefix prefixes the logged error of a failed write.
	LogPrefix string
	// OnSuccess runs after the success notification.
	OnSuccess func(ctx context.Context, result R)
}

// Outcome is the record of one mutation invocation.
type Outcome[R any] struct {
	Result R
	// Err wraps domain.ErrMutationFailed when the write failed.
	Err error
	// States is the ordered trail of states the invocation went through.
	States []domain.MutationState
	Fanout Fanout
}

// Failed reports whether the write failed.
func (o Outcome[R]) Failed() bool {
	return o.Err != nil
}

// Mutator runs writes and applies the invalidation graph after each success.
type Mutator struct {
	graph    *Graph
	notifier ports.Notifier
	logger   ports.Logger
	tracer   ports.Tracer
}

// NewMutator creates a mutator.
func NewMutator(graph *Graph, notifier ports.Notifier, logger ports.Logger, tracer ports.Tracer) *Mutator {
	return &Mutator{
		graph:    graph,
		notifier: notifier,
		logger:   logger,
		tracer:   tracer,
	}
}

// Graph returns the invalidation graph the mutator applies.
func (m *Mutator) Graph() *Graph {
	return m.graph
}

// Mutate runs mut through m. Invalidation always completes before the
// success notification is emitted. A failed write invalidates nothing.
func Mutate[R any](ctx context.Context, m *Mutator, mut Mutation[R]) Outcome[R] {
	ctx, span := m.tracer.Start(ctx, "mutation."+string(mut.Kind))
	defer span.End()

	out := Outcome[R]{States: []domain.MutationState{domain.StatePending}}
	step := func(s domain.MutationState) {
		out.States = append(out.States, s)
	}

	step(domain.StateExecuting)
	result, err := mut.Exec(ctx)
	if err != nil {
		step(domain.StateFailed)
		span.RecordError(err)

		prefix := mut.LogPrefix
		if prefix == "" {
			prefix = "mutation " + string(mut.Kind) + " failed"
		}
		m.logger.Error(zerr.With(zerr.Wrap(err, prefix), "mutation", string(mut.Kind)))
		m.notifier.Failure(failureMessage(err, mut.FailureMessage))

		step(domain.StateReported)
		out.Err = errors.Join(domain.ErrMutationFailed, err)
		span.SetAttribute("state", string(domain.StateReported))
		return out
	}

	out.Result = result
	step(domain.StateSucceeded)

	step(domain.StateInvalidating)
	out.Fanout = m.graph.Invalidate(mut.Kind, targetOf(mut, result))
	span.SetAttribute("invalidated.entries", out.Fanout.Entries)
	span.SetAttribute("invalidated.scoped_sets", out.Fanout.ScopedSets)

	msg := mut.SuccessMessage
	if msg == "" {
		msg = DefaultSuccessMessage
	}
	m.notifier.Success(msg)
	step(domain.StateReported)
	span.SetAttribute("state", string(domain.StateReported))

	if mut.OnSuccess != nil {
		mut.OnSuccess(ctx, result)
	}
	return out
}

func targetOf[R any](mut Mutation[R], result R) domain.Target {
	if mut.Target != nil {
		return mut.Target(result)
	}
	if t, ok := any(result).(domain.Targeter); ok {
		return t.MutationTarget()
	}
	return domain.Target{}
}

// failureMessage returns the outermost non-empty message in the chain of err,
// or the fallback when there is none.
func failureMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultFailureMessage
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if zErr, ok := e.(*zerr.Error); ok {
			if msg := zErr.Message(); msg != "" {
				return msg
			}
			continue
		}
		if msg := e.Error(); msg != "" {
			return msg
		}
		break
	}
	return fallback
}
