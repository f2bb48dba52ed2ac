// Package runtime executes parsed notations: pure state-transition
// logic over FlowInstance values. Transitions are synchronous and
// side-effect free; the engine holds no state of its own beyond logging
// and observability hooks, so one Engine can serve any number of
// instances. Concurrent mutation of a single instance must be
// serialized by its owner.
package runtime

import (
	"log/slog"
	"time"

	"github.com/formery/formery/internal/logging"
	"github.com/formery/formery/pkg/domain"
)

// Engine drives FlowInstance values through their notation's machine.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for transition tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine. Without options it logs nowhere and
// fires no hooks.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start moves a not-started instance to its machine's initial state and
// returns it.
//
// A start edge pointing directly at END completes the instance and
// fails with a NoTransitionError: a flow that finishes before asking
// anything is a design-level inconsistency, not a silent success.
func (e *Engine) Start(inst *domain.FlowInstance) (domain.StateID, error) {
	if inst.Completed {
		return "", domain.ErrAlreadyCompleted
	}
	machine := inst.Machine()
	if machine.Start.End {
		inst.Completed = true
		inst.Current = ""
		return "", &domain.NoTransitionError{}
	}
	inst.Current = machine.Start.State
	e.logger.Debug("flow started",
		"instance", inst.ID, "notation", inst.Notation.Code(), "state", inst.Current)
	e.emitStateEnter(inst, time.Now())
	return inst.Current, nil
}

// SubmitAnswer records value against the current state and advances the
// instance along the first transition whose condition matches, in
// declaration order. It returns the new current state, or "" when the
// matched destination completed the flow.
//
// The answer is recorded before matching, overwriting any prior record
// for the state; resubmission on replay is explicitly supported.
func (e *Engine) SubmitAnswer(inst *domain.FlowInstance, value domain.Answer, at time.Time) (domain.StateID, error) {
	if inst.Completed {
		return "", domain.ErrAlreadyCompleted
	}
	if inst.Current == "" {
		return "", domain.ErrNotStarted
	}

	machine := inst.Machine()
	node := machine.Node(inst.Current)
	if node == nil {
		return "", &domain.UnknownStateError{State: inst.Current}
	}

	if inst.Answers == nil {
		inst.Answers = make(map[domain.StateID]domain.AnswerRecord)
	}
	inst.Answers[node.ID] = domain.AnswerRecord{Value: value, At: at}
	e.emitAnswer(inst, node.ID, value, at)

	for _, t := range node.Transitions {
		if !Matches(t.Condition, value) {
			continue
		}
		if t.To.End {
			inst.Current = ""
			inst.Completed = true
			e.logger.Debug("flow completed", "instance", inst.ID, "notation", inst.Notation.Code())
			e.emitComplete(inst, at)
			return "", nil
		}
		inst.Current = t.To.State
		e.logger.Debug("flow advanced",
			"instance", inst.ID, "from", node.ID, "to", inst.Current)
		e.emitStateEnter(inst, at)
		return inst.Current, nil
	}

	return "", &domain.NoTransitionError{State: node.ID}
}

// Restart unconditionally returns the instance to its pre-start stage
// and clears the answer log. It has no failure modes.
func (e *Engine) Restart(inst *domain.FlowInstance) {
	inst.Current = ""
	inst.Completed = false
	inst.Answers = make(map[domain.StateID]domain.AnswerRecord)
	e.logger.Debug("flow restarted", "instance", inst.ID, "notation", inst.Notation.Code())
}

func (e *Engine) emitStateEnter(inst *domain.FlowInstance, at time.Time) {
	if e.hooks.OnStateEnter == nil {
		return
	}
	e.hooks.OnStateEnter(e.event(inst, inst.Current, at))
}

func (e *Engine) emitAnswer(inst *domain.FlowInstance, state domain.StateID, value domain.Answer, at time.Time) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(&domain.AnswerEvent{FlowEvent: *e.event(inst, state, at), Value: value})
}

func (e *Engine) emitComplete(inst *domain.FlowInstance, at time.Time) {
	if e.hooks.OnComplete == nil {
		return
	}
	e.hooks.OnComplete(e.event(inst, "", at))
}

func (e *Engine) event(inst *domain.FlowInstance, state domain.StateID, at time.Time) *domain.FlowEvent {
	return &domain.FlowEvent{
		Timestamp: at,
		Instance:  inst.ID,
		Notation:  inst.Notation.Code(),
		Kind:      inst.Kind,
		State:     state,
	}
}
