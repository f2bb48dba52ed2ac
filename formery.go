// Package formery compiles declarative questionnaire notations into
// directed state machines, validates them against a question catalog,
// and executes them step by step as answers arrive.
//
// The root package is a facade wiring the building blocks together:
// the registry (loading and caching parsed notations), the runtime
// (start / submit / restart transitions over flow instances), and the
// descriptor factory (UI-agnostic rendering of the current step).
// Hosts that need finer control can use the sub-packages directly.
package formery

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/formery/formery/internal/logging"
	"github.com/formery/formery/internal/runtime"
	"github.com/formery/formery/internal/validator"
	"github.com/formery/formery/pkg/catalog"
	"github.com/formery/formery/pkg/descriptor"
	"github.com/formery/formery/pkg/domain"
	"github.com/formery/formery/pkg/observability"
	"github.com/formery/formery/pkg/registry"
)

// Engine is the high-level entry point for the formery library.
type Engine struct {
	registry *registry.Registry
	runtime  *runtime.Engine
	catalog  catalog.Catalog
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	metrics  *observability.Metrics

	allowImplicitEndStates bool
	lint                   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCatalog supplies the question-definition lookup consulted by
// Validate and Describe.
func WithCatalog(c catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLifecycleHooks registers observability callbacks fired by the
// runtime.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMetrics wires a prometheus metric set into the registry and the
// runtime.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithImplicitEndStates tolerates nodes with zero transitions during
// validation.
func WithImplicitEndStates() Option {
	return func(e *Engine) {
		e.allowImplicitEndStates = true
	}
}

// WithLint enables advisory validation checks (shadowed transitions).
func WithLint() Option {
	return func(e *Engine) {
		e.lint = true
	}
}

// New initializes an engine. Without options it logs nowhere and has an
// empty catalog, so validation reports every question as unknown.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	registryOpts := []registry.Option{registry.WithLogger(e.logger)}
	if e.metrics != nil {
		registryOpts = append(registryOpts, registry.WithMetrics(e.metrics))
	}
	e.registry = registry.New(registryOpts...)

	hooks := e.hooks
	if e.metrics != nil {
		hooks = combineHooks(hooks, e.metrics.Hooks())
	}
	e.runtime = runtime.NewEngine(
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(hooks),
	)
	return e
}

// LoadDirectory parses every notation source file under dir and indexes
// the results, returning the newly parsed notations.
func (e *Engine) LoadDirectory(dir string, recursive bool) ([]*domain.Notation, error) {
	return e.registry.LoadDirectory(dir, recursive)
}

// Register adds a programmatically constructed notation.
func (e *Engine) Register(n *domain.Notation) {
	e.registry.AddNotation(n)
}

// Notation looks up a parsed notation by code.
func (e *Engine) Notation(code string) (*domain.Notation, bool) {
	return e.registry.Notation(code)
}

// Notations lists every registered notation, ordered by code.
func (e *Engine) Notations() []*domain.Notation {
	return e.registry.AllNotations()
}

// RawSource returns the original text a notation was loaded from.
func (e *Engine) RawSource(code string) (string, bool) {
	return e.registry.RawSource(code)
}

// Validate checks the notation registered under code against the
// configured catalog, aggregating every problem found.
func (e *Engine) Validate(code string) error {
	n, ok := e.registry.Notation(code)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotationNotFound, code)
	}
	return e.ValidateNotation(n)
}

// ValidateNotation checks an arbitrary notation against the configured
// catalog.
func (e *Engine) ValidateNotation(n *domain.Notation) error {
	return validator.Validate(n, validator.Configuration{
		Questions:              e.catalog,
		AllowImplicitEndStates: e.allowImplicitEndStates,
		Lint:                   e.lint,
	})
}

// NewInstance creates a not-started flow instance of a registered
// notation.
func (e *Engine) NewInstance(code string, kind domain.FlowKind) (*domain.FlowInstance, error) {
	n, ok := e.registry.Notation(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotationNotFound, code)
	}
	return domain.NewInstance(n, kind), nil
}

// Start moves the instance to its machine's initial state.
func (e *Engine) Start(inst *domain.FlowInstance) (domain.StateID, error) {
	return e.runtime.Start(inst)
}

// Submit records an answer for the current state and advances the
// instance. The returned state is "" when the flow completed.
func (e *Engine) Submit(inst *domain.FlowInstance, value domain.Answer) (domain.StateID, error) {
	return e.runtime.SubmitAnswer(inst, value, time.Now())
}

// SubmitAt is Submit with an explicit timestamp, for hosts that record
// their own clocks.
func (e *Engine) SubmitAt(inst *domain.FlowInstance, value domain.Answer, at time.Time) (domain.StateID, error) {
	return e.runtime.SubmitAnswer(inst, value, at)
}

// Restart returns the instance to its pre-start stage and clears the
// answer log.
func (e *Engine) Restart(inst *domain.FlowInstance) {
	e.runtime.Restart(inst)
}

// Describe renders the instance's current question step as a
// UI-agnostic descriptor using the configured catalog.
func (e *Engine) Describe(inst *domain.FlowInstance) (descriptor.StepDescriptor, error) {
	if inst.Completed {
		return descriptor.StepDescriptor{}, domain.ErrAlreadyCompleted
	}
	if inst.Current == "" {
		return descriptor.StepDescriptor{}, domain.ErrNotStarted
	}
	node := inst.Machine().Node(inst.Current)
	if node == nil {
		return descriptor.StepDescriptor{}, &domain.UnknownStateError{State: inst.Current}
	}
	def, ok := lookup(e.catalog, node.Question.Code)
	if !ok {
		return descriptor.StepDescriptor{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, node.Question.Code)
	}
	return descriptor.Make(node.Question, def), nil
}

func lookup(c catalog.Catalog, code string) (domain.QuestionDefinition, bool) {
	if c == nil {
		return domain.QuestionDefinition{}, false
	}
	return c.Question(code)
}

// combineHooks fans one event out to two hook sets.
func combineHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(e *domain.FlowEvent) {
			if a.OnStateEnter != nil {
				a.OnStateEnter(e)
			}
			if b.OnStateEnter != nil {
				b.OnStateEnter(e)
			}
		},
		OnAnswer: func(e *domain.AnswerEvent) {
			if a.OnAnswer != nil {
				a.OnAnswer(e)
			}
			if b.OnAnswer != nil {
				b.OnAnswer(e)
			}
		},
		OnComplete: func(e *domain.FlowEvent) {
			if a.OnComplete != nil {
				a.OnComplete(e)
			}
			if b.OnComplete != nil {
				b.OnComplete(e)
			}
		},
	}
}
