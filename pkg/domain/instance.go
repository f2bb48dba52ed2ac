package domain

import (
	"time"

	"github.com/google/uuid"
)

// FlowKind selects which of a notation's machines drives execution.
type FlowKind string

const (
	// KindClient runs the client-facing flow.
	KindClient FlowKind = "client"
	// KindAlignment runs the staff-facing alignment machine, falling
	// back to the client flow when the notation declares none.
	KindAlignment FlowKind = "alignment"
)

// AnswerRecord is one entry of a FlowInstance's answer log.
type AnswerRecord struct {
	Value Answer    `json:"value" yaml:"value"`
	At    time.Time `json:"at" yaml:"at"`
}

// FlowInstance is the runtime cursor over one notation execution.
// It is a single-owner value: the engine mutates it synchronously and
// provides no locking of its own. Current is empty before Start and
// after completion.
//
// Lifecycle: not-started (Current == "", Completed == false) → active →
// completed. Restart returns it to not-started from any point.
type FlowInstance struct {
	ID        string                   `json:"id" yaml:"id"`
	Notation  *Notation                `json:"-" yaml:"-"`
	Kind      FlowKind                 `json:"kind" yaml:"kind"`
	Current   StateID                  `json:"current,omitempty" yaml:"current,omitempty"`
	Completed bool                     `json:"completed" yaml:"completed"`
	Answers   map[StateID]AnswerRecord `json:"answers" yaml:"answers"`
}

// NewInstance creates a fresh, not-started instance of a notation.
func NewInstance(n *Notation, kind FlowKind) *FlowInstance {
	return &FlowInstance{
		ID:       uuid.NewString(),
		Notation: n,
		Kind:     kind,
		Answers:  make(map[StateID]AnswerRecord),
	}
}

// Started reports whether the instance has left the not-started stage.
func (f *FlowInstance) Started() bool {
	return f.Completed || f.Current != ""
}

// Machine returns the state machine driving this instance.
func (f *FlowInstance) Machine() *StateMachine {
	return f.Notation.Machine(f.Kind)
}
