package domain

import "strings"

// StateID identifies one question step in a state machine. It is an
// opaque label: equality is exact string comparison, no normalization.
// By convention it is composed as "<code>" or "<code>__<ctx1>__<ctx2>",
// which Reference splits apart.
type StateID string

// Reserved sentinel identifiers in the source format. Begin marks the
// single unconditional entry edge, End marks workflow completion.
// Neither may be declared as a real state.
const (
	Begin StateID = "BEGIN"
	End   StateID = "END"
)

// contextDelimiter separates the question code from its context tokens
// inside a StateID.
const contextDelimiter = "__"

// QuestionReference names a catalog question plus the ordered context
// tokens scoping this particular occurrence of it.
type QuestionReference struct {
	Code    string   `json:"code" yaml:"code"`
	Context []string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Reference derives the question reference encoded in the state ID:
// the segment before the first "__" is the question code, the remaining
// "__"-separated segments are the context tokens in order.
func (id StateID) Reference() QuestionReference {
	parts := strings.Split(string(id), contextDelimiter)
	ref := QuestionReference{Code: parts[0]}
	if len(parts) > 1 {
		ref.Context = parts[1:]
	}
	return ref
}

// Condition guards a transition. It is a closed vocabulary: consumers
// must handle every variant (AnyCondition, ChoiceCondition) in a type
// switch so that new variants cannot be silently ignored.
type Condition interface {
	isCondition()
}

// AnyCondition matches every submitted answer. Declared with the
// reserved key "_" in the source format.
type AnyCondition struct{}

func (AnyCondition) isCondition() {}

// ChoiceCondition matches answers whose payload equals (or, for
// multi-choice answers, contains) the expected value.
type ChoiceCondition struct {
	Expected string `json:"expected" yaml:"expected"`
}

func (ChoiceCondition) isCondition() {}

// Destination is where a matched transition leads: either a declared
// state or workflow completion.
type Destination struct {
	State StateID `json:"state,omitempty" yaml:"state,omitempty"`
	End   bool    `json:"end,omitempty" yaml:"end,omitempty"`
}

// ToState builds a destination targeting a declared state.
func ToState(id StateID) Destination { return Destination{State: id} }

// ToEnd builds the completion destination.
func ToEnd() Destination { return Destination{End: true} }

// Transition pairs a guard condition with a destination. Transitions
// are evaluated in declaration order and the first match wins.
type Transition struct {
	Condition Condition   `json:"condition" yaml:"condition"`
	To        Destination `json:"to" yaml:"to"`
}

// Node is one question step in the graph.
type Node struct {
	ID          StateID           `json:"id" yaml:"id"`
	Question    QuestionReference `json:"question" yaml:"question"`
	Transitions []Transition      `json:"transitions" yaml:"transitions"`
}

// StateMachine is a directed graph with a single synthetic start edge.
// Invariant (enforced by the compiler): every Destination.State
// referenced anywhere, including Start, exists as a key in Nodes.
type StateMachine struct {
	Start Destination       `json:"start" yaml:"start"`
	Nodes map[StateID]*Node `json:"nodes" yaml:"nodes"`
}

// Node returns the declared node for id, or nil if absent.
func (m *StateMachine) Node(id StateID) *Node {
	if m == nil {
		return nil
	}
	return m.Nodes[id]
}
