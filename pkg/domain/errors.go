package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyCompleted is returned when Start or SubmitAnswer is called
// on a completed instance.
var ErrAlreadyCompleted = errors.New("flow already completed")

// ErrNotStarted is returned when SubmitAnswer is called before Start.
var ErrNotStarted = errors.New("flow not started")

// ErrNotationNotFound is returned by lookups for an unknown notation code.
var ErrNotationNotFound = errors.New("notation not found")

// ErrQuestionNotFound is returned when a catalog has no definition for
// a referenced question code.
var ErrQuestionNotFound = errors.New("question not found")

// UnknownStateError signals drift between an instance and its notation:
// the current state has no corresponding node in the active machine.
type UnknownStateError struct {
	State StateID
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("no node declared for state %q", e.State)
}

// NoTransitionError signals that a submitted answer matched none of the
// current node's transitions, or that a flow completed before asking
// anything (a start edge pointing directly at END).
type NoTransitionError struct {
	State StateID
}

func (e *NoTransitionError) Error() string {
	if e.State == "" {
		return "no matching transition: start edge completes the flow before any question"
	}
	return fmt.Sprintf("no transition of state %q matches the submitted answer", e.State)
}
