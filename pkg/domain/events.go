package domain

import "time"

// FlowEvent describes one runtime lifecycle occurrence.
type FlowEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Instance  string    `json:"instance"`
	Notation  string    `json:"notation"`
	Kind      FlowKind  `json:"kind"`
	State     StateID   `json:"state,omitempty"`
}

// AnswerEvent describes one recorded answer.
type AnswerEvent struct {
	FlowEvent
	Value Answer `json:"value"`
}

// LifecycleHooks defines optional callbacks for engine observability.
// Nil members are skipped. Hooks run synchronously on the caller's
// goroutine and must not mutate the instance.
type LifecycleHooks struct {
	OnStateEnter func(*FlowEvent)
	OnAnswer     func(*AnswerEvent)
	OnComplete   func(*FlowEvent)
}
