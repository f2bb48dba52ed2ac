/*
Package domain contains the core value types of the formery engine.

It defines the parsed questionnaire artifact (Notation), its state graph
(StateMachine, Node, Transition), the closed answer and condition
vocabularies, and the runtime cursor (FlowInstance). The package is kept
pure: no I/O, no persistence, no rendering. Behavior beyond structural
invariants lives in the compiler, validator and runtime packages.

# Key Entities

  - Notation: a complete workflow definition (metadata, optional document
    binding, one or two state machines).
  - StateMachine / Node / Transition: the directed question graph.
  - Condition / Destination: the closed vocabularies guarding and
    targeting transitions.
  - Answer: the closed set of value shapes the runtime can match.
  - FlowInstance: the runtime snapshot of one respondent's progress.
*/
package domain
