// Package dsl provides a fluent builder for constructing notations in
// code, as an alternative to parsing source text. It is primarily a
// convenience for tests and embedders feeding Registry.AddNotation.
//
// Build applies the same referential checks as the compiler: every
// transition target must name a declared state or END.
package dsl

import (
	"fmt"

	"github.com/formery/formery/pkg/domain"
)

// Builder assembles one notation.
type Builder struct {
	metadata  domain.Metadata
	document  *domain.Document
	flow      *MachineBuilder
	alignment *MachineBuilder
}

// New creates a builder for a notation identified by code.
func New(code, title string) *Builder {
	b := &Builder{
		metadata: domain.Metadata{
			Code:       code,
			Title:      title,
			Respondent: domain.RespondentOrg,
		},
	}
	b.flow = &MachineBuilder{notation: b}
	return b
}

// Description sets the optional description.
func (b *Builder) Description(text string) *Builder {
	b.metadata.Description = text
	return b
}

// Respondent overrides the default respondent type.
func (b *Builder) Respondent(rt domain.RespondentType) *Builder {
	b.metadata.Respondent = rt
	return b
}

// Document attaches a document binding.
func (b *Builder) Document(doc domain.Document) *Builder {
	b.document = &doc
	return b
}

// Flow returns the client-facing machine builder.
func (b *Builder) Flow() *MachineBuilder {
	return b.flow
}

// Alignment returns the staff-facing machine builder, creating it on
// first use.
func (b *Builder) Alignment() *MachineBuilder {
	if b.alignment == nil {
		b.alignment = &MachineBuilder{notation: b}
	}
	return b.alignment
}

// Build assembles the notation, verifying metadata and every state
// reference.
func (b *Builder) Build() (*domain.Notation, error) {
	if b.metadata.Code == "" {
		return nil, fmt.Errorf("notation code is required")
	}
	if b.metadata.Title == "" {
		return nil, fmt.Errorf("notation title is required")
	}

	flow, err := b.flow.build("flow")
	if err != nil {
		return nil, err
	}
	n := &domain.Notation{
		Metadata: b.metadata,
		Document: b.document,
		Flow:     *flow,
	}
	if b.alignment != nil {
		alignment, err := b.alignment.build("alignment")
		if err != nil {
			return nil, err
		}
		n.Alignment = alignment
	}
	return n, nil
}

// MachineBuilder assembles one state machine.
type MachineBuilder struct {
	notation *Builder
	start    domain.Destination
	startSet bool
	order    []domain.StateID
	nodes    map[domain.StateID]*NodeBuilder
}

// StartAt sets the machine's single unconditional entry edge.
func (m *MachineBuilder) StartAt(id string) *MachineBuilder {
	m.start = domain.ToState(domain.StateID(id))
	m.startSet = true
	return m
}

// State declares a question step, deriving its question reference from
// the identifier. Repeated calls for the same id return the existing
// node builder.
func (m *MachineBuilder) State(id string) *NodeBuilder {
	if m.nodes == nil {
		m.nodes = make(map[domain.StateID]*NodeBuilder)
	}
	sid := domain.StateID(id)
	if nb, ok := m.nodes[sid]; ok {
		return nb
	}
	nb := &NodeBuilder{machine: m, id: sid}
	m.nodes[sid] = nb
	m.order = append(m.order, sid)
	return nb
}

// Notation returns to the enclosing builder for chaining.
func (m *MachineBuilder) Notation() *Builder {
	return m.notation
}

func (m *MachineBuilder) build(name string) (*domain.StateMachine, error) {
	if !m.startSet {
		return nil, fmt.Errorf("%s: start state is required", name)
	}
	machine := &domain.StateMachine{
		Start: m.start,
		Nodes: make(map[domain.StateID]*domain.Node, len(m.nodes)),
	}
	for _, id := range m.order {
		nb := m.nodes[id]
		machine.Nodes[id] = &domain.Node{
			ID:          id,
			Question:    id.Reference(),
			Transitions: nb.transitions,
		}
	}
	if err := checkReferences(name, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

func checkReferences(name string, m *domain.StateMachine) error {
	if !m.Start.End {
		if _, ok := m.Nodes[m.Start.State]; !ok {
			return fmt.Errorf("%s: start targets undeclared state %q", name, m.Start.State)
		}
	}
	for id, node := range m.Nodes {
		for _, t := range node.Transitions {
			if t.To.End {
				continue
			}
			if _, ok := m.Nodes[t.To.State]; !ok {
				return fmt.Errorf("%s.%s: transition targets undeclared state %q", name, id, t.To.State)
			}
		}
	}
	return nil
}

// NodeBuilder configures one state's transitions.
type NodeBuilder struct {
	machine     *MachineBuilder
	id          domain.StateID
	transitions []domain.Transition
}

// On adds a choice-guarded transition to another state.
func (n *NodeBuilder) On(expected, target string) *NodeBuilder {
	n.transitions = append(n.transitions, domain.Transition{
		Condition: domain.ChoiceCondition{Expected: expected},
		To:        domain.ToState(domain.StateID(target)),
	})
	return n
}

// OnEnd adds a choice-guarded transition that completes the flow.
func (n *NodeBuilder) OnEnd(expected string) *NodeBuilder {
	n.transitions = append(n.transitions, domain.Transition{
		Condition: domain.ChoiceCondition{Expected: expected},
		To:        domain.ToEnd(),
	})
	return n
}

// Then adds a catch-all transition to another state. Declare it last:
// anything after it can never be selected.
func (n *NodeBuilder) Then(target string) *NodeBuilder {
	n.transitions = append(n.transitions, domain.Transition{
		Condition: domain.AnyCondition{},
		To:        domain.ToState(domain.StateID(target)),
	})
	return n
}

// ThenEnd adds a catch-all transition that completes the flow.
func (n *NodeBuilder) ThenEnd() *NodeBuilder {
	n.transitions = append(n.transitions, domain.Transition{
		Condition: domain.AnyCondition{},
		To:        domain.ToEnd(),
	})
	return n
}

// Machine returns to the enclosing machine builder for chaining.
func (n *NodeBuilder) Machine() *MachineBuilder {
	return n.machine
}
