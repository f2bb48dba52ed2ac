// Package graph renders state machines as Mermaid flowcharts, an
// authoring aid consumed by the CLI.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/formery/formery/pkg/domain"
)

// Sentinel node identifiers in the rendered diagram.
const (
	beginID = "BEGIN"
	endID   = "END"
)

// GenerateMermaid produces Mermaid flowchart syntax (graph TD) for one
// state machine. The synthetic start edge is drawn from a BEGIN circle;
// transitions into completion converge on a single END circle.
// Choice-guarded edges carry their expected value as a label.
func GenerateMermaid(m *domain.StateMachine) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    %s((%s))\n", beginID, beginID))

	usesEnd := m.Start.End
	ids := sortedStateIDs(m)
	for _, id := range ids {
		node := m.Nodes[id]
		safeID := sanitizeMermaidID(string(id))
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, id))
		for _, t := range node.Transitions {
			if t.To.End {
				usesEnd = true
			}
		}
	}
	if usesEnd {
		sb.WriteString(fmt.Sprintf("    %s((%s))\n", endID, endID))
	}

	sb.WriteString(fmt.Sprintf("    %s --> %s\n", beginID, destinationID(m.Start)))
	for _, id := range ids {
		node := m.Nodes[id]
		safeID := sanitizeMermaidID(string(id))
		for _, t := range node.Transitions {
			arrow := "-->"
			if c, ok := t.Condition.(domain.ChoiceCondition); ok {
				label := strings.ReplaceAll(c.Expected, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", label)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, destinationID(t.To)))
		}
	}
	return sb.String()
}

func destinationID(d domain.Destination) string {
	if d.End {
		return endID
	}
	return sanitizeMermaidID(string(d.State))
}

func sortedStateIDs(m *domain.StateMachine) []domain.StateID {
	ids := make([]domain.StateID, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	// Deterministic output for diffs and golden tests.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
