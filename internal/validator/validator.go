// Package validator cross-references a parsed notation against an
// external question catalog: reachability, type applicability and
// choice-list completeness.
//
// Unlike the compiler, which fails fast on the first structural defect,
// the validator aggregates every problem it finds and fails once with
// the full list. Its purpose is authoring feedback, where completeness
// matters more than fail-fast behavior.
package validator

import (
	"fmt"
	"strings"

	"github.com/formery/formery/pkg/catalog"
	"github.com/formery/formery/pkg/domain"
)

// Problem codes. Stable strings, safe to branch on.
const (
	// CodeUnknownQuestion: a reachable node references a question code
	// absent from the catalog. Reported once per missing code.
	CodeUnknownQuestion = "unknown_question"
	// CodeMissingChoices: a node branches on choices but its question's
	// definition declares none.
	CodeMissingChoices = "missing_choices"
	// CodeMissingNode: a transition targets a state with no node. The
	// compiler already prevents this for statically declared keys; the
	// validator re-checks for drift.
	CodeMissingNode = "missing_node"
	// CodeEmptyFlow: the start edge points directly at END.
	CodeEmptyFlow = "empty_flow"
	// CodeDeadEnd: a reachable node declares no transitions while
	// implicit end states are disallowed.
	CodeDeadEnd = "dead_end"
	// CodeShadowedTransition: a transition is declared after an "any"
	// condition in the same node and can never be selected. Advisory,
	// reported only when Configuration.Lint is set.
	CodeShadowedTransition = "shadowed_transition"
)

// Problem is one semantic defect found in a notation.
type Problem struct {
	Code    string         `json:"code"`
	Machine string         `json:"machine"`
	State   domain.StateID `json:"state,omitempty"`
	Message string         `json:"message"`
}

func (p Problem) String() string {
	if p.State == "" {
		return fmt.Sprintf("[%s] %s: %s", p.Code, p.Machine, p.Message)
	}
	return fmt.Sprintf("[%s] %s.%s: %s", p.Code, p.Machine, p.State, p.Message)
}

// Error aggregates every problem of one validation pass.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation problems:\n", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, p.String())
	}
	return sb.String()
}

// Problems returns the aggregated problem list if err came from
// Validate, nil otherwise.
func Problems(err error) []Problem {
	if vErr, ok := err.(*Error); ok {
		return vErr.Problems
	}
	return nil
}

// Configuration supplies the external context a notation is checked
// against.
type Configuration struct {
	// Questions resolves question codes to their catalog definitions.
	Questions catalog.Catalog
	// AllowImplicitEndStates tolerates nodes with zero transitions.
	// When false, such dead ends are reported.
	AllowImplicitEndStates bool
	// Lint enables advisory checks (shadowed transitions) on top of the
	// semantic ones.
	Lint bool
}

// Validate checks a notation against cfg, aggregating all problems.
// Both the flow and, when present, the alignment machine are walked
// independently under the same rules. Returns nil or an *Error carrying
// the full list.
func Validate(n *domain.Notation, cfg Configuration) error {
	w := &walker{cfg: cfg, seenMissing: make(map[string]bool)}
	w.walk("flow", &n.Flow)
	if n.Alignment != nil {
		w.walk("alignment", n.Alignment)
	}
	if len(w.problems) > 0 {
		return &Error{Problems: w.problems}
	}
	return nil
}

type walker struct {
	cfg      Configuration
	problems []Problem
	// seenMissing dedupes unknown_question reports per code across the
	// whole notation.
	seenMissing map[string]bool
}

func (w *walker) report(code, machine string, state domain.StateID, format string, args ...any) {
	w.problems = append(w.problems, Problem{
		Code:    code,
		Machine: machine,
		State:   state,
		Message: fmt.Sprintf(format, args...),
	})
}

// walk performs a depth-first reachability pass from the machine's
// start destination. Cycles are legal (review-and-amend loops), so the
// traversal tracks visited states explicitly instead of relying on
// recursion.
func (w *walker) walk(name string, m *domain.StateMachine) {
	if m.Start.End {
		w.report(CodeEmptyFlow, name, "", "start edge completes the flow before any question")
		return
	}

	visited := make(map[domain.StateID]bool)
	stack := []domain.StateID{m.Start.State}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		node := m.Node(id)
		if node == nil {
			w.report(CodeMissingNode, name, id, "no node declared for referenced state")
			continue
		}
		w.checkNode(name, node)

		for _, t := range node.Transitions {
			if t.To.End {
				continue
			}
			if !visited[t.To.State] {
				stack = append(stack, t.To.State)
			}
		}
	}
}

func (w *walker) checkNode(machine string, node *domain.Node) {
	code := node.Question.Code
	def, known := lookupQuestion(w.cfg.Questions, code)
	if !known {
		if !w.seenMissing[code] {
			w.seenMissing[code] = true
			w.report(CodeUnknownQuestion, machine, node.ID, "question %q is not defined in the catalog", code)
		}
	}

	branchesOnChoice := false
	shadowed := false
	anySeen := false
	for _, t := range node.Transitions {
		switch t.Condition.(type) {
		case domain.ChoiceCondition:
			branchesOnChoice = true
			if anySeen {
				shadowed = true
			}
		case domain.AnyCondition:
			if anySeen {
				shadowed = true
			}
			anySeen = true
		}
	}

	if known && branchesOnChoice && def.Type.RequiresChoices() && len(def.Choices) == 0 {
		w.report(CodeMissingChoices, machine, node.ID, "question %q branches on choices but its definition declares none", code)
	}
	if len(node.Transitions) == 0 && !w.cfg.AllowImplicitEndStates {
		w.report(CodeDeadEnd, machine, node.ID, "node declares no transitions and implicit end states are disallowed")
	}
	if w.cfg.Lint && shadowed {
		w.report(CodeShadowedTransition, machine, node.ID, "transitions declared after an unconditional one can never be selected")
	}
}

func lookupQuestion(c catalog.Catalog, code string) (domain.QuestionDefinition, bool) {
	if c == nil {
		return domain.QuestionDefinition{}, false
	}
	return c.Question(code)
}
