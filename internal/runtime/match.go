package runtime

import (
	"slices"

	"github.com/formery/formery/pkg/domain"
)

// Matches evaluates one transition condition against a submitted
// answer.
//
// "any" matches everything. A choice condition matches a choice or
// string answer whose payload equals the expected value exactly, or a
// multi-choice answer containing it; payload and metadata answers never
// match a choice condition. Both vocabularies are closed, so the
// switches below enumerate every variant.
func Matches(cond domain.Condition, value domain.Answer) bool {
	switch c := cond.(type) {
	case domain.AnyCondition:
		return true
	case domain.ChoiceCondition:
		switch v := value.(type) {
		case domain.StringAnswer:
			return v.Value == c.Expected
		case domain.ChoiceAnswer:
			return v.Value == c.Expected
		case domain.MultiChoiceAnswer:
			return slices.Contains(v.Values, c.Expected)
		case domain.PayloadAnswer, domain.MetadataAnswer:
			return false
		}
	}
	return false
}
