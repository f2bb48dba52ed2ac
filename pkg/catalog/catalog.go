// Package catalog defines the question-catalog lookup this engine
// consumes. Question definitions are owned by an external collaborator;
// the engine only needs code → definition resolution, so the contract
// is a single-method interface with a map-backed implementation for
// embedding and tests, plus a YAML file loader for authoring tools.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/formery/formery/pkg/domain"
)

// Catalog resolves question codes to their reusable definitions.
type Catalog interface {
	// Question returns the definition for code, reporting whether it
	// exists.
	Question(code string) (domain.QuestionDefinition, bool)
}

// Static is an immutable map-backed catalog.
type Static map[string]domain.QuestionDefinition

// Question implements Catalog.
func (s Static) Question(code string) (domain.QuestionDefinition, bool) {
	def, ok := s[code]
	return def, ok
}

// Codes returns the catalog's question codes in unspecified order.
func (s Static) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	return codes
}

// fileDefinition is the YAML shape of one catalog entry. The code lives
// in the map key, so entries omit it.
type fileDefinition struct {
	Type    domain.QuestionType `yaml:"type"`
	Prompt  string              `yaml:"prompt"`
	Help    string              `yaml:"help"`
	Choices []domain.Choice     `yaml:"choices"`
}

// LoadFile reads a YAML catalog of question definitions keyed by code:
//
//	entity_name:
//	  type: string
//	  prompt: "What is the name of {{for_label}}?"
//	annual_or_amended:
//	  type: radio
//	  choices:
//	    - {value: original, label: Original filing}
//	    - {value: amendment, label: Amendment}
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Load(data)
}

// Load decodes a YAML catalog document. Definitions with an
// unrecognized question type are rejected.
func Load(data []byte) (Static, error) {
	var raw map[string]fileDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	defs := make(Static, len(raw))
	for code, entry := range raw {
		if !validType(entry.Type) {
			return nil, fmt.Errorf("question %q: unrecognized type %q", code, entry.Type)
		}
		defs[code] = domain.QuestionDefinition{
			Code:    code,
			Type:    entry.Type,
			Prompt:  entry.Prompt,
			Help:    entry.Help,
			Choices: entry.Choices,
		}
	}
	return defs, nil
}

func validType(t domain.QuestionType) bool {
	for _, known := range domain.QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}
