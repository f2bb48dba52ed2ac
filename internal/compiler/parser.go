// Package compiler converts declarative notation source text into the
// domain model, performing structural validation (duplicate states,
// dangling references) as a byproduct of graph construction.
package compiler

import (
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/formery/formery/pkg/domain"
)

// Reserved keys of the source format.
const (
	keyBegin = string(domain.Begin)
	keyEnd   = string(domain.End)
	keyAny   = "_"
)

// Parse decodes notation source text into a Notation.
//
// The walk operates on yaml.Node rather than plain maps because
// transition declaration order is significant at runtime and Go maps
// would discard it. Graphs are built in two phases: all state keys are
// collected first, then transitions are resolved against that set, so
// forward references need no lazy resolution.
//
// On failure a *ParseError is returned and no partial Notation.
func Parse(source []byte) (*domain.Notation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, newError(CodeInvalidSource, "", "not valid YAML: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil, newError(CodeInvalidSource, "", "empty source")
	}
	root := doc.Content[0]
	top, err := mappingPairs(root, "")
	if err != nil {
		return nil, err
	}

	n := &domain.Notation{
		Metadata: domain.Metadata{Respondent: domain.RespondentOrg},
	}
	var (
		docURL      string
		docType     string
		docMappings *yaml.Node
		flowNode    *yaml.Node
		alignNode   *yaml.Node
	)

	for _, p := range top {
		switch p.key {
		case "code":
			if err := decodeScalar(p.value, "code", &n.Metadata.Code); err != nil {
				return nil, err
			}
		case "title":
			if err := decodeScalar(p.value, "title", &n.Metadata.Title); err != nil {
				return nil, err
			}
		case "description":
			if err := decodeScalar(p.value, "description", &n.Metadata.Description); err != nil {
				return nil, err
			}
		case "respondent_type":
			var s string
			if err := decodeScalar(p.value, "respondent_type", &s); err != nil {
				return nil, err
			}
			rt := domain.RespondentType(s)
			if !rt.Valid() {
				return nil, newError(CodeInvalidValue, "respondent_type", "unrecognized respondent type %q", s)
			}
			n.Metadata.Respondent = rt
		case "document_url":
			if err := decodeScalar(p.value, "document_url", &docURL); err != nil {
				return nil, err
			}
		case "document_type":
			if err := decodeScalar(p.value, "document_type", &docType); err != nil {
				return nil, err
			}
		case "document_mappings":
			docMappings = p.value
		case "flow":
			flowNode = p.value
		case "alignment":
			alignNode = p.value
		}
	}

	if n.Metadata.Code == "" {
		return nil, newError(CodeMissingField, "code", "required")
	}
	if n.Metadata.Title == "" {
		return nil, newError(CodeMissingField, "title", "required")
	}

	if docURL != "" || docType != "" || docMappings != nil {
		d, err := buildDocument(docURL, docType, docMappings)
		if err != nil {
			return nil, err
		}
		n.Document = d
	}

	if flowNode == nil {
		return nil, newError(CodeMissingField, "flow", "required")
	}
	flow, err := buildMachine(flowNode, "flow")
	if err != nil {
		return nil, err
	}
	n.Flow = *flow

	if alignNode != nil {
		alignment, err := buildMachine(alignNode, "alignment")
		if err != nil {
			return nil, err
		}
		n.Alignment = alignment
	}

	return n, nil
}

// buildMachine constructs one state machine from a block of
// state-key → transition-map declarations.
func buildMachine(node *yaml.Node, block string) (*domain.StateMachine, error) {
	pairs, err := mappingPairs(node, block)
	if err != nil {
		return nil, err
	}

	// Phase 1: collect declared state keys.
	declared := make(map[domain.StateID]bool, len(pairs))
	var begin *yaml.Node
	for _, p := range pairs {
		switch p.key {
		case keyBegin:
			begin = p.value
		case keyEnd:
			// Reserved sentinel, never a real state.
		default:
			id := domain.StateID(p.key)
			if declared[id] {
				return nil, newError(CodeDuplicateState, block+"."+p.key, "state declared twice")
			}
			declared[id] = true
		}
	}

	if begin == nil {
		return nil, newError(CodeMissingField, block+"."+keyBegin, "required")
	}
	beginPairs, err := mappingPairs(begin, block+"."+keyBegin)
	if err != nil {
		return nil, err
	}
	if len(beginPairs) == 0 {
		return nil, newError(CodeMissingField, block+"."+keyBegin, "start edge required")
	}
	if len(beginPairs) != 1 {
		// Conditional branching at the very first step is disallowed by
		// construction: the start edge is a single unconditional jump.
		return nil, newError(CodeInvalidValue, block+"."+keyBegin, "exactly one start edge allowed, got %d", len(beginPairs))
	}
	start, err := resolveDestination(beginPairs[0].value, declared, block+"."+keyBegin)
	if err != nil {
		return nil, err
	}

	// Phase 2: build nodes, resolving transition targets against the
	// declared set.
	machine := &domain.StateMachine{
		Start: start,
		Nodes: make(map[domain.StateID]*domain.Node, len(declared)),
	}
	for _, p := range pairs {
		if p.key == keyBegin || p.key == keyEnd {
			continue
		}
		id := domain.StateID(p.key)
		n := &domain.Node{ID: id, Question: id.Reference()}

		// A null value declares a node with zero transitions (a dead
		// end short of END). The compiler tolerates it; the validator
		// flags it when implicit end states are disallowed.
		if !isNull(p.value) {
			field := block + "." + p.key
			tPairs, err := mappingPairs(p.value, field)
			if err != nil {
				return nil, err
			}
			for _, tp := range tPairs {
				dest, err := resolveDestination(tp.value, declared, field)
				if err != nil {
					return nil, err
				}
				var cond domain.Condition = domain.ChoiceCondition{Expected: tp.key}
				if tp.key == keyAny {
					cond = domain.AnyCondition{}
				}
				n.Transitions = append(n.Transitions, domain.Transition{Condition: cond, To: dest})
			}
		}
		machine.Nodes[id] = n
	}

	return machine, nil
}

// resolveDestination maps a transition target scalar to a Destination,
// confirming non-END targets are declared states.
func resolveDestination(node *yaml.Node, declared map[domain.StateID]bool, field string) (domain.Destination, error) {
	var target string
	if err := decodeScalar(node, field, &target); err != nil {
		return domain.Destination{}, err
	}
	if target == keyEnd {
		return domain.ToEnd(), nil
	}
	id := domain.StateID(target)
	if !declared[id] {
		return domain.Destination{}, newError(CodeUnknownStateReference, field, "transition targets undeclared state %q", target)
	}
	return domain.ToState(id), nil
}

// mappingDTO is the loose shape of one document-mapping entry.
type mappingDTO struct {
	Page       int       `mapstructure:"page"`
	UpperLeft  []float64 `mapstructure:"upper_left"`
	LowerLeft  []float64 `mapstructure:"lower_left"`
	UpperRight []float64 `mapstructure:"upper_right"`
	LowerRight []float64 `mapstructure:"lower_right"`
}

func buildDocument(url, docType string, mappings *yaml.Node) (*domain.Document, error) {
	d := &domain.Document{URL: url}
	if docType != "" {
		dt := domain.DocumentType(docType)
		if !dt.Valid() {
			return nil, newError(CodeInvalidValue, "document_type", "unrecognized document type %q", docType)
		}
		d.Type = dt
	}
	if mappings == nil {
		return d, nil
	}

	pairs, err := mappingPairs(mappings, "document_mappings")
	if err != nil {
		return nil, err
	}
	d.Mappings = make(map[string]domain.DocumentMapping, len(pairs))
	for _, p := range pairs {
		field := "document_mappings." + p.key
		var raw map[string]any
		if err := p.value.Decode(&raw); err != nil {
			return nil, newError(CodeInvalidSource, field, "expected a mapping entry: %v", err)
		}
		var dto mappingDTO
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &dto,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, newError(CodeInvalidSource, field, "%v", err)
		}
		if err := dec.Decode(raw); err != nil {
			return nil, newError(CodeInvalidValue, field, "malformed mapping entry: %v", err)
		}
		m, err := buildMapping(dto, field)
		if err != nil {
			return nil, err
		}
		d.Mappings[p.key] = m
	}
	return d, nil
}

func buildMapping(dto mappingDTO, field string) (domain.DocumentMapping, error) {
	m := domain.DocumentMapping{}
	if dto.Page < 0 {
		return m, newError(CodeInvalidValue, field, "page must be positive, got %d", dto.Page)
	}
	m.Page = dto.Page

	corners := [][]float64{dto.UpperLeft, dto.LowerLeft, dto.UpperRight, dto.LowerRight}
	present := 0
	for _, c := range corners {
		if c != nil {
			present++
		}
	}
	if present == 0 {
		return m, nil
	}
	// The quad is all-or-nothing: four corners of two coordinates each.
	if present != len(corners) {
		return m, newError(CodeInvalidValue, field, "placement quad requires all four corners")
	}
	pts := make([]domain.Point, len(corners))
	for i, c := range corners {
		if len(c) != 2 {
			return m, newError(CodeInvalidValue, field, "corner must be a 2-element array, got %d elements", len(c))
		}
		pts[i] = domain.Point{X: c[0], Y: c[1]}
	}
	m.Quad = &domain.PlacementQuad{
		UpperLeft:  pts[0],
		LowerLeft:  pts[1],
		UpperRight: pts[2],
		LowerRight: pts[3],
	}
	return m, nil
}

// pair is one ordered key/value entry of a YAML mapping.
type pair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns a mapping node's entries in declaration order,
// rejecting duplicate keys and non-mapping shapes.
func mappingPairs(node *yaml.Node, field string) ([]pair, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, newError(CodeInvalidSource, field, "expected a mapping")
	}
	pairs := make([]pair, 0, len(node.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, newError(CodeInvalidSource, field, "expected scalar keys")
		}
		if seen[k.Value] {
			return nil, newError(CodeDuplicateState, joinField(field, k.Value), "key declared twice")
		}
		seen[k.Value] = true
		pairs = append(pairs, pair{key: k.Value, value: node.Content[i+1]})
	}
	return pairs, nil
}

func decodeScalar(node *yaml.Node, field string, out *string) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return newError(CodeInvalidSource, field, "expected a scalar value")
	}
	if err := node.Decode(out); err != nil {
		return newError(CodeInvalidSource, field, "%v", err)
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == 0 || node.Tag == "!!null"
}

func joinField(field, key string) string {
	if field == "" {
		return key
	}
	return field + "." + key
}
