package domain

// Answer is the closed vocabulary of value shapes the runtime matches
// transition conditions against. Consumers must handle every variant in
// a type switch.
type Answer interface {
	isAnswer()
}

// StringAnswer is a free-form text value.
type StringAnswer struct {
	Value string `json:"value" yaml:"value"`
}

func (StringAnswer) isAnswer() {}

// ChoiceAnswer is a single selected option value.
type ChoiceAnswer struct {
	Value string `json:"value" yaml:"value"`
}

func (ChoiceAnswer) isAnswer() {}

// MultiChoiceAnswer is a set of selected option values.
type MultiChoiceAnswer struct {
	Values []string `json:"values" yaml:"values"`
}

func (MultiChoiceAnswer) isAnswer() {}

// DataHash carries a digest of an uploaded or signed artifact.
type DataHash struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Value     string `json:"value" yaml:"value"`
}

// PayloadAnswer records an artifact by its digest (file uploads,
// signatures). Payload answers only match "any" conditions.
type PayloadAnswer struct {
	Hash DataHash `json:"hash" yaml:"hash"`
}

func (PayloadAnswer) isAnswer() {}

// MetadataAnswer is a bag of key/value fields (person, address and
// similar composite inputs). Metadata answers only match "any"
// conditions.
type MetadataAnswer struct {
	Fields map[string]string `json:"fields" yaml:"fields"`
}

func (MetadataAnswer) isAnswer() {}
