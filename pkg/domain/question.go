package domain

// QuestionType is the closed enum of input kinds a catalog question can
// declare. Every consumer (notably the descriptor factory) must map the
// full set; an unmapped type is a defect.
type QuestionType string

const (
	TypeString          QuestionType = "string"
	TypeText            QuestionType = "text"
	TypeDate            QuestionType = "date"
	TypeDateTime        QuestionType = "datetime"
	TypeNumber          QuestionType = "number"
	TypeYesNo           QuestionType = "yesNo"
	TypeRadio           QuestionType = "radio"
	TypeSelect          QuestionType = "select"
	TypeMultiSelect     QuestionType = "multiSelect"
	TypeSecret          QuestionType = "secret"
	TypePhone           QuestionType = "phone"
	TypeEmail           QuestionType = "email"
	TypeSSN             QuestionType = "ssn"
	TypeEIN             QuestionType = "ein"
	TypeFile            QuestionType = "file"
	TypePerson          QuestionType = "person"
	TypeAddress         QuestionType = "address"
	TypeOrg             QuestionType = "org"
	TypeRegisteredAgent QuestionType = "registeredAgent"
	TypeSignature       QuestionType = "signature"
	TypeNotarization    QuestionType = "notarization"
	TypeDocument        QuestionType = "document"
	TypeIssuance        QuestionType = "issuance"
	TypeMailbox         QuestionType = "mailbox"
)

// QuestionTypes lists every declared type, in declaration order.
// Useful for exhaustiveness checks in tests and tooling.
var QuestionTypes = []QuestionType{
	TypeString, TypeText, TypeDate, TypeDateTime, TypeNumber, TypeYesNo,
	TypeRadio, TypeSelect, TypeMultiSelect, TypeSecret, TypePhone,
	TypeEmail, TypeSSN, TypeEIN, TypeFile, TypePerson, TypeAddress,
	TypeOrg, TypeRegisteredAgent, TypeSignature, TypeNotarization,
	TypeDocument, TypeIssuance, TypeMailbox,
}

// RequiresChoices reports whether a definition of this type must carry
// a non-empty choice list to be answerable.
func (t QuestionType) RequiresChoices() bool {
	switch t {
	case TypeRadio, TypeSelect, TypeMultiSelect:
		return true
	}
	return false
}

// IsAction reports whether this type is a trigger step that performs
// something rather than collecting a plain value.
func (t QuestionType) IsAction() bool {
	switch t {
	case TypeSignature, TypeNotarization, TypeDocument:
		return true
	}
	return false
}

// Choice is one selectable option of a choice-requiring question.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// QuestionDefinition is the catalog's reusable description of one
// question. Definitions are owned by an external catalog collaborator;
// this engine only reads them.
type QuestionDefinition struct {
	Code    string       `json:"code" yaml:"code"`
	Type    QuestionType `json:"type" yaml:"type"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Help    string       `json:"help,omitempty" yaml:"help,omitempty"`
	Choices []Choice     `json:"choices,omitempty" yaml:"choices,omitempty"`
}
