package domain

// RespondentType declares who answers a notation's questions.
type RespondentType string

const (
	RespondentOrg          RespondentType = "org"
	RespondentOrgAndPerson RespondentType = "org_and_person"
)

// Valid reports whether r is one of the declared respondent types.
func (r RespondentType) Valid() bool {
	switch r {
	case RespondentOrg, RespondentOrgAndPerson:
		return true
	}
	return false
}

// Metadata identifies a notation. Code is the notation's identity and
// must be unique within a registry.
type Metadata struct {
	Code        string         `json:"code" yaml:"code"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Respondent  RespondentType `json:"respondent_type" yaml:"respondent_type"`
}

// DocumentType enumerates the template formats a notation can target.
type DocumentType string

const (
	DocumentPDF      DocumentType = "pdf"
	DocumentMarkdown DocumentType = "markdown"
)

// Valid reports whether t is one of the declared document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentPDF, DocumentMarkdown:
		return true
	}
	return false
}

// Point is a 2D page coordinate. X grows rightward, Y grows downward
// from the page's upper edge.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PlacementQuad describes the region a field value is overlaid into,
// named by its corners.
type PlacementQuad struct {
	UpperLeft  Point `json:"upper_left" yaml:"upper_left"`
	LowerLeft  Point `json:"lower_left" yaml:"lower_left"`
	UpperRight Point `json:"upper_right" yaml:"upper_right"`
	LowerRight Point `json:"lower_right" yaml:"lower_right"`
}

// DocumentMapping places one field into the target document. Page is
// 1-based; Page == 0 and Quad == nil mean the mapping carries no
// positional information (e.g. for markdown rendering).
type DocumentMapping struct {
	Page int            `json:"page,omitempty" yaml:"page,omitempty"`
	Quad *PlacementQuad `json:"quad,omitempty" yaml:"quad,omitempty"`
}

// Document binds a notation to the template its answers are rendered
// into. Consumed by a document-rendering collaborator, not by this
// engine.
type Document struct {
	URL      string                     `json:"url,omitempty" yaml:"url,omitempty"`
	Type     DocumentType               `json:"type,omitempty" yaml:"type,omitempty"`
	Mappings map[string]DocumentMapping `json:"mappings,omitempty" yaml:"mappings,omitempty"`
}

// Notation is the root parsed artifact: metadata, an optional document
// binding, the client-facing flow, and an optional staff-facing
// alignment variant of the same workflow.
type Notation struct {
	Metadata  Metadata      `json:"metadata" yaml:"metadata"`
	Document  *Document     `json:"document,omitempty" yaml:"document,omitempty"`
	Flow      StateMachine  `json:"flow" yaml:"flow"`
	Alignment *StateMachine `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// Code returns the notation's identity.
func (n *Notation) Code() string { return n.Metadata.Code }

// Machine selects the state machine driving execution for kind.
// An alignment-kind instance on a notation with no alignment block
// falls back to the client flow; callers that want a hard error must
// check Alignment themselves.
func (n *Notation) Machine(kind FlowKind) *StateMachine {
	if kind == KindAlignment && n.Alignment != nil {
		return n.Alignment
	}
	return &n.Flow
}
