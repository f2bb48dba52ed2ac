// Package descriptor maps catalog question definitions into UI-agnostic
// rendering descriptors. The mapping is a pure function with no failure
// modes: presentation layers decide how (or whether) to draw each
// component kind.
package descriptor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/formery/formery/pkg/domain"
)

// ComponentKind enumerates the UI-agnostic control vocabulary. Every
// QuestionType maps to exactly one kind; the mapping in componentFor is
// required to stay total.
type ComponentKind string

const (
	ComponentTextField           ComponentKind = "text_field"
	ComponentTextArea            ComponentKind = "text_area"
	ComponentDatePicker          ComponentKind = "date_picker"
	ComponentDateTimePicker      ComponentKind = "datetime_picker"
	ComponentNumberField         ComponentKind = "number_field"
	ComponentToggle              ComponentKind = "toggle"
	ComponentRadio               ComponentKind = "radio"
	ComponentPicker              ComponentKind = "picker"
	ComponentMultiPicker         ComponentKind = "multi_picker"
	ComponentSecretField         ComponentKind = "secret_field"
	ComponentPhoneField          ComponentKind = "phone_field"
	ComponentEmailField          ComponentKind = "email_field"
	ComponentSSNField            ComponentKind = "ssn_field"
	ComponentEINField            ComponentKind = "ein_field"
	ComponentFileUpload          ComponentKind = "file_upload"
	ComponentPersonForm          ComponentKind = "person_form"
	ComponentAddressForm         ComponentKind = "address_form"
	ComponentOrgForm             ComponentKind = "org_form"
	ComponentRegisteredAgentForm ComponentKind = "registered_agent_form"
	ComponentSignaturePad        ComponentKind = "signature_pad"
	ComponentNotarizationPrompt  ComponentKind = "notarization_prompt"
	ComponentDocumentReview      ComponentKind = "document_review"
	ComponentIssuancePrompt      ComponentKind = "issuance_prompt"
	ComponentMailboxSetup        ComponentKind = "mailbox_setup"
)

// Component is a rendering instruction. Choices is populated only for
// kinds that present options.
type Component struct {
	Kind    ComponentKind   `json:"kind"`
	Choices []domain.Choice `json:"choices,omitempty"`
}

// StepDescriptor is everything a presentation layer needs to render one
// question step.
type StepDescriptor struct {
	Code         string    `json:"code"`
	Prompt       string    `json:"prompt"`
	Help         string    `json:"help,omitempty"`
	ContextLabel string    `json:"context_label,omitempty"`
	Component    Component `json:"component"`
	Action       bool      `json:"action,omitempty"`
}

// Placeholder markers expanded in prompts and help text.
const (
	placeholderFor    = "{{for_label}}"
	placeholderParent = "{{parent_label}}"
	placeholderLabel  = "{{label}}"
)

// labelSeparator joins context tokens into a breadcrumb-style label.
const labelSeparator = " › "

var titleCaser = cases.Title(language.English)

// Make builds the descriptor for one question occurrence. It computes a
// human-readable context label from the reference's context tokens and
// expands the {{for_label}}, {{parent_label}} and {{label}} markers in
// prompt and help text. Without a label the markers are left
// unexpanded; callers must tolerate raw placeholder text.
func Make(ref domain.QuestionReference, def domain.QuestionDefinition) StepDescriptor {
	label := ContextLabel(ref)
	return StepDescriptor{
		Code:         def.Code,
		Prompt:       expand(def.Prompt, label),
		Help:         expand(def.Help, label),
		ContextLabel: label,
		Component:    componentFor(def),
		Action:       def.Type.IsAction(),
	}
}

// ContextLabel renders the reference's context tokens: underscores
// become spaces, each token is title-cased, tokens are joined with an
// arrow separator. With no tokens it falls back to a heuristic default
// derived from the question code, or "" when none applies.
func ContextLabel(ref domain.QuestionReference) string {
	if len(ref.Context) == 0 {
		return defaultLabel(ref.Code)
	}
	tokens := make([]string, len(ref.Context))
	for i, t := range ref.Context {
		tokens[i] = titleCaser.String(strings.ReplaceAll(t, "_", " "))
	}
	return strings.Join(tokens, labelSeparator)
}

func defaultLabel(code string) string {
	switch {
	case strings.Contains(code, "entity"), strings.Contains(code, "org"):
		return "this entity"
	case strings.Contains(code, "person"), strings.Contains(code, "member"):
		return "this person"
	}
	return ""
}

func expand(text, label string) string {
	if label == "" {
		return text
	}
	for _, marker := range []string{placeholderFor, placeholderParent, placeholderLabel} {
		text = strings.ReplaceAll(text, marker, label)
	}
	return text
}

// componentFor is the total QuestionType → Component mapping. The
// trailing return only backstops values outside the closed enum.
func componentFor(def domain.QuestionDefinition) Component {
	switch def.Type {
	case domain.TypeString:
		return Component{Kind: ComponentTextField}
	case domain.TypeText:
		return Component{Kind: ComponentTextArea}
	case domain.TypeDate:
		return Component{Kind: ComponentDatePicker}
	case domain.TypeDateTime:
		return Component{Kind: ComponentDateTimePicker}
	case domain.TypeNumber:
		return Component{Kind: ComponentNumberField}
	case domain.TypeYesNo:
		return Component{Kind: ComponentToggle}
	case domain.TypeRadio:
		return Component{Kind: ComponentRadio, Choices: def.Choices}
	case domain.TypeSelect:
		return Component{Kind: ComponentPicker, Choices: def.Choices}
	case domain.TypeMultiSelect:
		return Component{Kind: ComponentMultiPicker, Choices: def.Choices}
	case domain.TypeSecret:
		return Component{Kind: ComponentSecretField}
	case domain.TypePhone:
		return Component{Kind: ComponentPhoneField}
	case domain.TypeEmail:
		return Component{Kind: ComponentEmailField}
	case domain.TypeSSN:
		return Component{Kind: ComponentSSNField}
	case domain.TypeEIN:
		return Component{Kind: ComponentEINField}
	case domain.TypeFile:
		return Component{Kind: ComponentFileUpload}
	case domain.TypePerson:
		return Component{Kind: ComponentPersonForm}
	case domain.TypeAddress:
		return Component{Kind: ComponentAddressForm}
	case domain.TypeOrg:
		return Component{Kind: ComponentOrgForm}
	case domain.TypeRegisteredAgent:
		return Component{Kind: ComponentRegisteredAgentForm}
	case domain.TypeSignature:
		return Component{Kind: ComponentSignaturePad}
	case domain.TypeNotarization:
		return Component{Kind: ComponentNotarizationPrompt}
	case domain.TypeDocument:
		return Component{Kind: ComponentDocumentReview}
	case domain.TypeIssuance:
		return Component{Kind: ComponentIssuancePrompt}
	case domain.TypeMailbox:
		return Component{Kind: ComponentMailboxSetup}
	}
	return Component{Kind: ComponentTextField}
}
