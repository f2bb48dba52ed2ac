package compiler

import "fmt"

// ErrorCode classifies a structural defect in notation source text.
// Codes are stable and safe to branch on.
type ErrorCode string

const (
	// CodeInvalidSource: the text cannot be decoded into the expected shape.
	CodeInvalidSource ErrorCode = "invalid_source"
	// CodeMissingField: a required field (code, title, BEGIN edge) is absent or empty.
	CodeMissingField ErrorCode = "missing_field"
	// CodeInvalidValue: a field value falls outside its closed domain.
	CodeInvalidValue ErrorCode = "invalid_value"
	// CodeDuplicateState: two state keys normalize to the same identifier.
	CodeDuplicateState ErrorCode = "duplicate_state"
	// CodeUnknownStateReference: a transition targets an undeclared state.
	CodeUnknownStateReference ErrorCode = "unknown_state_reference"
)

// ParseError is the single error type produced by Parse. Field names
// the offending source location (e.g. "title", "flow.BEGIN",
// "flow.entity_name").
type ParseError struct {
	Code   ErrorCode
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Reason)
}

func newError(code ErrorCode, field, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Field: field, Reason: fmt.Sprintf(format, args...)}
}
