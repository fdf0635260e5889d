// Package types holds the shared data model for the artifact validation pipeline.
package types

import (
	"encoding/json"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeveritySuggestion
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeveritySuggestion:
		return "suggestion"
	}
	return "unknown"
}

// Category classifies a diagnostic into an actionable group.
type Category string

const (
	CategoryImport           Category = "import"
	CategoryType             Category = "type"
	CategorySyntax           Category = "syntax"
	CategoryJSX              Category = "jsx"
	CategoryValidationInfra  Category = "validation"
	CategoryCompilationInfra Category = "compilation"
	CategoryUnknown          Category = "unknown"
)

// Synthetic diagnostic codes used for pipeline-level failures. They live far
// above the compiler's code space so they never collide with it.
const (
	CodeNoContent     = 9001 // no extractable code in the artifact
	CodeCompilerPanic = 9002 // program construction or diagnostic collection panicked
	CodeTimeout       = 9003 // a validation pass exceeded its budget
)

// Diagnostic represents one compiler-reported issue for an artifact.
// Line and Column are 1-based; 0 means the location is unavailable.
type Diagnostic struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Category Category `json:"category,omitempty"`
}

// FormattedError is a categorized, human-readable error record derived from a
// raw diagnostic.
type FormattedError struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Hint     string   `json:"hint,omitempty"`
	Location string   `json:"location"`
	Line     int      `json:"line"`
	Code     int      `json:"code"`
	Severity Severity `json:"severity"`
	Fixable  bool     `json:"fixable"`
}

// ValidationResult is the outcome of validating one artifact.
// Invariant: Success == (len(Errors) == 0).
type ValidationResult struct {
	Success    bool             `json:"success"`
	Errors     []FormattedError `json:"errors"`
	Attempts   int              `json:"attempts"`
	Skipped    bool             `json:"skipped,omitempty"`
	SkipReason string           `json:"skip_reason,omitempty"`
}

// ArtifactBody is the nested content shape some producers emit: the code may
// live under content.code or content.content instead of a top-level string.
type ArtifactBody struct {
	Code    string `json:"code,omitempty"`
	Content string `json:"content,omitempty"`
}

// Artifact is the unit of validation: one generated UI component's source
// plus metadata. The code may be carried in Content, Code, or the nested
// Inner body; extraction tolerates all shapes.
type Artifact struct {
	Identifier  string        `json:"identifier"`
	ContentType string        `json:"type"`
	Title       string        `json:"title,omitempty"`
	Content     string        `json:"content,omitempty"`
	Code        string        `json:"code,omitempty"`
	Inner       *ArtifactBody `json:"-"`
}

// artifactWire mirrors Artifact for JSON decoding, keeping "content" raw so it
// can be either a string or a nested object.
type artifactWire struct {
	Identifier  string          `json:"identifier"`
	ContentType string          `json:"type"`
	Title       string          `json:"title,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	Code        string          `json:"code,omitempty"`
}

// UnmarshalJSON decodes an artifact, accepting "content" as either a plain
// string or a nested {code, content} object.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var w artifactWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.Identifier = w.Identifier
	a.ContentType = w.ContentType
	a.Title = w.Title
	a.Code = w.Code
	a.Content = ""
	a.Inner = nil
	if len(w.Content) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(w.Content, &s); err == nil {
		a.Content = s
		return nil
	}
	var body ArtifactBody
	if err := json.Unmarshal(w.Content, &body); err != nil {
		return err
	}
	a.Inner = &body
	return nil
}

// MarshalJSON encodes the artifact back into the wire shape it was decoded
// from, preserving the nested content object when present.
func (a Artifact) MarshalJSON() ([]byte, error) {
	w := artifactWire{
		Identifier:  a.Identifier,
		ContentType: a.ContentType,
		Title:       a.Title,
		Code:        a.Code,
	}
	if a.Inner != nil {
		raw, err := json.Marshal(a.Inner)
		if err != nil {
			return nil, err
		}
		w.Content = raw
	} else if a.Content != "" {
		raw, err := json.Marshal(a.Content)
		if err != nil {
			return nil, err
		}
		w.Content = raw
	}
	return json.Marshal(w)
}

// WithCode returns a copy of the artifact with the code content replaced in
// every field that carried code, preserving all other fields and the nested
// shape. The receiver is not modified.
func (a Artifact) WithCode(code string) Artifact {
	out := a
	if a.Inner != nil {
		inner := *a.Inner
		if strings.TrimSpace(inner.Code) != "" {
			inner.Code = code
		} else if strings.TrimSpace(inner.Content) != "" {
			inner.Content = code
		} else {
			inner.Code = code
		}
		out.Inner = &inner
	}
	if strings.TrimSpace(a.Content) != "" {
		out.Content = code
	}
	if strings.TrimSpace(a.Code) != "" {
		out.Code = code
	}
	if out.Inner == nil && strings.TrimSpace(a.Content) == "" && strings.TrimSpace(a.Code) == "" {
		out.Content = code
	}
	return out
}
