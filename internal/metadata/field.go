package metadata

import "strings"

// FieldType tags the UI control a field renders as.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeFile     FieldType = "file"
	TypeDropdown FieldType = "dropdown"
	TypeCheckbox FieldType = "checkbox"
	TypePanel    FieldType = "panel"
	TypeLabel    FieldType = "label"
)

// EvidenceFragment is one piece of raw behavior text attached to a field,
// tagged with the document region it came from. Fragments are kept in
// arrival order so classification stays traceable and re-runnable.
type EvidenceFragment struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Field is one entry in the field catalog. Identity is the integer ID,
// unique and stable for the run. Evidence is the only part mutated after
// the catalog is built.
type Field struct {
	ID          int                `json:"id"`
	DisplayName string             `json:"display_name"`
	Variable    string             `json:"variable_name"`
	Type        FieldType          `json:"type"`
	Panel       string             `json:"panel"`
	Evidence    []EvidenceFragment `json:"evidence,omitempty"`
}

// AppendEvidence records another behavior-text fragment for the field.
// Empty fragments are dropped.
func (f *Field) AppendEvidence(source, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	f.Evidence = append(f.Evidence, EvidenceFragment{Source: source, Text: text})
}

// BehaviorText joins all evidence fragments into the single view the
// classifier consumes.
func (f *Field) BehaviorText() string {
	if len(f.Evidence) == 0 {
		return ""
	}
	parts := make([]string, 0, len(f.Evidence))
	for _, ev := range f.Evidence {
		parts = append(parts, ev.Text)
	}
	return strings.Join(parts, ". ")
}

// IsInput reports whether the field can hold a user-entered value,
// as opposed to structural panel/label fields.
func (f *Field) IsInput() bool {
	return f.Type != TypePanel && f.Type != TypeLabel
}
