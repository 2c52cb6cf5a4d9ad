// Package frame contains the tabular input model handed to the engine by the
// data-source collaborator.
package frame

// FieldType tags the declared type of a field.
type FieldType string

// Known field type tags.
const (
	FieldTypeNumber  FieldType = "number"
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeTime    FieldType = "time"
	FieldTypeOther   FieldType = "other"
)

// TimeFieldName is the conventional name of a frame's time column.
const TimeFieldName = "Time"

// Field is a single named column of a frame.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	DisplayName string            `json:"display_name,omitempty"` // explicit override
	Values      []any             `json:"values"`
}

// IsTime reports whether the field carries the frame's temporal values.
func (f *Field) IsTime() bool {
	return f.Name == TimeFieldName || f.Type == FieldTypeTime
}

// Frame is one table of the input.
type Frame struct {
	Name   string  `json:"name,omitempty"`
	Fields []Field `json:"fields"`
}

// TimeField returns the first temporal field of the frame, or nil.
func (fr *Frame) TimeField() *Field {
	for i := range fr.Fields {
		if fr.Fields[i].IsTime() {
			return &fr.Fields[i]
		}
	}
	return nil
}

// Len returns the length of the longest field.
func (fr *Frame) Len() int {
	n := 0
	for i := range fr.Fields {
		if l := len(fr.Fields[i].Values); l > n {
			n = l
		}
	}
	return n
}

// DisplayNameFunc resolves the name a field is exposed under. Implementations
// must give identically named fields of different frames distinct names.
type DisplayNameFunc func(field *Field, fr *Frame) string
