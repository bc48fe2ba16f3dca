package validation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string
	Message string
}

// Report collects validation issues for one request. The zero value is an
// empty report and is ready to use.
type Report struct {
	issues []Issue
}

// Append records an issue. Order is preserved and duplicates are kept.
func (r *Report) Append(field, message string) {
	r.issues = append(r.issues, Issue{Field: field, Message: message})
}

// IsEmpty reports whether no issue has been appended.
func (r *Report) IsEmpty() bool {
	return len(r.issues) == 0
}

// Issues returns a copy of the recorded issues in insertion order.
func (r *Report) Issues() []Issue {
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Err converts the report into a single *Error. It panics on an empty report.
func (r *Report) Err() *Error {
	if r.IsEmpty() {
		panic("validation: Err called on an empty report")
	}

	e := &Error{index: make(map[string]int)}
	for _, issue := range r.issues {
		i, ok := e.index[issue.Field]
		if !ok {
			i = len(e.fields)
			e.index[issue.Field] = i
			e.fields = append(e.fields, FieldIssues{Field: issue.Field})
		}
		e.fields[i].Messages = append(e.fields[i].Messages, issue.Message)
	}
	return e
}

// FieldIssues holds every message reported for one field.
type FieldIssues struct {
	Field    string
	Messages []string
}

// Error is the aggregated validation failure of a request. Fields appear in
// the order they were first reported.
type Error struct {
	fields []FieldIssues
	index  map[string]int
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+strings.Join(f.Messages, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the reported fields in order.
func (e *Error) Fields() []FieldIssues {
	return e.fields
}

// Messages returns the messages reported for field, or nil.
func (e *Error) Messages(field string) []string {
	i, ok := e.index[field]
	if !ok {
		return nil
	}
	return e.fields[i].Messages
}

// Has reports whether field has at least one message.
func (e *Error) Has(field string) bool {
	_, ok := e.index[field]
	return ok
}

// MarshalJSON encodes the error as an object keyed by field, keeping the
// reporting order of the keys.
func (e *Error) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Field)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(f.Messages)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
