package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for schema errors. These allow errors.Is/As from callers.
var (
	ErrMissingColumns   = errors.New("missing required columns")
	ErrMissingNoteField = errors.New("missing note column")
	ErrInvalidValue     = errors.New("invalid column value")
)

// Error is a schema validation failure. Missing carries the exact list of
// column names that could not be resolved.
type Error struct {
	Missing []string
	kind    error
}

func newMissingColumns(missing []string) *Error {
	return &Error{Missing: missing, kind: ErrMissingColumns}
}

func newMissingNoteField() *Error {
	return &Error{Missing: []string{FieldNotes, noteAlias}, kind: ErrMissingNoteField}
}

func (e *Error) Error() string {
	if e.kind == ErrMissingNoteField {
		return fmt.Sprintf("neither %q nor %q column is present", FieldNotes, noteAlias)
	}
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Unwrap exposes the sentinel kind so callers can distinguish the
// note-column variant from the generic missing-columns failure.
func (e *Error) Unwrap() error {
	return e.kind
}
