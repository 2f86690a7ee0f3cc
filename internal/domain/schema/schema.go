// Package schema validates raw tabular assessment rows and builds the
// immutable record collection every downstream query runs against.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/assay/internal/domain/model"
)

// Accepted external column names for the ten logical record fields.
const (
	FieldGroup            = "Group Names"
	FieldEntity           = "Entity Name"
	FieldCapability       = "Capability Name"
	FieldTemplate         = "Template Name"
	FieldAssessmentDate   = "Assessment Date"
	FieldAssessmentNumber = "Assessment Number"
	FieldRating           = "Rating"
	FieldNotes            = "Notes"
	FieldCriteria         = "Criteria"
	FieldCriteriaStage    = "Criteria Stage"
)

// noteAlias is the one accepted alternate name; when FieldNotes is absent
// but the alias is present, the alias column is read as FieldNotes.
const noteAlias = "Comments"

// requiredColumns lists every column a dataset must resolve, in the order
// missing names are reported.
var requiredColumns = []string{
	FieldGroup,
	FieldEntity,
	FieldCapability,
	FieldTemplate,
	FieldAssessmentDate,
	FieldAssessmentNumber,
	FieldRating,
	FieldNotes,
	FieldCriteria,
	FieldCriteriaStage,
}

// Validate checks that rows carry every required column, resolves the note
// column alias, coerces numeric columns, and constructs the immutable
// collection. The caller's rows are never mutated.
//
// Failure modes:
//   - neither Notes nor Comments present: *Error wrapping ErrMissingNoteField
//   - any other required column absent:   *Error wrapping ErrMissingColumns
//   - unparseable numeric cell:           error wrapping ErrInvalidValue
func Validate(rows []map[string]string) (*model.Collection, error) {
	cols := columnSet(rows)

	// Resolve the note column before the general presence check so the
	// missing-note condition surfaces as its own named failure.
	noteColumn := FieldNotes
	if !cols[FieldNotes] {
		if !cols[noteAlias] {
			return nil, newMissingNoteField()
		}
		noteColumn = noteAlias
		cols[FieldNotes] = true
	}

	var missing []string
	for _, name := range requiredColumns {
		if !cols[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, newMissingColumns(missing)
	}

	records := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		number, err := strconv.Atoi(strings.TrimSpace(row[FieldAssessmentNumber]))
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrInvalidValue, FieldAssessmentNumber, i, err)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(row[FieldRating]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrInvalidValue, FieldRating, i, err)
		}
		records = append(records, model.Record{
			GroupName:        row[FieldGroup],
			EntityName:       row[FieldEntity],
			CapabilityName:   row[FieldCapability],
			TemplateName:     row[FieldTemplate],
			AssessmentDate:   row[FieldAssessmentDate],
			AssessmentNumber: number,
			Rating:           rating,
			Notes:            row[noteColumn],
			Criteria:         row[FieldCriteria],
			CriteriaStage:    row[FieldCriteriaStage],
		})
	}
	return model.NewCollection(records), nil
}

// columnSet reports which columns the dataset carries. A column counts as
// present when every row has the key; loaders emit uniform keys per file,
// so in practice the first row decides.
func columnSet(rows []map[string]string) map[string]bool {
	cols := make(map[string]bool)
	if len(rows) == 0 {
		return cols
	}
	for name := range rows[0] {
		cols[name] = true
	}
	for _, row := range rows[1:] {
		for name := range cols {
			if _, ok := row[name]; !ok {
				delete(cols, name)
			}
		}
	}
	return cols
}
