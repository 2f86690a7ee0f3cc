// Package model contains domain models passed between layers.
package model

// Record is one row of an assessment dataset: a single capability scored
// for one entity during one assessment pass. Multiple records share the
// same (EntityName, AssessmentNumber) pair, one per capability scored
// in that pass.
type Record struct {
	GroupName        string  // organizational group the entity belongs to
	EntityName       string  // assessed subject
	CapabilityName   string  // capability scored in this row
	TemplateName     string  // assessment template/version used
	AssessmentDate   string  // when this capability was scored
	AssessmentNumber int     // sequence id of one assessment pass
	Rating           float64 // numeric score for this capability
	Notes            string  // free-text note; empty when the row carried none
	Criteria         string  // description of the scoring criteria
	CriteriaStage    string  // criteria tier/stage reached
}

// Collection is an ordered, immutable sequence of validated records.
// It is safe for concurrent readers; nothing mutates it after construction.
type Collection struct {
	records []Record
}

// NewCollection builds a Collection from records, copying the slice so
// later caller mutations cannot reach the collection.
func NewCollection(records []Record) *Collection {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Collection{records: owned}
}

// Len returns the number of records in the collection.
func (c *Collection) Len() int {
	return len(c.records)
}

// At returns the record at index i in source order.
func (c *Collection) At(i int) Record {
	return c.records[i]
}

// Records returns a copy of all records in source order.
func (c *Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
