// Package query computes read-only analytic views over a validated
// record collection: entity and group discovery, scope filtering,
// time-series progress, capability scoring, criteria-stage distribution,
// and note extraction. Every operation is a pure function of the
// collection; concurrent callers need no coordination.
package query

import (
	"fmt"
	"sort"

	"github.com/okian/assay/internal/domain/model"
)

// Kind selects whether a scope names an entity or a group.
type Kind int

// Scope kinds.
const (
	Entity Kind = iota + 1
	Group
)

// String returns the capitalized kind label used in report headers.
func (k Kind) String() string {
	switch k {
	case Entity:
		return "Entity"
	case Group:
		return "Group"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) valid() bool {
	return k == Entity || k == Group
}

// Scope is the selection key for a query: one entity name or one group name.
type Scope struct {
	Kind Kind
	Name string
}

// ProgressPoint is the mean rating for one assessment pass.
type ProgressPoint struct {
	AssessmentNumber int     `json:"assessment_number"`
	MeanRating       float64 `json:"mean_rating"`
}

// CapabilityScore is the mean rating for one capability.
type CapabilityScore struct {
	CapabilityName string  `json:"capability_name"`
	MeanRating     float64 `json:"mean_rating"`
}

// Engine answers analytic queries against one immutable collection.
// A zero-value Engine is not usable; construct with New.
type Engine struct {
	collection *model.Collection
}

// New creates an Engine over a validated collection.
func New(c *model.Collection) *Engine {
	return &Engine{collection: c}
}

// Entities returns each distinct entity name exactly once, in
// first-occurrence order.
func (e *Engine) Entities() []string {
	return e.distinct(func(r model.Record) string { return r.EntityName })
}

// Groups returns each distinct group name exactly once, in
// first-occurrence order.
func (e *Engine) Groups() []string {
	return e.distinct(func(r model.Record) string { return r.GroupName })
}

// Filter returns the records matching the scope, in source order. An
// unknown name is not an error: the subset is simply empty and every
// downstream view degrades to empty results.
func (e *Engine) Filter(s Scope) ([]model.Record, error) {
	if !s.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScopeKind, int(s.Kind))
	}
	subset := make([]model.Record, 0)
	for i := 0; i < e.collection.Len(); i++ {
		r := e.collection.At(i)
		if scopeMatches(s, r) {
			subset = append(subset, r)
		}
	}
	return subset, nil
}

// Progress returns the mean rating per assessment number over the scope's
// records, ordered by assessment number ascending. Numbers absent from the
// subset get no entry.
func (e *Engine) Progress(s Scope) ([]ProgressPoint, error) {
	subset, err := e.Filter(s)
	if err != nil {
		return nil, err
	}
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range subset {
		sums[r.AssessmentNumber] += r.Rating
		counts[r.AssessmentNumber]++
	}
	numbers := make([]int, 0, len(sums))
	for n := range sums {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	points := make([]ProgressPoint, 0, len(numbers))
	for _, n := range numbers {
		points = append(points, ProgressPoint{
			AssessmentNumber: n,
			MeanRating:       sums[n] / float64(counts[n]),
		})
	}
	return points, nil
}

// CapabilityScores returns the mean rating per capability over the scope's
// records, in first-occurrence order of capability names.
func (e *Engine) CapabilityScores(s Scope) ([]CapabilityScore, error) {
	subset, err := e.Filter(s)
	if err != nil {
		return nil, err
	}
	var order []string
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range subset {
		if _, ok := sums[r.CapabilityName]; !ok {
			order = append(order, r.CapabilityName)
		}
		sums[r.CapabilityName] += r.Rating
		counts[r.CapabilityName]++
	}
	scores := make([]CapabilityScore, 0, len(order))
	for _, name := range order {
		scores = append(scores, CapabilityScore{
			CapabilityName: name,
			MeanRating:     sums[name] / float64(counts[name]),
		})
	}
	return scores, nil
}

// CriteriaDistribution returns how many of the scope's records reached
// each criteria stage.
func (e *Engine) CriteriaDistribution(s Scope) (map[string]int, error) {
	subset, err := e.Filter(s)
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int)
	for _, r := range subset {
		dist[r.CriteriaStage]++
	}
	return dist, nil
}

// Notes returns the non-empty notes of the scope's records, in row order.
func (e *Engine) Notes(s Scope) ([]string, error) {
	subset, err := e.Filter(s)
	if err != nil {
		return nil, err
	}
	notes := make([]string, 0)
	for _, r := range subset {
		if r.Notes != "" {
			notes = append(notes, r.Notes)
		}
	}
	return notes, nil
}

// AssessmentDates returns the distinct assessment dates of the scope's
// records, in first-occurrence order.
func (e *Engine) AssessmentDates(s Scope) ([]string, error) {
	return e.distinctInScope(s, func(r model.Record) string { return r.AssessmentDate })
}

// TemplateNames returns the distinct template names of the scope's
// records, in first-occurrence order.
func (e *Engine) TemplateNames(s Scope) ([]string, error) {
	return e.distinctInScope(s, func(r model.Record) string { return r.TemplateName })
}

func (e *Engine) distinct(key func(model.Record) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for i := 0; i < e.collection.Len(); i++ {
		v := key(e.collection.At(i))
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (e *Engine) distinctInScope(s Scope, key func(model.Record) string) ([]string, error) {
	subset, err := e.Filter(s)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range subset {
		v := key(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

func scopeMatches(s Scope, r model.Record) bool {
	if s.Kind == Group {
		return r.GroupName == s.Name
	}
	return r.EntityName == s.Name
}
