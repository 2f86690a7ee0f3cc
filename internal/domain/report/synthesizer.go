// Package report assembles the analysis prompt handed to the text
// generation collaborator. The prompt's structure and ordering are a
// contract: the downstream generator is prompted on this exact shape, so
// Synthesize is byte-for-byte deterministic for a given collection and
// scope.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/assay/internal/domain/model"
	"github.com/okian/assay/internal/domain/query"
)

// instructionBlock is the fixed seven-part analysis instruction. It is
// static text, reproduced verbatim in every prompt.
const instructionBlock = `1. Comprehensive Notes Summary and Sentiment Analysis:
Start with a detailed summary of all notes across all capabilities and assessments. This should include:
- A chronological overview of the notes, highlighting key themes and changes over time
- Direct quotes from the notes that illustrate important points or shifts in focus
- An analysis of the overall sentiment in the notes, including how it has changed over time
- Specific examples of positive and negative sentiments, supported by quotes
- An interpretation of what these sentiments suggest about the entity's progress and challenges
If there are no notes for a particular capability or assessment, mention this fact in your analysis.

2. A concise summary of the overall performance across all capabilities, highlighting key improvements and areas of concern.

3. A focused analysis of progress over time, mentioning only capabilities with significant changes.

4. Top 3 strengths and top 3 areas for improvement, based on the most recent ratings and progress over time.

5. Detailed Analysis of Capabilities with Notes:
For each capability with notes, provide:
- The capability name and its most recent rating
- A chronological summary of all notes for this capability, including direct quotes
- Your interpretation of how the notes relate to the rating and how they've changed over time
- A specific recommendation based on the notes and rating

6. Summary Analysis of Capabilities without Notes:
For capabilities without notes, provide:
- The capability name and its most recent rating
- An analysis based on the criteria for the current score and what's needed for a higher score
- A specific recommendation for improvement

7. 3-5 specific, actionable recommendations for future focus areas, based on the identified weaknesses and the content of the notes.
`

// closingBlock reiterates the output expectations. Also static text.
const closingBlock = `Please provide a focused analysis based on this data, avoiding redundancies and emphasizing insights from the notes and criteria.
Ensure that your analysis includes specific ratings, meaningful quotes from notes where available, and clear, actionable recommendations.
For capabilities without notes, base your analysis on the criteria and current rating, explaining what's needed for improvement.

In the Comprehensive Notes Summary and Sentiment Analysis section, provide a detailed overview of all notes, their sentiment, and how they've evolved over time.
Use specific quotes to support your analysis and highlight any significant trends or changes in sentiment across different capabilities and assessments.
If a capability has no notes, include this information in your analysis and consider what this lack of notes might imply.
`

// Synthesizer builds analysis prompts from the query engine's views.
type Synthesizer struct {
	engine                 *query.Engine
	sortByAssessmentNumber bool
}

// New creates a Synthesizer over an engine.
func New(engine *query.Engine, opts ...Option) *Synthesizer {
	s := &Synthesizer{engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// capabilityGroup is one capability's rows, in prompt order.
type capabilityGroup struct {
	name string
	rows []model.Record
}

func (g capabilityGroup) hasNotes() bool {
	for _, r := range g.rows {
		if r.Notes != "" {
			return true
		}
	}
	return false
}

// lastRating is the rating of the group's last row. With the default row
// order this is positional, not chronological; see
// WithSortedByAssessmentNumber.
func (g capabilityGroup) lastRating() float64 {
	return g.rows[len(g.rows)-1].Rating
}

// Synthesize builds the full analysis prompt for the scope. It fails with
// ErrEmptyScope when the scope matches no records, since the group header
// cannot be derived from an empty subset.
func (s *Synthesizer) Synthesize(scope query.Scope) (string, error) {
	subset, err := s.engine.Filter(scope)
	if err != nil {
		return "", err
	}
	if len(subset) == 0 {
		return "", fmt.Errorf("%w: %s %q", ErrEmptyScope, strings.ToLower(scope.Kind.String()), scope.Name)
	}

	templates, err := s.engine.TemplateNames(scope)
	if err != nil {
		return "", err
	}
	dates, err := s.engine.AssessmentDates(scope)
	if err != nil {
		return "", err
	}
	numbers := distinctNumbers(subset)
	groups := groupByCapability(subset, s.sortByAssessmentNumber)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Analyze the following assessment data for %s: %s\n", scope.Kind, scope.Name))
	b.WriteString(fmt.Sprintf("Group: %s\n\n", subset[0].GroupName))
	b.WriteString(fmt.Sprintf("Template Name(s): %s\n", strings.Join(templates, ", ")))
	b.WriteString(fmt.Sprintf("Assessment Date(s): %s\n", strings.Join(dates, ", ")))
	b.WriteString(fmt.Sprintf("Assessment Number(s): %s\n", joinInts(numbers)))
	b.WriteString(fmt.Sprintf("Total Number of Assessments Analyzed: %d\n\n", len(numbers)))

	b.WriteString("Please provide the following analysis in this order:\n\n")
	b.WriteString(instructionBlock)

	b.WriteString("\nCapabilities with notes:\n")
	for _, g := range groups {
		if !g.hasNotes() {
			continue
		}
		b.WriteString(fmt.Sprintf("\nCapability: %s\n", g.name))
		b.WriteString(fmt.Sprintf("Most Recent Rating: %.2f\n", g.lastRating()))
		b.WriteString("Notes Over Time:\n")
		for _, r := range g.rows {
			if r.Notes == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("Assessment Number: %d\n", r.AssessmentNumber))
			b.WriteString(fmt.Sprintf("Date: %s\n", r.AssessmentDate))
			b.WriteString(fmt.Sprintf("Notes: %s\n", r.Notes))
		}
		writeCriteria(&b, g.rows)
	}

	b.WriteString("\nCapabilities without notes:\n")
	for _, g := range groups {
		if g.hasNotes() {
			continue
		}
		b.WriteString(fmt.Sprintf("\nCapability: %s\n", g.name))
		b.WriteString(fmt.Sprintf("Most Recent Rating: %.2f\n", g.lastRating()))
		writeCriteria(&b, g.rows)
	}

	b.WriteString("\n")
	b.WriteString(closingBlock)
	return b.String(), nil
}

// writeCriteria emits the union of distinct criteria text and distinct
// criteria-stage labels for a capability's rows.
func writeCriteria(b *strings.Builder, rows []model.Record) {
	b.WriteString(fmt.Sprintf("Criteria: %s\n", strings.Join(distinctBy(rows, func(r model.Record) string { return r.Criteria }), "; ")))
	b.WriteString(fmt.Sprintf("Criteria Stage: %s\n", strings.Join(distinctBy(rows, func(r model.Record) string { return r.CriteriaStage }), ", ")))
}

// groupByCapability partitions the subset by capability name, preserving
// first-occurrence order of capability names and row order within each
// group. When sorted is set, each group's rows are reordered by assessment
// number (stable, so ties keep row order).
func groupByCapability(subset []model.Record, sorted bool) []capabilityGroup {
	index := make(map[string]int)
	var groups []capabilityGroup
	for _, r := range subset {
		i, ok := index[r.CapabilityName]
		if !ok {
			i = len(groups)
			index[r.CapabilityName] = i
			groups = append(groups, capabilityGroup{name: r.CapabilityName})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	if sorted {
		for _, g := range groups {
			sort.SliceStable(g.rows, func(a, b int) bool {
				return g.rows[a].AssessmentNumber < g.rows[b].AssessmentNumber
			})
		}
	}
	return groups
}

func distinctNumbers(subset []model.Record) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range subset {
		if !seen[r.AssessmentNumber] {
			seen[r.AssessmentNumber] = true
			out = append(out, r.AssessmentNumber)
		}
	}
	return out
}

func distinctBy(rows []model.Record, key func(model.Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := key(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
