// Package insight produces narrative output from assessment data by
// pairing the report synthesizer with the text-generation collaborator.
// It adds no aggregation of its own and propagates collaborator failures
// unchanged; retry policy belongs to the caller.
package insight

import (
	"context"
	"fmt"

	"github.com/okian/assay/internal/adapters/llm"
	"github.com/okian/assay/internal/domain/query"
	"github.com/okian/assay/internal/domain/report"
)

// Summarizer generates a narrative analysis for one scope.
type Summarizer struct {
	gen llm.Generator
}

// NewSummarizer creates a Summarizer backed by gen.
func NewSummarizer(gen llm.Generator) *Summarizer {
	return &Summarizer{gen: gen}
}

// Summarize builds the analysis prompt for the scope and hands it to the
// generator. Fails with report.ErrEmptyScope for an empty scope and with
// the llm error taxonomy for collaborator failures.
func (s *Summarizer) Summarize(ctx context.Context, engine *query.Engine, scope query.Scope, opts ...report.Option) (string, error) {
	prompt, err := report.New(engine, opts...).Synthesize(scope)
	if err != nil {
		return "", err
	}
	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize %s %q: %w", scope.Kind, scope.Name, err)
	}
	return out, nil
}
