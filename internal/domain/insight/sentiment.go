package insight

import (
	"context"
	"fmt"

	"github.com/okian/assay/internal/adapters/llm"
)

// sentimentInstruction is the fixed classification request prepended to
// the analyzed text.
const sentimentInstruction = "Analyze the sentiment of the following text and categorize it as positive, negative, or neutral. Provide a brief explanation for your categorization:\n\n"

// SentimentAnalyzer classifies free text as positive, negative, or
// neutral via the generation collaborator.
type SentimentAnalyzer struct {
	gen llm.Generator
}

// NewSentimentAnalyzer creates a SentimentAnalyzer backed by gen.
func NewSentimentAnalyzer(gen llm.Generator) *SentimentAnalyzer {
	return &SentimentAnalyzer{gen: gen}
}

// Analyze returns the collaborator's sentiment classification of text.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	out, err := a.gen.Generate(ctx, sentimentInstruction+text)
	if err != nil {
		return "", fmt.Errorf("analyze sentiment: %w", err)
	}
	return out, nil
}
