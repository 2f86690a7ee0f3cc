// Package service provides the core business service that implements
// the dependencies required by the HTTP API: dataset ingestion through
// the storage collaborator, schema validation, the analytic views, and
// narrative generation through the text collaborator.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/assay/internal/adapters/llm"
	"github.com/okian/assay/internal/adapters/loader"
	"github.com/okian/assay/internal/adapters/storage"
	"github.com/okian/assay/internal/domain/insight"
	"github.com/okian/assay/internal/domain/model"
	"github.com/okian/assay/internal/domain/query"
	"github.com/okian/assay/internal/domain/report"
	"github.com/okian/assay/internal/domain/schema"
	"github.com/okian/assay/pkg/logger"
	"github.com/okian/assay/pkg/metrics"
)

// Service answers analytics requests over named datasets. Datasets are
// validated once on load; the cached engines are read-only afterwards, so
// concurrent queries need no coordination beyond the cache lock.
type Service struct {
	mu      sync.RWMutex
	engines map[string]*query.Engine

	store      storage.Store
	gen        llm.Generator
	summarizer *insight.Summarizer
	sentiment  *insight.SentimentAnalyzer
	reportOpts []report.Option

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the storage collaborator datasets are fetched from.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGenerator sets the text-generation collaborator.
func WithGenerator(gen llm.Generator) Option {
	return func(s *Service) {
		if gen != nil {
			s.gen = gen
		}
	}
}

// WithReportOptions sets synthesizer options applied to every prompt.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) {
		s.reportOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. A store is required for dataset loading; a
// generator is required only for Summarize and AnalyzeSentiment.
func New(opts ...Option) *Service {
	s := &Service{
		engines: make(map[string]*query.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.gen != nil {
		instrumented := &instrumentedGenerator{gen: s.gen}
		s.summarizer = insight.NewSummarizer(instrumented)
		s.sentiment = insight.NewSentimentAnalyzer(instrumented)
	}
	return s
}

// UploadDataset stores the raw dataset bytes under name, then validates
// and caches it. Returns the number of validated records.
func (s *Service) UploadDataset(ctx context.Context, name string, data []byte) (int, error) {
	if s.store == nil {
		return 0, ErrNoStore
	}
	if _, err := s.store.Put(ctx, name, data); err != nil {
		metrics.RecordStorageError("put")
		return 0, fmt.Errorf("upload dataset %q: %w", name, err)
	}
	return s.LoadDataset(ctx, name)
}

// LoadDataset fetches the named dataset from the store, parses and
// validates it, and caches the resulting engine, replacing any previous
// dataset of the same name. Returns the number of validated records.
func (s *Service) LoadDataset(ctx context.Context, name string) (int, error) {
	if s.store == nil {
		return 0, ErrNoStore
	}
	data, err := s.store.Get(ctx, name)
	if err != nil {
		metrics.RecordStorageError("get")
		return 0, fmt.Errorf("load dataset %q: %w", name, err)
	}
	rows, err := loader.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("load dataset %q: %w", name, err)
	}
	collection, err := schema.Validate(rows)
	if err != nil {
		metrics.RecordSchemaError()
		return 0, fmt.Errorf("load dataset %q: %w", name, err)
	}

	s.mu.Lock()
	s.engines[name] = query.New(collection)
	s.mu.Unlock()

	metrics.RecordDatasetLoaded()
	metrics.RecordRecordsValidated(collection.Len())
	s.logger.Info(ctx, "dataset loaded",
		logger.String("dataset", name),
		logger.Int("records", collection.Len()),
	)
	return collection.Len(), nil
}

// engine returns the cached engine for a dataset, loading it from the
// store on first use.
func (s *Service) engine(ctx context.Context, dataset string) (*query.Engine, error) {
	s.mu.RLock()
	e, ok := s.engines[dataset]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotLoaded, dataset)
	}
	if _, err := s.LoadDataset(ctx, dataset); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e = s.engines[dataset]
	s.mu.RUnlock()
	return e, nil
}

// Entities lists the dataset's distinct entity names in first-occurrence
// order.
func (s *Service) Entities(ctx context.Context, dataset string) ([]string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("entities")
	return e.Entities(), nil
}

// Groups lists the dataset's distinct group names in first-occurrence
// order.
func (s *Service) Groups(ctx context.Context, dataset string) ([]string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("groups")
	return e.Groups(), nil
}

// Records returns the raw record subset for a scope.
func (s *Service) Records(ctx context.Context, dataset string, scope query.Scope) ([]model.Record, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("records")
	return e.Filter(scope)
}

// Progress returns mean rating per assessment number for a scope.
func (s *Service) Progress(ctx context.Context, dataset string, scope query.Scope) ([]query.ProgressPoint, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("progress")
	return e.Progress(scope)
}

// CapabilityScores returns mean rating per capability for a scope.
func (s *Service) CapabilityScores(ctx context.Context, dataset string, scope query.Scope) ([]query.CapabilityScore, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("capability_scores")
	return e.CapabilityScores(scope)
}

// CriteriaDistribution returns criteria-stage counts for a scope.
func (s *Service) CriteriaDistribution(ctx context.Context, dataset string, scope query.Scope) (map[string]int, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("criteria_distribution")
	return e.CriteriaDistribution(scope)
}

// Notes returns the non-empty notes for a scope, in row order.
func (s *Service) Notes(ctx context.Context, dataset string, scope query.Scope) ([]string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("notes")
	return e.Notes(scope)
}

// AssessmentDates returns the distinct assessment dates for a scope.
func (s *Service) AssessmentDates(ctx context.Context, dataset string, scope query.Scope) ([]string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("assessment_dates")
	return e.AssessmentDates(scope)
}

// TemplateNames returns the distinct template names for a scope.
func (s *Service) TemplateNames(ctx context.Context, dataset string, scope query.Scope) ([]string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery("template_names")
	return e.TemplateNames(scope)
}

// ReportPrompt synthesizes the analysis prompt for a scope without
// calling the generation collaborator.
func (s *Service) ReportPrompt(ctx context.Context, dataset string, scope query.Scope) (string, error) {
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return "", err
	}
	prompt, err := report.New(e, s.reportOpts...).Synthesize(scope)
	if err != nil {
		if isEmptyScope(err) {
			metrics.RecordEmptyScopePrompt()
		}
		return "", err
	}
	metrics.RecordPromptSynthesized()
	return prompt, nil
}

// Summarize generates a narrative analysis for a scope via the
// generation collaborator.
func (s *Service) Summarize(ctx context.Context, dataset string, scope query.Scope) (string, error) {
	if s.summarizer == nil {
		return "", ErrNoGenerator
	}
	e, err := s.engine(ctx, dataset)
	if err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "summarizing scope",
		logger.String("dataset", dataset),
		logger.String("kind", scope.Kind.String()),
		logger.String("name", scope.Name),
	)
	out, err := s.summarizer.Summarize(ctx, e, scope, s.reportOpts...)
	if err != nil {
		if isEmptyScope(err) {
			metrics.RecordEmptyScopePrompt()
		}
		return "", err
	}
	metrics.RecordPromptSynthesized()
	return out, nil
}

// AnalyzeSentiment classifies free text via the generation collaborator.
func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	if s.sentiment == nil {
		return "", ErrNoGenerator
	}
	return s.sentiment.Analyze(ctx, text)
}

// instrumentedGenerator decorates a Generator with request, latency, and
// error-category metrics.
type instrumentedGenerator struct {
	gen llm.Generator
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	metrics.RecordGenerationRequest()
	start := time.Now()
	out, err := g.gen.Generate(ctx, prompt)
	metrics.RecordGenerationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordGenerationError(llm.Category(err))
	}
	return out, err
}

func isEmptyScope(err error) bool {
	return errors.Is(err, report.ErrEmptyScope)
}
