package report

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithSortedByAssessmentNumber orders each capability's rows by assessment
// number before the most-recent rating and note sequence are taken. The
// default keeps source row order, where "most recent" is simply the last
// row of the capability group.
func WithSortedByAssessmentNumber(sorted bool) Option {
	return func(s *Synthesizer) {
		s.sortByAssessmentNumber = sorted
	}
}
