// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDir is the root directory of the dataset blob store.
	StorageDir string `koanf:"storage_dir"`

	// MaxUploadBytes caps the accepted dataset upload size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// GenerationEndpoint is the chat-completions URL of the text
	// generation collaborator. Summaries and sentiment analysis are
	// unavailable when empty.
	GenerationEndpoint string `koanf:"generation_endpoint"`

	// GenerationAPIKey authenticates against the generation endpoint.
	GenerationAPIKey string `koanf:"generation_api_key"`

	// GenerationModel names the model requested from the collaborator.
	GenerationModel string `koanf:"generation_model"`

	// GenerationTimeoutMS bounds one generation request.
	GenerationTimeoutMS int `koanf:"generation_timeout_ms"`

	// SortByAssessmentNumber orders each capability's rows by assessment
	// number in report prompts instead of keeping source row order.
	SortByAssessmentNumber bool `koanf:"sort_by_assessment_number"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		StorageDir:          "data",
		MaxUploadBytes:      32 << 20,
		GenerationModel:     "llama3",
		GenerationTimeoutMS: 120_000,
	}
}
