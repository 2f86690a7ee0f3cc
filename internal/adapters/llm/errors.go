package llm

import "errors"

// Sentinel kinds for generation errors, one per diagnostic category the
// collaborator can surface. All wrap into ErrGeneration so callers can
// treat the whole family with a single errors.Is check.
var (
	ErrGeneration   = errors.New("generation failed")
	ErrBadRequest   = errors.New("generation request rejected")
	ErrUnauthorized = errors.New("generation authentication failed")
	ErrRateLimited  = errors.New("generation rate limit exceeded")
	ErrServer       = errors.New("generation server error")
)

// Category names the diagnostic category of a generation error, for
// metrics labels and API responses.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrUnauthorized):
		return "auth"
	case errors.Is(err, ErrRateLimited):
		return "rate_limit"
	case errors.Is(err, ErrServer):
		return "server_error"
	default:
		return "unknown"
	}
}
