package guru

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Kind categorizes guru service errors.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request_error"
	KindAuthentication Kind = "authentication_error"
	KindRateLimit      Kind = "rate_limit_error"
	KindOverloaded     Kind = "overloaded_error"
	KindAPI            Kind = "api_error"
	KindBadContent     Kind = "bad_content_error"
	KindUnavailable    Kind = "unavailable_error"
)

// Error is a classified guru service failure. Message is safe to show to
// the learner.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// IsRetryable returns true if a retry could plausibly succeed.
func (e *Error) IsRetryable() bool {
	switch e.Kind {
	case KindRateLimit, KindOverloaded, KindAPI:
		return true
	default:
		return false
	}
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

// unavailableMessage is shown once the retry budget is exhausted.
const unavailableMessage = "Gurukul connection is weak. Please try again later."

// classify maps a transport failure onto the error taxonomy.
func classify(err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindInvalidRequest, "request cancelled", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return newError(KindAuthentication, "the guru does not recognize this key", err)
		case apiErr.Code == 429:
			return newError(KindRateLimit, "too many requests to the guru", err)
		case apiErr.Code == 503:
			return newError(KindOverloaded, "the guru is overloaded", err)
		case apiErr.Code >= 500:
			return newError(KindAPI, "the guru service failed", err)
		default:
			return newError(KindInvalidRequest, "the guru rejected the request", err)
		}
	}
	// Unknown transport failures are worth one more try.
	return newError(KindAPI, "could not reach the guru", err)
}
