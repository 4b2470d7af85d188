package zakeke

import "errors"

// Sentinel errors for classifying API failures. Batch operations match on
// these to decide whether to skip an item or stop the cycle.
var (
	// ErrAuth wraps credential-exchange failures and malformed token
	// responses.
	ErrAuth = errors.New("zakeke authentication failed")

	// ErrMalformedResponse marks a response body that is not valid JSON
	// or decodes to null.
	ErrMalformedResponse = errors.New("malformed response from Zakeke")

	// ErrDailyLimitReached is returned when the daily API call quota has
	// been exhausted.
	ErrDailyLimitReached = errors.New("daily API limit reached")
)

// APIError is an application-level failure reported by Zakeke through the
// top-level "error" field of an otherwise well-formed JSON response.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "zakeke API error: " + e.Message
}
