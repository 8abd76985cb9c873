package validator

import "net/http"

// Error taxonomy. Each kind maps 1:1 to an HTTP status; the request-handling
// layer does the mapping, the validator only ever produces KindBadRequest.
const (
	KindBadRequest   = "bad_request"
	KindUnauthorized = "unauthorized"
	KindRateLimited  = "rate_limited"
	KindServerError  = "server_error"
)

// StatusFor maps a taxonomy kind to its HTTP status code.
func StatusFor(kind string) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Outcome is the result of validating one request body. Exactly one rule
// failure is ever reported; rules run in a fixed order and the first failure
// wins.
type Outcome struct {
	Valid   bool
	Status  int
	Message string
	Kind    string
}

func ok() Outcome {
	return Outcome{Valid: true}
}

func badRequest(message string) Outcome {
	return Outcome{
		Valid:   false,
		Status:  http.StatusBadRequest,
		Message: message,
		Kind:    KindBadRequest,
	}
}
