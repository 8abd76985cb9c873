package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erickrex/bachatabro/internal/log"
	"github.com/erickrex/bachatabro/internal/validator"
)

const (
	headerMaxRequests = "X-Ratelimit-Max-Requests"
	headerRemaining   = "X-Ratelimit-Remaining"
	headerRetryAfter  = "Retry-After"
	headerRequestID   = "X-Request-Id"
)

// requestID tags every request with a uuid for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// rateLimit consults the admission limiter before the wrapped handler runs.
// The rate limiting headers are set on allow and deny alike so clients can
// see where they stand; a denied request gets a 429 with a wait hint and the
// wrapped handler is never called.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientID(r)
		dec := s.limiter.Check(client)

		w.Header().Set(headerMaxRequests, strconv.Itoa(s.limit))
		w.Header().Set(headerRemaining, strconv.Itoa(dec.Remaining))

		if !dec.Allowed {
			log.Logger().Warn("rate limit exceeded",
				zap.String("client", client),
				zap.Int("retry_after", dec.RetryAfter))
			w.Header().Set(headerRetryAfter, strconv.Itoa(dec.RetryAfter))
			writeJSON(w, http.StatusTooManyRequests, errorEnvelope{
				Error:      "Too many requests",
				Kind:       validator.KindRateLimited,
				RetryAfter: dec.RetryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
