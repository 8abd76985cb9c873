// Package server mounts the proxy's HTTP surface. Every proxied operation
// passes admission control (rate limiter, then request validation) before
// its upstream provider is called.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/erickrex/bachatabro/internal/cache"
	"github.com/erickrex/bachatabro/internal/config"
	"github.com/erickrex/bachatabro/internal/ratelimiter"
	"github.com/erickrex/bachatabro/internal/upstream"
)

const version = "1.0.0"

// Server holds the proxy's process-scoped collaborators. The limiter is
// injected rather than looked up globally so tests can run isolated
// instances side by side.
type Server struct {
	cfg     config.Config
	limit   int
	limiter ratelimiter.Limiter
	speech  upstream.SpeechClient
	coach   upstream.CoachClient
	cache   *cache.ResponseCache
}

// New assembles a server from its collaborators. speech and coach may be nil
// when the corresponding provider is not configured; their routes then
// report the service as unconfigured instead of panicking.
func New(cfg config.Config, limiter ratelimiter.Limiter, speech upstream.SpeechClient, coach upstream.CoachClient, responses *cache.ResponseCache) *Server {
	return &Server{
		cfg:     cfg,
		limit:   cfg.RateLimitRequests,
		limiter: limiter,
		speech:  speech,
		coach:   coach,
		cache:   responses,
	}
}

// Handler mounts all routes. Health and catalog routes skip admission
// control; everything that reaches a paid provider goes through it.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth("bachatabro-backend"))

	r.Route("/elevenlabs", func(r chi.Router) {
		r.Get("/health", s.handleHealth("elevenlabs-proxy"))
		r.Get("/voices", s.handleVoices)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/tts", s.handleTTS)
			r.Post("/stt", s.handleSTT)
		})
	})

	r.Route("/gemini", func(r chi.Router) {
		r.Get("/health", s.handleHealth("gemini-proxy"))

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/coaching-tip", s.handleCoachingTip)
			r.Post("/performance-review", s.handleReview)
		})
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Bacha Trainer Voice Coach API",
		"version": version,
		"endpoints": map[string]string{
			"elevenlabs": "/elevenlabs",
			"gemini":     "/gemini",
		},
	})
}

func (s *Server) handleHealth(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": service,
		})
	}
}
