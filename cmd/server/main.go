package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erickrex/bachatabro/internal/cache"
	"github.com/erickrex/bachatabro/internal/config"
	"github.com/erickrex/bachatabro/internal/log"
	"github.com/erickrex/bachatabro/internal/ratelimiter"
	"github.com/erickrex/bachatabro/internal/server"
	"github.com/erickrex/bachatabro/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Logger().Fatal("Failed to load configuration", zap.Error(err))
	}

	limiter := ratelimiter.NewSlidingWindow(
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
	)

	var speech upstream.SpeechClient
	if cfg.ElevenLabsAPIKey != "" {
		speech = upstream.NewElevenLabs(cfg.ElevenLabsAPIKey)
	} else {
		log.Logger().Warn("ELEVENLABS_API_KEY not set, speech routes will report unconfigured")
	}

	var coach upstream.CoachClient
	if cfg.GeminiAPIKey != "" {
		coach = upstream.NewGemini(cfg.GeminiAPIKey)
	} else {
		log.Logger().Warn("GEMINI_API_KEY not set, coaching routes will report unconfigured")
	}

	var responses *cache.ResponseCache
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		responses = cache.New(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		log.Logger().Info("Response cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	app := server.New(cfg, limiter, speech, coach, responses)

	log.Logger().Info("Run a server listening",
		zap.String("addr", cfg.Addr),
		zap.Int("rate_limit", cfg.RateLimitRequests),
		zap.Int("window_seconds", cfg.RateLimitWindowSeconds))

	if err := http.ListenAndServe(cfg.Addr, app.Handler()); err != nil {
		log.Logger().Fatal("Failed to serve handler", zap.Error(err))
	}
}
