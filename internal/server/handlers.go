package server

import (
	"encoding/base64"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/erickrex/bachatabro/internal/cache"
	"github.com/erickrex/bachatabro/internal/log"
	"github.com/erickrex/bachatabro/internal/upstream"
	"github.com/erickrex/bachatabro/internal/validator"
)

// field helpers for the loose bodies the validators already vetted.

func stringField(body map[string]any, key, fallback string) string {
	if s, isStr := body[key].(string); isStr && s != "" {
		return s
	}
	return fallback
}

func numberField(body map[string]any, key string) float64 {
	switch n := body[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func optionalNumberField(body map[string]any, key string) *float64 {
	switch n := body[key].(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

func coverageField(body map[string]any) *upstream.CoverageSummary {
	cov, isObj := body["coverage"].(map[string]any)
	if !isObj {
		return nil
	}
	return &upstream.CoverageSummary{
		AttemptedJoints:  int(numberField(cov, "attemptedJoints")),
		SkippedJoints:    int(numberField(cov, "skippedJoints")),
		SkipFraction:     numberField(cov, "skipFraction"),
		TopSkippedJoints: stringsField(cov, "topSkippedJoints"),
	}
}

func stringsField(body map[string]any, key string) []string {
	switch v := body[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, isStr := item.(string); isStr {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (s *Server) rejectInvalid(w http.ResponseWriter, operation string, out validator.Outcome) {
	log.Logger().Warn("validation failed",
		zap.String("operation", operation),
		zap.String("kind", out.Kind),
		zap.String("message", out.Message))
	writeError(w, out.Kind, out.Message)
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	body, decoded := readBody(w, r)
	if !decoded {
		return
	}
	if out := validator.ValidateTTS(body); !out.Valid {
		s.rejectInvalid(w, "tts", out)
		return
	}
	if s.speech == nil {
		writeError(w, validator.KindServerError, "Service not configured")
		return
	}

	language := stringField(body, "language", "en")
	req := upstream.SynthesisRequest{
		Text:     stringField(body, "text", ""),
		VoiceID:  upstream.ResolveVoice(language, stringField(body, "voiceId", "")),
		Language: language,
	}

	log.Logger().Info("tts request",
		zap.Int("chars", len(req.Text)),
		zap.String("voice", req.VoiceID),
		zap.String("language", language))

	result, err := s.speech.Synthesize(r.Context(), req)
	if err != nil {
		log.Logger().Error("tts upstream failed", zap.Error(err))
		writeError(w, validator.KindServerError, "Text-to-speech conversion failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	body, decoded := readBody(w, r)
	if !decoded {
		return
	}
	if out := validator.ValidateSTT(body); !out.Valid {
		s.rejectInvalid(w, "stt", out)
		return
	}
	if s.speech == nil {
		writeError(w, validator.KindServerError, "Service not configured")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(stringField(body, "audio", ""))
	if err != nil {
		writeError(w, validator.KindBadRequest, "Invalid base64 audio data")
		return
	}

	language := stringField(body, "language", "en")
	log.Logger().Info("stt request",
		zap.Int("bytes", len(audio)),
		zap.String("language", language))

	result, err := s.speech.Transcribe(r.Context(), upstream.TranscriptionRequest{
		Audio:    audio,
		Language: language,
	})
	if err != nil {
		log.Logger().Error("stt upstream failed", zap.Error(err))
		writeError(w, validator.KindServerError, "Speech-to-text conversion failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCoachingTip(w http.ResponseWriter, r *http.Request) {
	body, decoded := readBody(w, r)
	if !decoded {
		return
	}
	if out := validator.ValidateCoachingTip(body); !out.Valid {
		s.rejectInvalid(w, "coaching-tip", out)
		return
	}
	if s.coach == nil {
		writeError(w, validator.KindServerError, "Service not configured")
		return
	}

	key := cache.Key("coaching-tip", body)
	var cached upstream.TipResult
	if s.cache.Get(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	req := upstream.TipRequest{
		Score:        numberField(body, "score"),
		WeakPoints:   stringsField(body, "weakPoints"),
		StrongPoints: stringsField(body, "strongPoints"),
		Language:     stringField(body, "language", "en"),
	}

	log.Logger().Info("coaching tip request",
		zap.Float64("score", req.Score),
		zap.Strings("weak_points", req.WeakPoints),
		zap.String("language", req.Language))

	result, err := s.coach.CoachingTip(r.Context(), req)
	if err != nil {
		log.Logger().Error("coaching tip upstream failed", zap.Error(err))
		writeError(w, validator.KindServerError, "Coaching tip generation failed")
		return
	}
	if err := s.cache.Set(r.Context(), key, result); err != nil {
		log.Logger().Warn("caching coaching tip failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	body, decoded := readBody(w, r)
	if !decoded {
		return
	}
	if out := validator.ValidateReview(body); !out.Valid {
		s.rejectInvalid(w, "performance-review", out)
		return
	}
	if s.coach == nil {
		writeError(w, validator.KindServerError, "Service not configured")
		return
	}

	key := cache.Key("performance-review", body)
	var cached upstream.ReviewResult
	if s.cache.Get(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	req := upstream.ReviewRequest{
		SongTitle:     stringField(body, "songTitle", ""),
		SongArtist:    stringField(body, "songArtist", ""),
		FinalScore:    numberField(body, "finalScore"),
		PreviousBest:  optionalNumberField(body, "previousBest"),
		StrongestPart: stringField(body, "strongestPart", ""),
		WeakestPart:   stringField(body, "weakestPart", ""),
		Coverage:      coverageField(body),
		Language:      stringField(body, "language", "en"),
	}

	log.Logger().Info("performance review request",
		zap.String("song", req.SongTitle),
		zap.Float64("final_score", req.FinalScore),
		zap.String("language", req.Language))

	result, err := s.coach.PerformanceReview(r.Context(), req)
	if err != nil {
		log.Logger().Error("performance review upstream failed", zap.Error(err))
		writeError(w, validator.KindServerError, "Performance review generation failed")
		return
	}
	if err := s.cache.Set(r.Context(), key, result); err != nil {
		log.Logger().Warn("caching performance review failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, result)
}

type voiceInfo struct {
	Default   string   `json:"default"`
	Available []string `json:"available"`
	Model     string   `json:"model"`
}

func describeVoices(cfg upstream.VoiceConfig) voiceInfo {
	names := make([]string, 0, len(cfg.Available))
	for name := range cfg.Available {
		names = append(names, name)
	}
	sort.Strings(names)
	return voiceInfo{Default: cfg.Default, Available: names, Model: cfg.Model}
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if language != "" {
		cfg, found := upstream.Voices[language]
		if !found {
			writeError(w, validator.KindBadRequest, "Unsupported language: "+language)
			return
		}
		writeJSON(w, http.StatusOK, map[string]voiceInfo{language: describeVoices(cfg)})
		return
	}

	all := make(map[string]voiceInfo, len(upstream.Voices))
	for lang, cfg := range upstream.Voices {
		all[lang] = describeVoices(cfg)
	}
	writeJSON(w, http.StatusOK, all)
}
