package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateToWordLimit(t *testing.T) {
	var tests = []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{
			name:     "under the limit is untouched",
			text:     "Keep those arms up!",
			maxWords: 15,
			want:     "Keep those arms up!",
		},
		{
			name:     "cuts at a late sentence boundary",
			text:     "One two three four. Five six seven eight nine ten",
			maxWords: 6,
			want:     "One two three four.",
		},
		{
			name:     "falls back to an ellipsis",
			text:     "one two three four five six seven eight",
			maxWords: 4,
			want:     "one two three four...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateToWordLimit(tt.text, tt.maxWords))
		})
	}
}

func TestFallbackTip(t *testing.T) {
	assert.Equal(t, "Keep those arms up higher!", fallbackTip("en", 40))
	assert.Equal(t, "Great energy! Watch your timing.", fallbackTip("en", 80))
	assert.Equal(t, "Perfect! You're on fire!", fallbackTip("en", 95))
	assert.Equal(t, "¡Gran energía! Cuida el ritmo.", fallbackTip("es", 80))
	// unknown language falls back to english copy
	assert.Equal(t, "Great energy! Watch your timing.", fallbackTip("fr", 80))
}

func TestLanguageInstruction(t *testing.T) {
	assert.Empty(t, languageInstruction("en"))
	assert.Empty(t, languageInstruction(""))
	assert.Contains(t, languageInstruction("de"), "German")
}

func geminiResponse(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestGemini_CoachingTipUsesModelText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		assert.True(t, strings.Contains(req.Contents[0].Parts[0].Text, "Focus on improving: hips"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiResponse("Snap those hips on the two!")))
	}))
	defer srv.Close()

	coach := NewGemini("test-key")
	coach.baseURL = srv.URL

	result, err := coach.CoachingTip(context.Background(), TipRequest{
		Score:      62,
		WeakPoints: []string{"hips", "timing"},
		Language:   "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Snap those hips on the two!", result.Tip)
	assert.Equal(t, "hips", result.TargetBodyPart)
}

func TestGemini_CoachingTipFallsBackWhenUpstreamFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	coach := NewGemini("test-key")
	coach.baseURL = srv.URL

	result, err := coach.CoachingTip(context.Background(), TipRequest{Score: 95, Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "¡Perfecto! ¡Estás en llamas!", result.Tip)
	assert.Equal(t, "overall", result.TargetBodyPart)
}

func TestGemini_ReviewPromptCarriesSessionContext(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Contents[0].Parts[0].Text

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiResponse("What a run!")))
	}))
	defer srv.Close()

	coach := NewGemini("test-key")
	coach.baseURL = srv.URL

	best := 80.0
	_, err := coach.PerformanceReview(context.Background(), ReviewRequest{
		SongTitle:     "Obsesión",
		SongArtist:    "Aventura",
		FinalScore:    88,
		PreviousBest:  &best,
		StrongestPart: "arms",
		WeakestPart:   "hips",
		Coverage: &CoverageSummary{
			AttemptedJoints:  20,
			SkippedJoints:    2,
			SkipFraction:     0.1,
			TopSkippedJoints: []string{"left_knee"},
		},
		Language: "en",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "This beats your previous best of 80%!")
	assert.Contains(t, prompt, "Strongest body part: arms")
	assert.Contains(t, prompt, "Weakest body part: hips")
	assert.Contains(t, prompt, "Attempted joints: 20")
	assert.Contains(t, prompt, "Frequently skipped joints: left_knee")
	assert.Contains(t, prompt, "Mention how reliable the detector was")
}

func TestGemini_ReviewComparisonPhrasing(t *testing.T) {
	best := 88.0
	var tests = []struct {
		name  string
		score float64
		want  string
	}{
		{name: "beats previous best", score: 90, want: "This beats your previous best of 88%!"},
		{name: "matches previous best", score: 88, want: "You matched your personal best of 88%!"},
		{name: "below previous best", score: 70, want: "Your personal best is 88%."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					Contents []struct {
						Parts []struct {
							Text string `json:"text"`
						} `json:"parts"`
					} `json:"contents"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				prompt = req.Contents[0].Parts[0].Text
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(geminiResponse("ok")))
			}))
			defer srv.Close()

			coach := NewGemini("test-key")
			coach.baseURL = srv.URL

			_, err := coach.PerformanceReview(context.Background(), ReviewRequest{
				SongTitle:    "A",
				SongArtist:   "B",
				FinalScore:   tt.score,
				PreviousBest: &best,
			})
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.want)
		})
	}
}

func TestImprovementTip(t *testing.T) {
	var tests = []struct {
		name     string
		coverage *CoverageSummary
		weakest  string
		want     string
	}{
		{
			name:    "no coverage targets the weakest part",
			weakest: "hips",
			want:    "Focus on your hips movements next time.",
		},
		{
			name:     "reliable tracking targets the weakest part",
			coverage: &CoverageSummary{SkipFraction: 0.2, TopSkippedJoints: []string{"left_knee"}},
			weakest:  "timing",
			want:     "Focus on your timing movements next time.",
		},
		{
			name: "unreliable tracking leads with camera advice",
			coverage: &CoverageSummary{
				SkipFraction:     0.5,
				TopSkippedJoints: []string{"left_knee", "right_knee", "left_elbow"},
			},
			weakest: "hips",
			want:    "Pose tracking missed about 50% of joints (especially left_knee, right_knee). Adjust your camera angle or lighting, then focus on refining your hips.",
		},
		{
			name:     "unreliable tracking without named joints",
			coverage: &CoverageSummary{SkipFraction: 0.4},
			weakest:  "timing",
			want:     "Pose tracking missed about 40% of joints (especially key joints). Adjust your camera angle or lighting, then focus on refining your timing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, improvementTip(tt.coverage, tt.weakest))
		})
	}
}

func TestGemini_ReviewTipReflectsCoverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiResponse("Nice moves!")))
	}))
	defer srv.Close()

	coach := NewGemini("test-key")
	coach.baseURL = srv.URL

	result, err := coach.PerformanceReview(context.Background(), ReviewRequest{
		SongTitle:  "A",
		SongArtist: "B",
		FinalScore: 60,
		Coverage:   &CoverageSummary{SkipFraction: 0.6, TopSkippedJoints: []string{"left_knee"}},
	})
	require.NoError(t, err)
	assert.Contains(t, result.ImprovementTip, "Adjust your camera angle or lighting")
	assert.Contains(t, result.ImprovementTip, "left_knee")

	// defaults apply when the session detail is absent
	result, err = coach.PerformanceReview(context.Background(), ReviewRequest{
		SongTitle:  "A",
		SongArtist: "B",
		FinalScore: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "Focus on your timing movements next time.", result.ImprovementTip)
}

func TestGemini_ReviewFallsBackInRequestedLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	coach := NewGemini("test-key")
	coach.baseURL = srv.URL

	result, err := coach.PerformanceReview(context.Background(), ReviewRequest{
		SongTitle:  "Obsesión",
		SongArtist: "Aventura",
		FinalScore: 88,
		Language:   "de",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Review, "Obsesión")
	assert.Contains(t, result.Review, "88%")
	assert.NotEmpty(t, result.ImprovementTip)
}
