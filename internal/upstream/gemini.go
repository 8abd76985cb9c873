package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erickrex/bachatabro/internal/log"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const (
	maxTipWords    = 15
	maxReviewWords = 100
)

const coachPersonality = `You are "Coach Rhythm", an enthusiastic AI dance instructor.

PERSONALITY:
- Encouraging and positive
- Uses dance terminology naturally
- Celebrates small wins
- Gives specific, actionable feedback
- Never discouraging or negative

CONSTRAINTS:
- Keep responses concise and energetic
- Focus on ONE improvement at a time
- Use simple, clear language`

var languageNames = map[string]string{
	"es": "Spanish",
	"de": "German",
	"ru": "Russian",
}

var _ CoachClient = &Gemini{}

// Gemini generates coaching text with the Gemini API. Generation errors are
// absorbed: the coach always has something to say, falling back to canned
// copy in the requested language when the model is unreachable.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewGemini builds a coach client with the given API key.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		model:   "gemini-2.0-flash-001",
		baseURL: geminiBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CoachingTip generates one short tip targeting the dancer's weakest point.
func (c *Gemini) CoachingTip(ctx context.Context, req TipRequest) (TipResult, error) {
	target := "overall"
	if len(req.WeakPoints) > 0 {
		target = req.WeakPoints[0]
	}

	prompt := fmt.Sprintf(`%s

Generate a SHORT coaching tip (MAXIMUM %d words).

Current score: %g%%
Weak points: %s
Strong points: %s

Focus on improving: %s
Be encouraging and specific. Give ONE actionable tip.%s

Respond with ONLY the coaching tip, nothing else.`,
		coachPersonality, maxTipWords, req.Score,
		orNone(req.WeakPoints), orNone(req.StrongPoints),
		target, languageInstruction(req.Language))

	tip, err := c.generate(ctx, prompt)
	if err != nil {
		log.Logger().Error("gemini generation failed, using fallback tip", zap.Error(err))
		tip = fallbackTip(req.Language, req.Score)
	}

	return TipResult{
		Tip:            truncateToWordLimit(tip, maxTipWords),
		TargetBodyPart: target,
	}, nil
}

// PerformanceReview generates an end-of-song spoken review plus a follow-up
// tip derived from the dancer's weakest part, or from camera advice when the
// pose detector skipped too many joints.
func (c *Gemini) PerformanceReview(ctx context.Context, req ReviewRequest) (ReviewResult, error) {
	strongest := req.StrongestPart
	if strongest == "" {
		strongest = "overall movement"
	}
	weakest := req.WeakestPart
	if weakest == "" {
		weakest = "timing"
	}

	comparison := ""
	if req.PreviousBest != nil {
		switch best := *req.PreviousBest; {
		case req.FinalScore > best:
			comparison = fmt.Sprintf("This beats your previous best of %g%%!", best)
		case req.FinalScore == best:
			comparison = fmt.Sprintf("You matched your personal best of %g%%!", best)
		default:
			comparison = fmt.Sprintf("Your personal best is %g%%.", best)
		}
	}

	coverageBlock, coverageInstruction, coverageGuidance := describeCoverage(req.Coverage)

	prompt := fmt.Sprintf(`%s

Generate a spoken performance review (MAXIMUM %d words).

Song: %s by %s
Final Score: %g%%
%s
Strongest body part: %s
Weakest body part: %s
%s

Include:
1. Congratulate on the score
2. Mention comparison to previous best if available
3. Highlight the strongest body part
4. Give ONE tip for the weakest body part
5. Pose coverage guidance: %s
6. End with a motivating question or call-to-action%s%s

Respond with ONLY the review, nothing else.`,
		coachPersonality, maxReviewWords,
		req.SongTitle, req.SongArtist, req.FinalScore,
		comparison, strongest, weakest, coverageBlock,
		coverageGuidance, coverageInstruction,
		languageInstruction(req.Language))

	review, err := c.generate(ctx, prompt)
	if err != nil {
		log.Logger().Error("gemini generation failed, using fallback review", zap.Error(err))
		review = fallbackReview(req.Language, req.FinalScore, req.SongTitle)
	}

	return ReviewResult{
		Review:         truncateToWordLimit(review, maxReviewWords),
		ImprovementTip: improvementTip(req.Coverage, weakest),
	}, nil
}

// skipFractionThreshold is where tracking gaps start drowning out technique:
// above it the coach talks camera setup before dance advice.
const skipFractionThreshold = 0.35

func describeCoverage(cov *CoverageSummary) (block, instruction, guidance string) {
	guidance = "Only mention sensor reliability if the context naturally calls for it."
	if cov == nil {
		return "", "", guidance
	}

	frequent := "none"
	if len(cov.TopSkippedJoints) > 0 {
		frequent = strings.Join(firstN(cov.TopSkippedJoints, 3), ", ")
	}
	block = fmt.Sprintf(`Pose Coverage:
- Attempted joints: %d
- Skipped joints: %d (~%.1f%%)
- Frequently skipped joints: %s`,
		cov.AttemptedJoints, cov.SkippedJoints, cov.SkipFraction*100, frequent)

	if cov.SkipFraction > skipFractionThreshold {
		instruction = "\nIf skip fraction exceeds 35%, reassure the dancer and mention adjusting camera angle or lighting before focusing on technique."
		guidance = "Detector struggled; acknowledge it and encourage camera/lighting adjustments before coaching technique."
	} else {
		guidance = "Mention how reliable the detector was and tie it into your advice."
	}
	return block, instruction, guidance
}

func improvementTip(cov *CoverageSummary, weakest string) string {
	if cov != nil && cov.SkipFraction > skipFractionThreshold {
		joints := "key joints"
		if len(cov.TopSkippedJoints) > 0 {
			joints = strings.Join(firstN(cov.TopSkippedJoints, 2), ", ")
		}
		return fmt.Sprintf("Pose tracking missed about %.0f%% of joints (especially %s). Adjust your camera angle or lighting, then focus on refining your %s.",
			cov.SkipFraction*100, joints, weakest)
	}
	return fmt.Sprintf("Focus on your %s movements next time.", weakest)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func (c *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("gemini: decoding response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}

func orNone(points []string) string {
	if len(points) == 0 {
		return "none identified"
	}
	return strings.Join(points, ", ")
}

func languageInstruction(language string) string {
	if language == "" || language == "en" {
		return ""
	}
	name, known := languageNames[language]
	if !known {
		name = "English"
	}
	return "\n\nIMPORTANT: Respond in " + name + "."
}

// truncateToWordLimit cuts text at a word budget, preferring to end on a
// sentence boundary in the second half of the cut.
func truncateToWordLimit(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	truncated := strings.Join(words[:maxWords], " ")
	for _, punct := range []string{".", "!", "?"} {
		if last := strings.LastIndex(truncated, punct); last > len(truncated)/2 {
			return truncated[:last+1]
		}
	}
	return truncated + "..."
}

var fallbackTips = map[string]map[string]string{
	"en": {
		"low":  "Keep those arms up higher!",
		"mid":  "Great energy! Watch your timing.",
		"high": "Perfect! You're on fire!",
	},
	"es": {
		"low":  "¡Mantén los brazos más arriba!",
		"mid":  "¡Gran energía! Cuida el ritmo.",
		"high": "¡Perfecto! ¡Estás en llamas!",
	},
	"de": {
		"low":  "Halte die Arme höher!",
		"mid":  "Tolle Energie! Achte auf das Timing.",
		"high": "Perfekt! Du bist on fire!",
	},
	"ru": {
		"low":  "Держи руки выше!",
		"mid":  "Отличная энергия! Следи за ритмом.",
		"high": "Идеально! Ты в ударе!",
	},
}

func fallbackTip(language string, score float64) string {
	level := "mid"
	if score < 70 {
		level = "low"
	} else if score > 90 {
		level = "high"
	}
	tips, known := fallbackTips[language]
	if !known {
		tips = fallbackTips["en"]
	}
	return tips[level]
}

func fallbackReview(language string, score float64, songTitle string) string {
	switch language {
	case "es":
		return fmt.Sprintf("¡Buen trabajo en %s! Obtuviste %.0f%%. Sigue practicando y seguirás mejorando. ¿Listo para otra ronda?", songTitle, score)
	case "de":
		return fmt.Sprintf("Gut gemacht bei %s! Du hast %.0f%% erreicht. Übe weiter und du wirst dich verbessern. Bereit für eine weitere Runde?", songTitle, score)
	case "ru":
		return fmt.Sprintf("Отличная работа над %s! Ты набрал %.0f%%. Продолжай практиковаться. Готов к ещё одному раунду?", songTitle, score)
	default:
		return fmt.Sprintf("Great job on %s! You scored %.0f%%. Keep practicing and you'll keep improving. Ready for another round?", songTitle, score)
	}
}
