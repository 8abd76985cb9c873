// Package upstream declares the paid provider boundaries the proxy forwards
// to. The proxy core treats these as black boxes: it admits, validates, then
// hands off. Concrete clients carry the provider credentials and payload
// shaping and live outside this module's invariants; tests substitute fakes.
package upstream

import "context"

// SynthesisRequest asks for spoken audio for a piece of coach text.
type SynthesisRequest struct {
	Text     string
	VoiceID  string
	Language string
}

// SynthesisResult carries base64 audio back to the client.
type SynthesisResult struct {
	Audio      string `json:"audio"`
	Format     string `json:"format"`
	DurationMs int    `json:"durationMs"`
}

// TranscriptionRequest asks for a transcript of recorded audio.
type TranscriptionRequest struct {
	Audio    []byte
	Language string
}

// TranscriptionResult carries the transcript back to the client.
type TranscriptionResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

// SpeechClient is the text-to-speech / speech-to-text provider.
type SpeechClient interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (SynthesisResult, error)
	Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionResult, error)
}

// TipRequest asks the coach model for one short improvement tip.
type TipRequest struct {
	Score        float64
	WeakPoints   []string
	StrongPoints []string
	Language     string
}

// TipResult is the generated tip and the body part it targets.
type TipResult struct {
	Tip            string `json:"tip"`
	TargetBodyPart string `json:"targetBodyPart"`
}

// CoverageSummary describes how reliably the pose detector tracked the
// dancer during the session.
type CoverageSummary struct {
	AttemptedJoints  int
	SkippedJoints    int
	SkipFraction     float64
	TopSkippedJoints []string
}

// ReviewRequest asks the coach model for an end-of-song performance review.
// PreviousBest and Coverage are optional; StrongestPart and WeakestPart
// default to generic body parts when empty.
type ReviewRequest struct {
	SongTitle     string
	SongArtist    string
	FinalScore    float64
	PreviousBest  *float64
	StrongestPart string
	WeakestPart   string
	Coverage      *CoverageSummary
	Language      string
}

// ReviewResult is the generated review plus a follow-up tip.
type ReviewResult struct {
	Review         string `json:"review"`
	ImprovementTip string `json:"improvementTip"`
}

// CoachClient is the generative-text coaching provider.
type CoachClient interface {
	CoachingTip(ctx context.Context, req TipRequest) (TipResult, error)
	PerformanceReview(ctx context.Context, req ReviewRequest) (ReviewResult, error)
}
