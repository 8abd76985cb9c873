// Package validator checks decoded request bodies against per-operation
// constraint tables before any upstream provider is called. Every entry
// point is a pure function: no shared state, no I/O, one deterministic
// outcome per input.
package validator

const (
	// MaxTextLength bounds synthesis input text.
	MaxTextLength = 5000
	// MaxAudioSizeBytes bounds the estimated decoded size of transcription
	// audio.
	MaxAudioSizeBytes = 10 * 1024 * 1024
)

// SupportedLanguages is the closed set of language codes the coach speaks.
var SupportedLanguages = map[string]bool{
	"en": true,
	"es": true,
	"de": true,
	"ru": true,
}

var supportedLanguageList = []string{"en", "es", "de", "ru"}

var ttsRules = ruleSet{
	{field: "text", presence: requireValue, checks: []checkFn{
		typeString("Field 'text' must be a string"),
		maxLength(MaxTextLength),
		notBlank(),
	}},
	{field: "language", presence: optional, checks: []checkFn{
		supportedLanguage(),
	}},
}

var sttRules = ruleSet{
	{field: "audio", presence: requireValue, checks: []checkFn{
		typeString("Field 'audio' must be a base64 encoded string"),
		maxBase64Size(MaxAudioSizeBytes),
	}},
	{field: "language", presence: optional, checks: []checkFn{
		supportedLanguage(),
	}},
	{field: "coverage", presence: optional, checks: []checkFn{
		coverageShape(),
	}},
}

var coachingTipRules = ruleSet{
	{field: "score", presence: requireValue, checks: []checkFn{
		typeNumber(),
		inRange(0, 100),
	}},
	{field: "weakPoints", presence: optional, checks: []checkFn{
		typeArray(),
	}},
	{field: "strongPoints", presence: optional, checks: []checkFn{
		typeArray(),
	}},
	{field: "language", presence: optional, checks: []checkFn{
		supportedLanguage(),
	}},
}

var reviewRules = ruleSet{
	{field: "songTitle", presence: requireKey},
	{field: "songArtist", presence: requireKey},
	{field: "finalScore", presence: requireKey, checks: []checkFn{
		typeNumber(),
		inRange(0, 100),
	}},
	{field: "language", presence: optional, checks: []checkFn{
		supportedLanguage(),
	}},
}

// ValidateTTS validates a speech-synthesis request body.
func ValidateTTS(body map[string]any) Outcome {
	return ttsRules.apply(body)
}

// ValidateSTT validates a speech-transcription request body.
func ValidateSTT(body map[string]any) Outcome {
	return sttRules.apply(body)
}

// ValidateCoachingTip validates a coaching-tip generation request body.
func ValidateCoachingTip(body map[string]any) Outcome {
	return coachingTipRules.apply(body)
}

// ValidateReview validates a performance-review generation request body.
func ValidateReview(body map[string]any) Outcome {
	return reviewRules.apply(body)
}
