package upstream

// VoiceConfig describes the synthesis voices available for one language:
// the default voice id, the named voices a client may pick from, and the
// provider model that handles the language.
type VoiceConfig struct {
	Default   string
	Available map[string]string
	Model     string
}

// Voices is the per-language voice catalog. Keys of Available are display
// names; values are provider voice ids.
var Voices = map[string]VoiceConfig{
	"en": {
		Default: "21m00Tcm4TlvDq8ikWAM", // Rachel
		Available: map[string]string{
			"Rachel": "21m00Tcm4TlvDq8ikWAM",
			"Drew":   "29vD33N1CtxCmqQRPOHJ",
			"Clyde":  "2EiwWnXFnvU5JabPnv8n",
			"Paul":   "5Q0t7uMcjvnagumLfvZi",
			"Domi":   "AZnzlk1XvdvUeBnXmlld",
		},
		Model: "eleven_turbo_v2",
	},
	"es": {
		Default: "XrExE9yKIg1WjnnlVkGX", // Laura
		Available: map[string]string{
			"Laura": "XrExE9yKIg1WjnnlVkGX",
		},
		Model: "eleven_multilingual_v2",
	},
	"de": {
		Default: "ErXwobaYiN019PkySvjV", // Antoni
		Available: map[string]string{
			"Antoni": "ErXwobaYiN019PkySvjV",
		},
		Model: "eleven_multilingual_v2",
	},
	"ru": {
		Default: "ErXwobaYiN019PkySvjV", // Antoni
		Available: map[string]string{
			"Antoni": "ErXwobaYiN019PkySvjV",
		},
		Model: "eleven_multilingual_v2",
	},
}

// ResolveVoice picks the voice id to synthesize with. An unknown language
// falls back to English. An empty voiceID selects the language default; a
// known display name maps to its id; anything else is passed through as an
// id the provider may already know.
func ResolveVoice(language, voiceID string) string {
	cfg, found := Voices[language]
	if !found {
		cfg = Voices["en"]
	}
	if voiceID == "" {
		return cfg.Default
	}
	if id, named := cfg.Available[voiceID]; named {
		return id
	}
	return voiceID
}
