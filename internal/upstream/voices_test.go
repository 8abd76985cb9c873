package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVoice(t *testing.T) {
	var tests = []struct {
		name     string
		language string
		voiceID  string
		want     string
	}{
		{
			name:     "default voice for language",
			language: "es",
			want:     Voices["es"].Default,
		},
		{
			name:     "display name maps to id",
			language: "en",
			voiceID:  "Drew",
			want:     "29vD33N1CtxCmqQRPOHJ",
		},
		{
			name:     "raw id passes through",
			language: "en",
			voiceID:  "zzz-custom-id",
			want:     "zzz-custom-id",
		},
		{
			name:     "unknown language falls back to english default",
			language: "fr",
			want:     Voices["en"].Default,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveVoice(tt.language, tt.voiceID))
		})
	}
}
