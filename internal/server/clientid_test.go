package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientID(t *testing.T) {
	var tests = []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "first forwarded entry wins",
			remoteAddr: "10.1.1.1:4242",
			forwarded:  "203.0.113.7, 10.0.0.1",
			want:       "203.0.113.7",
		},
		{
			name:       "peer address without forwarding",
			remoteAddr: "10.1.1.1:4242",
			want:       "10.1.1.1",
		},
		{
			name:       "unparseable peer address passes through",
			remoteAddr: "not-an-addr",
			want:       "not-an-addr",
		},
		{
			name: "no information at all",
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/elevenlabs/tts", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientID(r))
		})
	}
}
