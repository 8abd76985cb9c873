package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/erickrex/bachatabro/internal/validator"
)

// maxBodyBytes caps request bodies. Base64 audio inflates 10MiB of payload
// to ~14MiB of JSON, so the cap sits above that.
const maxBodyBytes = 16 << 20

type errorEnvelope struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "encoding response failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, kind, message string) {
	writeJSON(w, validator.StatusFor(kind), errorEnvelope{Error: message, Kind: kind})
}

// readBody decodes a JSON object body into the loose map the validators
// consume. An absent body decodes to nil so the validators report it as
// missing; malformed JSON is a client error here.
func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body map[string]any
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, validator.KindBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return body, true
}
