package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

var _ SpeechClient = &ElevenLabs{}

// ElevenLabs proxies synthesis and transcription to the ElevenLabs API.
// The API key never reaches the client; it lives here.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewElevenLabs builds a speech client with the given API key.
func NewElevenLabs(apiKey string) *ElevenLabs {
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ElevenLabs) modelFor(language string) string {
	if cfg, found := Voices[language]; found {
		return cfg.Model
	}
	return Voices["en"].Model
}

// Synthesize converts text to spoken audio and returns it base64 encoded.
func (c *ElevenLabs) Synthesize(ctx context.Context, req SynthesisRequest) (SynthesisResult, error) {
	payload, err := json.Marshal(map[string]string{
		"text":     req.Text,
		"model_id": c.modelFor(req.Language),
	})
	if err != nil {
		return SynthesisResult{}, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return SynthesisResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("elevenlabs tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SynthesisResult{}, fmt.Errorf("elevenlabs tts: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("elevenlabs tts: reading audio: %w", err)
	}

	return SynthesisResult{
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Format: "mp3",
		// rough speech pace estimate, ~10 chars per second
		DurationMs: len(req.Text) * 100,
	}, nil
}

// Transcribe converts recorded audio to text.
func (c *ElevenLabs) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "audio")
	if err != nil {
		return TranscriptionResult{}, err
	}
	if _, err := part.Write(req.Audio); err != nil {
		return TranscriptionResult{}, err
	}
	if err := form.WriteField("model_id", "scribe_v1"); err != nil {
		return TranscriptionResult{}, err
	}
	if err := form.WriteField("language_code", req.Language); err != nil {
		return TranscriptionResult{}, err
	}
	if err := form.Close(); err != nil {
		return TranscriptionResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech-to-text", &body)
	if err != nil {
		return TranscriptionResult{}, err
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return TranscriptionResult{}, fmt.Errorf("elevenlabs stt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TranscriptionResult{}, fmt.Errorf("elevenlabs stt: unexpected status %d", resp.StatusCode)
	}

	var decoded struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return TranscriptionResult{}, fmt.Errorf("elevenlabs stt: decoding response: %w", err)
	}

	confidence := decoded.Confidence
	if confidence == 0 {
		confidence = 0.9
	}
	return TranscriptionResult{
		Transcript: decoded.Text,
		Confidence: confidence,
		Language:   req.Language,
	}, nil
}
