package sensevoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

const transcribePath = "/v1/audio/transcriptions"

// TranscriptionService provides speech-to-text operations.
type TranscriptionService struct {
	client *Client
}

// TranscribeRequest is a transcription request.
type TranscribeRequest struct {
	// Audio is the complete audio file content (WAV recommended).
	Audio []byte

	// Model 模型名，默认 FunAudioLLM/SenseVoiceSmall
	Model string
}

// TranscribeResult is the transcription outcome.
type TranscribeResult struct {
	Text string
}

// Recognize uploads the audio as a multipart form and returns the transcript.
func (s *TranscriptionService) Recognize(ctx context.Context, req *TranscribeRequest) (*TranscribeResult, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("sensevoice: create file part: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("sensevoice: write file part: %w", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("sensevoice: write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sensevoice: close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.client.baseURL+transcribePath, &body)
	if err != nil {
		return nil, fmt.Errorf("sensevoice: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.client.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sensevoice: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sensevoice: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			HTTPStatus: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var parsed struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("sensevoice: parse response: %w", err)
	}
	if parsed.Text == nil {
		return nil, fmt.Errorf("sensevoice: response has no text field: %s", respBody)
	}

	return &TranscribeResult{Text: *parsed.Text}, nil
}
