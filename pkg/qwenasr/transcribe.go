package qwenasr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hearsay-ai/hearsay/go/pkg/encoding"
)

// Common models for Qwen ASR.
const (
	// ModelQwenASRFlash is the one-shot HTTP transcription model.
	ModelQwenASRFlash = "qwen3-asr-flash"
	// ModelQwenASRFlashRealtime is the streaming transcription model.
	ModelQwenASRFlashRealtime = "qwen3-asr-flash-realtime"
)

const transcribePath = "/api/v1/services/aigc/multimodal-generation/generation"

// TranscriptionService provides one-shot file transcription via the
// multimodal-generation API.
type TranscriptionService struct {
	client *Client
}

// TranscribeRequest is a one-shot transcription request.
type TranscribeRequest struct {
	// Audio is the complete audio file content (WAV recommended).
	Audio []byte

	// Model 模型名，默认 qwen3-asr-flash
	Model string

	// Language 识别语言，默认 zh
	Language string

	// EnableITN 是否启用反向文本归一化（数字、日期等转写为符号形式）
	EnableITN bool

	// DisfluencyRemoval 是否过滤语气词，nil 表示启用
	DisfluencyRemoval *bool
}

// TranscribeResult is the transcription outcome.
type TranscribeResult struct {
	Text      string
	RequestID string
}

// Recognize transcribes a complete audio file in a single request.
//
// The audio is embedded in the request body as a base64 data URI, so this
// suits short recordings rather than long-form audio.
func (s *TranscriptionService) Recognize(ctx context.Context, req *TranscribeRequest) (*TranscribeResult, error) {
	model := req.Model
	if model == "" {
		model = ModelQwenASRFlash
	}
	language := req.Language
	if language == "" {
		language = "zh"
	}
	disfluencyRemoval := true
	if req.DisfluencyRemoval != nil {
		disfluencyRemoval = *req.DisfluencyRemoval
	}

	audioURI := encoding.Base64Bytes(req.Audio).DataURI("audio/wav")
	body := map[string]any{
		"model": model,
		"input": map[string]any{
			"messages": []any{
				map[string]any{
					"role":    "system",
					"content": []any{map[string]any{"text": ""}},
				},
				map[string]any{
					"role":    "user",
					"content": []any{map[string]any{"audio": audioURI}},
				},
			},
		},
		"parameters": map[string]any{
			"result_format":      "message",
			"enable_itn":         req.EnableITN,
			"disfluency_removal": disfluencyRemoval,
			"language":           language,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("qwenasr: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.client.httpBaseURL+transcribePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("qwenasr: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.client.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if s.client.workspaceID != "" {
		httpReq.Header.Set("X-DashScope-WorkSpace", s.client.workspaceID)
	}

	resp, err := s.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwenasr: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("qwenasr: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = resp.Status
			apiErr.Message = string(respBody)
		}
		return nil, apiErr
	}

	var parsed struct {
		RequestID string `json:"request_id"`
		Output    struct {
			Choices []struct {
				Message struct {
					Content []struct {
						Text *string `json:"text"`
					} `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		} `json:"output"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("qwenasr: parse response: %w", err)
	}

	// Text lives at output.choices[0].message.content[0].text.
	choices := parsed.Output.Choices
	if len(choices) == 0 || len(choices[0].Message.Content) == 0 ||
		choices[0].Message.Content[0].Text == nil {
		return nil, fmt.Errorf("qwenasr: response has no output.choices[0].message.content[0].text: %s", respBody)
	}

	return &TranscribeResult{
		Text:      *choices[0].Message.Content[0].Text,
		RequestID: parsed.RequestID,
	}, nil
}
