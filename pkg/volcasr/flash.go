package volcasr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hearsay-ai/hearsay/go/pkg/encoding"
)

// FlashService provides one-shot file recognition (极速版)
type FlashService struct {
	client *Client
}

// newFlashService creates flash recognition service
func newFlashService(c *Client) *FlashService {
	return &FlashService{client: c}
}

// FlashRequest 录音文件极速识别请求
type FlashRequest struct {
	// Audio 完整音频文件内容（WAV）
	Audio []byte

	// ModelName 模型名，默认 bigmodel
	ModelName string
}

// FlashResult 识别结果
type FlashResult struct {
	// Text 识别文本
	Text string

	// RequestID 本次请求的 X-Api-Request-Id
	RequestID string

	// LogID 响应头 X-Tt-Logid
	LogID string
}

// Recognize performs one-shot recognition of a complete audio file.
//
// The whole file is uploaded in a single request; the result is returned
// synchronously. Success is signaled by the X-Api-Status-Code response
// header, not the HTTP status line.
func (s *FlashService) Recognize(ctx context.Context, req *FlashRequest) (*FlashResult, error) {
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.client.modelName
	}

	body := map[string]any{
		"user": map[string]any{
			"uid": s.client.appID,
		},
		"audio": map[string]any{
			"data": encoding.Base64Bytes(req.Audio),
		},
		"request": map[string]any{
			"model_name": modelName,
		},
	}

	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	requestID := uuid.New().String()

	url := s.client.baseURL + "/api/v3/auc/bigmodel/recognize/flash"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	s.client.setAuthHeaders(httpReq, ResourceFlash, requestID)
	httpReq.Header.Set("X-Api-Sequence", "-1")

	resp, err := s.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	logID := resp.Header.Get("X-Tt-Logid")

	statusCode := resp.Header.Get("X-Api-Status-Code")
	if statusCode != StatusSuccess {
		return nil, &Error{
			StatusCode: statusCode,
			Message:    resp.Header.Get("X-Api-Message"),
			LogID:      logID,
			HTTPStatus: resp.StatusCode,
			ReqID:      requestID,
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp struct {
		Result struct {
			Text *string `json:"text"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Result.Text == nil {
		return nil, fmt.Errorf("response has no result.text field: %s", respBody)
	}

	return &FlashResult{
		Text:      *apiResp.Result.Text,
		RequestID: requestID,
		LogID:     logID,
	}, nil
}
