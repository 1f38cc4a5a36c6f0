// Package volcasr provides a Go SDK for Volcengine BigModel speech recognition APIs.
//
// # Authentication
//
// Every request authenticates with three X-Api-* headers built from the
// credentials given to NewClient: X-Api-App-Key (app ID), X-Api-Access-Key
// (access token), and a per-service X-Api-Resource-Id.
//
// # Services
//
//   - client.Flash: one-shot file recognition (/api/v3/auc/bigmodel/recognize/flash)
//   - client.Stream: streaming recognition over WebSocket (/api/v3/sauc/*)
//
// Success for the flash API is carried in the X-Api-Status-Code response
// header, not the HTTP status line; see error.go for the code taxonomy.
package volcasr

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://openspeech.bytedance.com"
	defaultWSURL   = "wss://openspeech.bytedance.com"
	defaultTimeout = 30 * time.Second
)

// Resource IDs
const (
	ResourceFlash  = "volc.bigasr.auc_turbo"      // 录音文件极速识别
	ResourceStream = "volc.seedasr.sauc.duration" // 大模型流式语音识别 2.0 (时长版)
)

// defaultModelName is the recognition model both services use unless overridden.
const defaultModelName = "bigmodel"

// Client is a Volcengine BigModel ASR client.
type Client struct {
	Flash  *FlashService  // 录音文件极速识别 (HTTP)
	Stream *StreamService // 流式识别 (WebSocket)

	appID      string
	accessKey  string
	baseURL    string
	wsURL      string
	httpClient *http.Client
	timeout    time.Duration
	modelName  string
}

// Option adjusts client construction.
type Option func(*Client)

// NewClient creates a Volcengine BigModel ASR client.
//
// appID and accessKey are the application ID and access token from the
// Volcano Engine console.
func NewClient(appID, accessKey string, opts ...Option) *Client {
	c := &Client{
		appID:     appID,
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		wsURL:     defaultWSURL,
		timeout:   defaultTimeout,
		modelName: defaultModelName,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	c.Flash = newFlashService(c)
	c.Stream = newStreamService(c)
	return c
}

// WithBaseURL overrides the HTTP endpoint, openspeech.bytedance.com by default.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithWebSocketURL overrides the streaming endpoint.
func WithWebSocketURL(url string) Option {
	return func(c *Client) { c.wsURL = url }
}

// WithHTTPClient substitutes the HTTP client used for flash recognition.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithTimeout bounds each HTTP request, 30s by default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithModelName overrides the recognition model, "bigmodel" by default.
func WithModelName(name string) Option {
	return func(c *Client) { c.modelName = name }
}

// setAuthHeaders sets the X-Api-* authentication headers on an HTTP request.
func (c *Client) setAuthHeaders(req *http.Request, resourceID, requestID string) {
	req.Header.Set("X-Api-App-Key", c.appID)
	req.Header.Set("X-Api-Access-Key", c.accessKey)
	req.Header.Set("X-Api-Resource-Id", resourceID)
	req.Header.Set("X-Api-Request-Id", requestID)
}

// getWSHeaders returns the handshake headers for WebSocket endpoints.
func (c *Client) getWSHeaders(resourceID, connectID string) http.Header {
	headers := http.Header{}
	headers.Set("X-Api-App-Key", c.appID)
	headers.Set("X-Api-Access-Key", c.accessKey)
	headers.Set("X-Api-Resource-Id", resourceID)
	if connectID != "" {
		headers.Set("X-Api-Connect-Id", connectID)
	}
	return headers
}
