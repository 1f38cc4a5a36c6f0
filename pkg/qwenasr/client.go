package qwenasr

import (
	"net/http"
	"time"
)

const (
	// DefaultRealtimeURL is the default WebSocket endpoint for realtime ASR.
	DefaultRealtimeURL = "wss://dashscope.aliyuncs.com/api-ws/v1/realtime"

	// DefaultHTTPBaseURL is the default endpoint for one-shot recognition.
	DefaultHTTPBaseURL = "https://dashscope.aliyuncs.com"

	defaultTimeout = 60 * time.Second
)

// Client is the DashScope ASR API client. One-shot recognition goes through
// Transcription; streaming sessions through Realtime.
type Client struct {
	Transcription *TranscriptionService
	Realtime      *RealtimeService

	apiKey      string
	workspaceID string
	realtimeURL string
	httpBaseURL string
	httpClient  *http.Client
}

// Option adjusts client construction.
type Option func(*Client)

// NewClient creates a new DashScope ASR client. The API key comes from the
// Bailian console (bailian.console.aliyun.com).
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("qwenasr: API key is required")
	}

	c := &Client{
		apiKey:      apiKey,
		realtimeURL: DefaultRealtimeURL,
		httpBaseURL: DefaultHTTPBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Transcription = &TranscriptionService{client: c}
	c.Realtime = &RealtimeService{client: c}
	return c
}

// WithWorkspace routes requests through a DashScope workspace.
func WithWorkspace(workspaceID string) Option {
	return func(c *Client) { c.workspaceID = workspaceID }
}

// WithBaseURL overrides the realtime WebSocket endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.realtimeURL = url }
}

// WithHTTPBaseURL overrides the one-shot recognition endpoint.
func WithHTTPBaseURL(url string) Option {
	return func(c *Client) { c.httpBaseURL = url }
}

// WithHTTPClient substitutes the HTTP client, 60s timeout by default.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}
