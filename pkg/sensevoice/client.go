package sensevoice

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the default SiliconFlow API base URL.
	DefaultBaseURL = "https://api.siliconflow.cn"

	// DefaultModel is the default transcription model.
	DefaultModel = "FunAudioLLM/SenseVoiceSmall"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Client is the SiliconFlow speech API client.
type Client struct {
	// Transcription provides speech-to-text operations.
	Transcription *TranscriptionService

	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option adjusts client construction.
type Option func(*Client)

// NewClient creates a new SiliconFlow speech client.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("sensevoice: API key is required")
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Transcription = &TranscriptionService{client: c}
	return c
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient substitutes the HTTP client, 30s timeout by default.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}
