package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
)

// ================== 引擎模式 ==================

// Mode is the engine invocation mode.
type Mode int

const (
	// ModeHTTP 一次性整段识别（上传完整音频文件）
	ModeHTTP Mode = iota
	// ModeRealtime 实时流式识别（WebSocket 分块推送）
	ModeRealtime
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeHTTP:
		return "http"
	case ModeRealtime:
		return "realtime"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "http":
		return ModeHTTP, nil
	case "realtime":
		return ModeRealtime, nil
	default:
		return 0, fmt.Errorf("asr: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ================== 供应商 ==================

// Provider identifies a speech recognition provider.
type Provider string

const (
	ProviderQwen       Provider = "qwen"
	ProviderDoubao     Provider = "doubao"
	ProviderSenseVoice Provider = "sensevoice"
)

// ParseProvider parses a provider name.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderQwen, ProviderDoubao, ProviderSenseVoice:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("asr: unknown provider %q", s)
	}
}

// ================== 引擎契约 ==================

// Engine is a single speech recognition engine.
//
// Transcribe makes exactly one attempt; retry schedules and fallback belong
// to the orchestrators. Engines that do not support a mode fail the
// corresponding call with an unsupported-operation error.
type Engine interface {
	// Name returns the provider name ("qwen", "doubao", "sensevoice").
	Name() string

	// Modes lists the supported invocation modes.
	Modes() []Mode

	// Supports reports whether the engine supports the given mode.
	Supports(mode Mode) bool

	// Transcribe recognizes a complete audio buffer in one shot.
	Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error)

	// OpenRealtimeSession establishes a streaming recognition session.
	OpenRealtimeSession(ctx context.Context) (RealtimeSession, error)
}

// RealtimeSession is an active streaming recognition session.
//
// After Close no further chunks may be sent. A session produces exactly one
// terminal outcome: the final transcript from Close, or an error.
type RealtimeSession interface {
	// SendChunk pushes little-endian PCM16 bytes to the session.
	SendChunk(ctx context.Context, chunk []byte) error

	// Commit signals that all audio for the utterance has been sent.
	// Not all providers need it; engines without a commit step return nil.
	Commit(ctx context.Context) error

	// Close finalizes the session and returns the transcript. It waits at
	// most 10 seconds for the terminal result.
	Close(ctx context.Context) (string, error)

	// SetPartialCallback registers a callback for intermediate transcripts.
	// The callback is invoked from the session's receive goroutine; it must
	// not block.
	SetPartialCallback(fn func(text string))
}

// ================== 转录结果 ==================

// TranscriptionResult is the outcome of a transcription.
type TranscriptionResult struct {
	// Text 识别文本（供应商返回空文本时为空串）
	Text string

	// Engine 产生该结果的引擎名
	Engine string

	// UsedFallback 是否由兜底引擎产生
	UsedFallback bool

	// Duration 从发起到返回的总耗时
	Duration time.Duration
}

// MarshalJSON emits the wire form with duration in milliseconds.
func (r *TranscriptionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"text":          r.Text,
		"engine":        r.Engine,
		"used_fallback": r.UsedFallback,
		"duration_ms":   r.Duration.Milliseconds(),
	})
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (r *TranscriptionResult) MarshalYAML() (interface{}, error) {
	return map[string]any{
		"text":          r.Text,
		"engine":        r.Engine,
		"used_fallback": r.UsedFallback,
		"duration_ms":   r.Duration.Milliseconds(),
	}, nil
}

// PartialTranscription is an intermediate streaming result.
type PartialTranscription struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}
