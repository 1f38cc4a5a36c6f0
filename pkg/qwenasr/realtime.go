package qwenasr

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hearsay-ai/hearsay/go/pkg/encoding"
)

// RealtimeService provides access to the Qwen streaming ASR API.
type RealtimeService struct {
	client *Client
}

// RealtimeConfig selects the model a realtime session runs against.
type RealtimeConfig struct {
	// Model 识别模型，默认 qwen3-asr-flash-realtime
	Model string `json:"model,omitempty"`
}

// SessionConfig carries the recognition parameters pushed via session.update.
type SessionConfig struct {
	// Modalities 输出模态，默认 ["text"]
	Modalities []string `json:"modalities,omitempty"`

	// InputAudioFormat 音频编码，默认 pcm
	InputAudioFormat string `json:"input_audio_format,omitempty"`

	// SampleRate 采样率（Hz），默认 16000
	SampleRate int `json:"sample_rate,omitempty"`

	// Language 识别语言，默认 zh
	Language string `json:"language,omitempty"`

	// TurnDetection 服务端 VAD 设置。
	// nil 时显式发送 null，关闭服务端 VAD（由调用方自行 commit）。
	TurnDetection *TurnDetection `json:"turn_detection"`
}

// TurnDetection tunes how the server decides a speaker has finished.
type TurnDetection struct {
	// Type "server_vad" 或 "disabled"
	Type string `json:"type,omitempty"`

	// PrefixPaddingMs 语音起点前保留的缓冲（毫秒）
	PrefixPaddingMs int `json:"prefix_padding_ms,omitempty"`

	// SilenceDurationMs 判定语音结束所需的静音时长（毫秒）
	SilenceDurationMs int `json:"silence_duration_ms,omitempty"`

	// Threshold 检测灵敏度，0.0-1.0
	Threshold float64 `json:"threshold,omitempty"`
}

// Connect dials the realtime endpoint and starts the background read loop.
// The wire protocol is the OpenAI realtime JSON event format.
func (s *RealtimeService) Connect(ctx context.Context, config *RealtimeConfig) (*RealtimeSession, error) {
	if config == nil {
		config = &RealtimeConfig{}
	}
	if config.Model == "" {
		config.Model = ModelQwenASRFlashRealtime
	}

	// wss://dashscope.aliyuncs.com/api-ws/v1/realtime?model={model}
	wsURL := s.client.realtimeURL + "?model=" + config.Model

	headers := http.Header{
		"Authorization": {"Bearer " + s.client.apiKey},
		"OpenAI-Beta":   {"realtime=v1"},
	}
	if s.client.workspaceID != "" {
		headers.Set("X-DashScope-WorkSpace", s.client.workspaceID)
	}

	dialer := websocket.Dialer{HandshakeTimeout: s.client.httpClient.Timeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		// 握手阶段拿到 HTTP 响应时带上状态码，多半是 401/403
		if resp != nil {
			return nil, &Error{
				Code:       "ConnectionFailed",
				Message:    fmt.Sprintf("dial %s: %v", wsURL, err),
				HTTPStatus: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("qwenasr: dial realtime: %w", err)
	}

	sess := &RealtimeSession{
		client:   s.client,
		config:   config,
		conn:     conn,
		eventsCh: make(chan readItem, 64),
		closeCh:  make(chan struct{}),
	}
	go sess.readLoop()
	return sess, nil
}

// RealtimeSession is one live connection to the streaming recognizer.
// Server events arrive through Events; sends are serialized internally, so a
// session may be shared between a writer goroutine and an event consumer.
type RealtimeSession struct {
	client *Client
	config *RealtimeConfig

	conn   *websocket.Conn
	sendMu sync.Mutex // guards conn writes

	sessionID string

	eventsCh  chan readItem
	closeCh   chan struct{}
	closeOnce sync.Once
}

// readItem carries one decoded server event, or the error that ended the
// read loop, to the Events iterator.
type readItem struct {
	ev  *RealtimeEvent
	err error
}

// newEventID returns a client-side id for outbound events.
func newEventID() string {
	return "event_" + uuid.NewString()[:8]
}

// UpdateSession pushes recognition parameters to the server. Call it once
// right after Connect, before the first audio frame.
func (s *RealtimeSession) UpdateSession(config *SessionConfig) error {
	sessionConfig := map[string]any{}

	modalities := config.Modalities
	if len(modalities) == 0 {
		modalities = []string{"text"}
	}
	sessionConfig["modalities"] = modalities

	format := config.InputAudioFormat
	if format == "" {
		format = "pcm"
	}
	sessionConfig["input_audio_format"] = format

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	sessionConfig["sample_rate"] = sampleRate

	language := config.Language
	if language == "" {
		language = "zh"
	}
	sessionConfig["input_audio_transcription"] = map[string]any{
		"language": language,
	}

	// 显式携带 turn_detection 键：nil 序列化为 null，关闭服务端 VAD。
	sessionConfig["turn_detection"] = config.TurnDetection

	return s.sendEvent(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeSessionUpdate,
		"session":  sessionConfig,
	})
}

// AppendAudio queues one chunk of 16-bit little-endian PCM.
func (s *RealtimeSession) AppendAudio(audio []byte) error {
	return s.sendEvent(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeInputAudioAppend,
		"audio":    encoding.Base64Bytes(audio),
	})
}

// CommitInput commits the audio buffer and requests transcription of
// everything appended so far.
func (s *RealtimeSession) CommitInput() error {
	return s.sendEvent(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeInputAudioCommit,
	})
}

// SendRaw sends an arbitrary JSON event, for anything the typed helpers
// don't cover.
func (s *RealtimeSession) SendRaw(event map[string]any) error {
	return s.sendEvent(event)
}

// Events returns an iterator over session events. Iteration ends when the
// session closes or after the first error is yielded.
func (s *RealtimeSession) Events() iter.Seq2[*RealtimeEvent, error] {
	return func(yield func(*RealtimeEvent, error) bool) {
		for {
			var item readItem
			select {
			case <-s.closeCh:
				return
			case it, ok := <-s.eventsCh:
				if !ok {
					return
				}
				item = it
			}
			if !yield(item.ev, item.err) || item.err != nil {
				return
			}
		}
	}
}

// Close tears down the connection. Safe to call more than once.
func (s *RealtimeSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
	})
	return err
}

// SessionID reports the server-assigned session id, empty until the
// session.created event has arrived.
func (s *RealtimeSession) SessionID() string {
	return s.sessionID
}

// sendEvent marshals and writes one event under the send lock.
func (s *RealtimeSession) sendEvent(event map[string]any) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.conn.WriteJSON(event)
}

// deliver hands one item to the Events iterator, giving up when the session
// is closed underneath it.
func (s *RealtimeSession) deliver(item readItem) bool {
	select {
	case <-s.closeCh:
		return false
	case s.eventsCh <- item:
		return true
	}
}

// readLoop decodes server messages into RealtimeEvent values. The event
// struct's JSON tags mirror the wire format, so one Unmarshal covers every
// event shape; error events are re-decoded for the embedded error body.
func (s *RealtimeSession) readLoop() {
	defer close(s.eventsCh)

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			s.deliver(readItem{err: fmt.Errorf("read error: %w", err)})
			return
		}

		var event RealtimeEvent
		if err := json.Unmarshal(message, &event); err != nil {
			// 跳过无法解析的消息
			continue
		}

		if event.Type == EventTypeError {
			var fail struct {
				Error Error `json:"error"`
			}
			if err := json.Unmarshal(message, &fail); err == nil {
				if !s.deliver(readItem{err: &fail.Error}) {
					return
				}
				continue
			}
		}

		if event.Type == EventTypeSessionCreated && event.Session != nil {
			s.sessionID = event.Session.ID
		}

		if !s.deliver(readItem{ev: &event}) {
			return
		}
	}
}
