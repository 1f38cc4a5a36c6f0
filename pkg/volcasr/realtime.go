// Streaming ASR (大模型流式语音识别 2.0)
//
// Endpoint: WSS /api/v3/sauc/bigmodel_nostream
// Resource ID: volc.seedasr.sauc.duration
//
// The wire format is the SAUC binary protocol (see protocol.go). The client
// sends one gzip-compressed JSON configuration frame with sequence 1, then
// raw PCM frames with an incrementing sequence, and finally an empty frame
// carrying the negated sequence to mark end of stream. Server responses
// replace the running text rather than appending to it.
//
// Documentation: https://www.volcengine.com/docs/6561/1354869
package volcasr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// StreamService provides streaming recognition over WebSocket
type StreamService struct {
	client *Client
}

// newStreamService creates streaming recognition service
func newStreamService(c *Client) *StreamService {
	return &StreamService{client: c}
}

// StreamConfig describes the audio and model parameters for one stream.
type StreamConfig struct {
	// Format 音频编码，此端点仅支持 pcm
	Format string `json:"format" yaml:"format"`

	// SampleRate 采样率（Hz）
	SampleRate int `json:"sample_rate" yaml:"sample_rate"`

	// Bits 位深，默认 16
	Bits int `json:"bits,omitempty" yaml:"bits,omitempty"`

	// Channels 声道数，默认 1
	Channels int `json:"channels,omitempty" yaml:"channels,omitempty"`

	// ModelName 模型名，默认 bigmodel
	ModelName string `json:"model_name,omitempty" yaml:"model_name,omitempty"`

	// EnableITN 数字、日期等转为书面形式
	EnableITN bool `json:"enable_itn,omitempty" yaml:"enable_itn,omitempty"`

	// EnablePunc 自动加标点
	EnablePunc bool `json:"enable_punc,omitempty" yaml:"enable_punc,omitempty"`
}

// StreamResult represents one streaming recognition response
type StreamResult struct {
	// Text 当前累积的识别文本（整句替换，非增量）
	Text string `json:"text"`

	// IsFinal 是否为最终包
	IsFinal bool `json:"is_final"`

	// Sequence 服务端回显的序号
	Sequence int32 `json:"sequence,omitempty"`
}

// StreamSession represents a streaming recognition WebSocket session
type StreamSession struct {
	conn      *websocket.Conn
	client    *Client
	connectID string

	recvChan  chan *StreamResult
	errChan   chan error
	closeChan chan struct{}
	closeOnce sync.Once
	sequence  int32
}

// Open opens a streaming recognition session.
//
// The configuration frame is sent and acknowledged before Open returns, so
// a non-nil session is ready for SendAudio.
//
// Example:
//
//	session, err := client.Stream.Open(ctx, &StreamConfig{
//	    Format:     "pcm",
//	    SampleRate: 16000,
//	    EnableITN:  true,
//	    EnablePunc: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	session.SendAudio(ctx, chunk)
//	session.Finish(ctx)
//
//	var text string
//	for result, err := range session.Recv() {
//	    if err != nil {
//	        return err
//	    }
//	    text = result.Text // 整句替换，保留最后一包即可
//	}
func (s *StreamService) Open(ctx context.Context, config *StreamConfig) (*StreamSession, error) {
	endpoint := s.client.wsURL + "/api/v3/sauc/bigmodel_nostream"
	connectID := uuid.New().String()

	headers := s.client.getWSHeaders(ResourceStream, connectID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		// 握手被拒时 resp 携带 HTTP 状态和错误详情
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("dial %s: %w (status=%s body=%s)", endpoint, err, resp.Status, body)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	session := &StreamSession{
		conn:      conn,
		client:    s.client,
		connectID: connectID,
		recvChan:  make(chan *StreamResult, 100),
		errChan:   make(chan error, 1),
		closeChan: make(chan struct{}),
		sequence:  1,
	}

	if err := session.sendConfig(config); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send config: %w", err)
	}

	// The server acknowledges the configuration with one response before
	// any recognition results.
	if err := session.readConfigAck(); err != nil {
		conn.Close()
		return nil, err
	}

	go session.receiveLoop()

	return session, nil
}

func (s *StreamSession) sendConfig(config *StreamConfig) error {
	if config == nil {
		config = &StreamConfig{}
	}
	format := config.Format
	if format == "" {
		format = "pcm"
	}
	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	bits := config.Bits
	if bits == 0 {
		bits = 16
	}
	channels := config.Channels
	if channels == 0 {
		channels = 1
	}
	modelName := config.ModelName
	if modelName == "" {
		modelName = s.client.modelName
	}

	payload := map[string]any{
		"user": map[string]any{
			"uid": s.client.appID,
		},
		"audio": map[string]any{
			"format":  format,
			"rate":    sampleRate,
			"bits":    bits,
			"channel": channels,
		},
		"request": map[string]any{
			"model_name":  modelName,
			"enable_itn":  config.EnableITN,
			"enable_punc": config.EnablePunc,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	frame, err := newConfigMessage(jsonData).marshal()
	if err != nil {
		return err
	}

	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *StreamSession) readConfigAck() error {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read config response: %w", err)
	}

	msg, err := unmarshalMessage(data)
	if err != nil {
		// The ack may carry no recognizable payload; that is fine.
		return nil
	}
	if msg.isError() {
		return newWireError(msg.errorCode)
	}
	return nil
}

// SendAudio sends one chunk of raw PCM audio.
func (s *StreamSession) SendAudio(ctx context.Context, pcm []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sequence++
	frame, err := newAudioMessage(pcm, s.sequence).marshal()
	if err != nil {
		return fmt.Errorf("marshal audio frame: %w", err)
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Finish marks the end of the audio stream.
//
// The server replies with the final recognition result, delivered through
// Recv with IsFinal set.
func (s *StreamSession) Finish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sequence++
	frame, err := newFinishMessage(s.sequence).marshal()
	if err != nil {
		return fmt.Errorf("marshal finish frame: %w", err)
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Recv returns an iterator over recognition responses.
//
// The iterator ends after the final result, an error, or Close.
func (s *StreamSession) Recv() iter.Seq2[*StreamResult, error] {
	return func(yield func(*StreamResult, error) bool) {
		for {
			select {
			case result, ok := <-s.recvChan:
				if !ok {
					// receiveLoop 先写 errChan 再关 recvChan，
					// 通道关闭后补读一次，避免漏掉待投递的错误
					select {
					case err := <-s.errChan:
						yield(nil, err)
					default:
					}
					return
				}
				if !yield(result, nil) {
					return
				}
			case err := <-s.errChan:
				yield(nil, err)
				return
			case <-s.closeChan:
				return
			}
		}
	}
}

// Close closes the session and its connection.
func (s *StreamSession) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
		s.conn.Close()
	})
	return nil
}

func (s *StreamSession) receiveLoop() {
	defer close(s.recvChan)

	for {
		select {
		case <-s.closeChan:
			return
		default:
		}

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case s.errChan <- fmt.Errorf("ws read: %w", err):
				default:
				}
			}
			return
		}

		if msgType != websocket.BinaryMessage {
			continue
		}

		msg, err := unmarshalMessage(data)
		if err != nil {
			continue
		}

		if msg.isError() {
			select {
			case s.errChan <- newWireError(msg.errorCode):
			default:
			}
			return
		}

		var resp struct {
			Result struct {
				Text string `json:"text"`
			} `json:"result"`
		}
		if len(msg.payload) > 0 {
			if err := json.Unmarshal(msg.payload, &resp); err != nil {
				continue
			}
		}

		result := &StreamResult{
			Text:     resp.Result.Text,
			IsFinal:  msg.isLast(),
			Sequence: msg.sequence,
		}

		select {
		case s.recvChan <- result:
		case <-s.closeChan:
			return
		}

		if result.IsFinal {
			return
		}
	}
}
