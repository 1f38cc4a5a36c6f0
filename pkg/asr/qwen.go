package asr

import (
	"context"
	"sync"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/qwenasr"
)

// ================== HTTP 引擎 ==================

type qwenHTTPEngine struct {
	client *qwenasr.Client
	model  string
}

func (e *qwenHTTPEngine) Name() string { return "qwen" }

func (e *qwenHTTPEngine) Modes() []Mode { return []Mode{ModeHTTP} }

func (e *qwenHTTPEngine) Supports(mode Mode) bool { return mode == ModeHTTP }

func (e *qwenHTTPEngine) Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error) {
	wav, err := encodeAudio(audio)
	if err != nil {
		return "", err
	}
	window := attemptWindow(ctx)

	result, err := e.client.Transcription.Recognize(ctx, &qwenasr.TranscribeRequest{
		Audio: wav,
		Model: e.model,
	})
	if err != nil {
		return "", classifyQwenError(err, window)
	}
	return StripTrailingPunctuation(result.Text), nil
}

func (e *qwenHTTPEngine) OpenRealtimeSession(ctx context.Context) (RealtimeSession, error) {
	return nil, newUnsupportedError("qwen http 引擎不支持 realtime 模式")
}

func classifyQwenError(err error, window time.Duration) error {
	if apiErr, ok := qwenasr.AsError(err); ok {
		switch {
		case apiErr.IsAuth():
			return newAuthError("qwen", apiErr.Message, err)
		case apiErr.IsRateLimit():
			return newQuotaError("qwen", err)
		default:
			return newNetworkError(apiErr.Error(), err)
		}
	}
	return transportError(err, window)
}

// ================== Realtime 引擎 ==================

type qwenRealtimeEngine struct {
	client *qwenasr.Client
	model  string
}

func (e *qwenRealtimeEngine) Name() string { return "qwen" }

func (e *qwenRealtimeEngine) Modes() []Mode { return []Mode{ModeRealtime} }

func (e *qwenRealtimeEngine) Supports(mode Mode) bool { return mode == ModeRealtime }

func (e *qwenRealtimeEngine) Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error) {
	return "", newUnsupportedError("qwen realtime 引擎不支持 http 模式")
}

func (e *qwenRealtimeEngine) OpenRealtimeSession(ctx context.Context) (RealtimeSession, error) {
	conn, err := e.client.Realtime.Connect(ctx, &qwenasr.RealtimeConfig{Model: e.model})
	if err != nil {
		if apiErr, ok := qwenasr.AsError(err); ok && apiErr.IsAuth() {
			return nil, newAuthError("qwen", apiErr.Message, err)
		}
		return nil, newWireError("WebSocket 连接失败: "+err.Error(), err)
	}

	// 关闭服务端 VAD，由 Commit 显式划分语句
	if err := conn.UpdateSession(&qwenasr.SessionConfig{
		SampleRate: 16000,
		Language:   "zh",
	}); err != nil {
		conn.Close()
		return nil, newWireError("发送 session.update 失败: "+err.Error(), err)
	}

	s := &qwenRealtimeSession{
		conn:     conn,
		resultCh: make(chan sessionOutcome, 1),
	}
	go s.receiveLoop()
	return s, nil
}

// qwenRealtimeSession adapts the JSON event protocol: delta events append to
// the running text, completion events replace it, and the final transcript is
// punctuation-stripped at every position.
type qwenRealtimeSession struct {
	conn     *qwenasr.RealtimeSession
	resultCh chan sessionOutcome

	mu      sync.Mutex
	partial func(string)
}

func (s *qwenRealtimeSession) SendChunk(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return newWireError("发送音频块失败: "+err.Error(), err)
	}
	if err := s.conn.AppendAudio(chunk); err != nil {
		return newWireError("发送音频块失败: "+err.Error(), err)
	}
	return nil
}

func (s *qwenRealtimeSession) Commit(ctx context.Context) error {
	if err := s.conn.CommitInput(); err != nil {
		return newWireError("提交音频失败: "+err.Error(), err)
	}
	return nil
}

func (s *qwenRealtimeSession) Close(ctx context.Context) (string, error) {
	// 再发一次 commit 兜底，然后等待终值
	_ = s.conn.CommitInput()
	defer s.conn.Close()

	timer := time.NewTimer(closeWait)
	defer timer.Stop()

	select {
	case out := <-s.resultCh:
		return out.text, out.err
	case <-timer.C:
		return "", newTimeoutError(closeWait, nil)
	case <-ctx.Done():
		return "", newWireError("会话已取消", ctx.Err())
	}
}

func (s *qwenRealtimeSession) SetPartialCallback(fn func(text string)) {
	s.mu.Lock()
	s.partial = fn
	s.mu.Unlock()
}

func (s *qwenRealtimeSession) firePartial(text string) {
	s.mu.Lock()
	fn := s.partial
	s.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

func (s *qwenRealtimeSession) receiveLoop() {
	var finalText string
	hasResult := false

	for event, err := range s.conn.Events() {
		if err != nil {
			if apiErr, ok := qwenasr.AsError(err); ok {
				s.resultCh <- sessionOutcome{err: newWireError("API 错误: "+apiErr.Message, err)}
				return
			}
			// 连接中断：已有累计文本则按部分结果返回
			if finalText != "" {
				s.resultCh <- sessionOutcome{text: StripPunctuation(finalText)}
			} else {
				s.resultCh <- sessionOutcome{err: newWireError(err.Error(), err)}
			}
			return
		}

		switch event.Type {
		case qwenasr.EventTypeResponseTranscriptDelta:
			finalText += event.Delta
			s.firePartial(finalText)
		case qwenasr.EventTypeTranscriptionCompleted:
			if event.Transcript != "" {
				finalText = event.Transcript
				hasResult = true
			}
		case qwenasr.EventTypeResponseTranscriptDone:
			if event.Transcript != "" {
				finalText = event.Transcript
			}
			hasResult = true
		case qwenasr.EventTypeResponseDone:
			hasResult = true
		}

		if hasResult && finalText != "" {
			s.resultCh <- sessionOutcome{text: StripPunctuation(finalText)}
			return
		}
	}

	// 事件流结束而未产生终值
	if finalText != "" {
		s.resultCh <- sessionOutcome{text: StripPunctuation(finalText)}
	} else {
		s.resultCh <- sessionOutcome{err: newWireError("未收到转录结果", nil)}
	}
}
