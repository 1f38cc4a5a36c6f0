package asr

import (
	"context"
	"sync"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/volcasr"
)

// ================== HTTP 引擎 ==================

type doubaoHTTPEngine struct {
	client *volcasr.Client
}

func (e *doubaoHTTPEngine) Name() string { return "doubao" }

func (e *doubaoHTTPEngine) Modes() []Mode { return []Mode{ModeHTTP} }

func (e *doubaoHTTPEngine) Supports(mode Mode) bool { return mode == ModeHTTP }

func (e *doubaoHTTPEngine) Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error) {
	wav, err := encodeAudio(audio)
	if err != nil {
		return "", err
	}
	window := attemptWindow(ctx)

	result, err := e.client.Flash.Recognize(ctx, &volcasr.FlashRequest{Audio: wav})
	if err != nil {
		return "", classifyDoubaoError(err, window)
	}
	return StripTrailingPunctuation(result.Text), nil
}

func (e *doubaoHTTPEngine) OpenRealtimeSession(ctx context.Context) (RealtimeSession, error) {
	return nil, newUnsupportedError("doubao http 引擎不支持 realtime 模式")
}

func classifyDoubaoError(err error, window time.Duration) error {
	if apiErr, ok := volcasr.AsError(err); ok {
		switch {
		case apiErr.IsAuthError():
			return newAuthError("doubao", apiErr.Message, err)
		case apiErr.IsQuotaExceeded():
			return newQuotaError("doubao", err)
		default:
			return newNetworkError(apiErr.Error(), err)
		}
	}
	return transportError(err, window)
}

// ================== Realtime 引擎 ==================

type doubaoRealtimeEngine struct {
	client *volcasr.Client
}

func (e *doubaoRealtimeEngine) Name() string { return "doubao" }

func (e *doubaoRealtimeEngine) Modes() []Mode { return []Mode{ModeRealtime} }

func (e *doubaoRealtimeEngine) Supports(mode Mode) bool { return mode == ModeRealtime }

func (e *doubaoRealtimeEngine) Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error) {
	return "", newUnsupportedError("doubao realtime 引擎不支持 http 模式")
}

func (e *doubaoRealtimeEngine) OpenRealtimeSession(ctx context.Context) (RealtimeSession, error) {
	session, err := e.client.Stream.Open(ctx, &volcasr.StreamConfig{
		EnableITN:  true,
		EnablePunc: true,
	})
	if err != nil {
		if apiErr, ok := volcasr.AsError(err); ok && apiErr.IsAuthError() {
			return nil, newAuthError("doubao", apiErr.Message, err)
		}
		return nil, newWireError("WebSocket 连接失败: "+err.Error(), err)
	}

	s := &doubaoRealtimeSession{
		session:  session,
		resultCh: make(chan sessionOutcome, 1),
	}
	go s.receiveLoop()
	return s, nil
}

// doubaoRealtimeSession adapts the binary frame protocol: each response
// carries the full best-effort text so far, so results replace the running
// text instead of appending to it.
type doubaoRealtimeSession struct {
	session  *volcasr.StreamSession
	resultCh chan sessionOutcome

	mu      sync.Mutex
	partial func(string)
}

func (s *doubaoRealtimeSession) SendChunk(ctx context.Context, chunk []byte) error {
	if err := s.session.SendAudio(ctx, chunk); err != nil {
		return newWireError("发送音频块失败: "+err.Error(), err)
	}
	return nil
}

func (s *doubaoRealtimeSession) Commit(ctx context.Context) error {
	// 二进制协议没有独立的 commit 信号，语句结束由 Close 的结束帧表达
	return nil
}

func (s *doubaoRealtimeSession) Close(ctx context.Context) (string, error) {
	_ = s.session.Finish(ctx)
	defer s.session.Close()

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

func (s *doubaoRealtimeSession) SetPartialCallback(fn func(text string)) {
	s.mu.Lock()
	s.partial = fn
	s.mu.Unlock()
}

func (s *doubaoRealtimeSession) firePartial(text string) {
	s.mu.Lock()
	fn := s.partial
	s.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

func (s *doubaoRealtimeSession) receiveLoop() {
	var accumulated string

	for result, err := range s.session.Recv() {
		if err != nil {
			if apiErr, ok := volcasr.AsError(err); ok {
				s.resultCh <- sessionOutcome{err: newWireError(apiErr.Message, err)}
				return
			}
			// 连接中断：已有累计文本则按部分结果返回
			if accumulated != "" {
				s.resultCh <- sessionOutcome{text: accumulated}
			} else {
				s.resultCh <- sessionOutcome{err: newWireError(err.Error(), err)}
			}
			return
		}

		if result.Text != "" {
			accumulated = result.Text
			s.firePartial(accumulated)
		}
		if result.IsFinal {
			s.resultCh <- sessionOutcome{text: accumulated}
			return
		}
	}

	// 连接正常结束而未见最终包
	if accumulated != "" {
		s.resultCh <- sessionOutcome{text: accumulated}
	} else {
		s.resultCh <- sessionOutcome{err: newWireError("未收到转录结果", nil)}
	}
}
