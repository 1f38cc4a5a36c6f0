package asr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
)

// maxConsecutiveSendFailures 连续发送失败达到该次数即熔断整个任务，
// 避免继续往已死的连接里写音频。
const maxConsecutiveSendFailures = 5

// RealtimeTaskResult 实时任务的最终结局。失败时附带引擎名和流量计数，
// 便于定位是在发送了多少数据之后断掉的。
type RealtimeTaskResult struct {
	// Result 成功时的转录结果
	Result *TranscriptionResult

	// Err 失败原因
	Err error

	// Engine 实际使用的引擎名
	Engine string

	// ChunksSent 已接收并尝试发送的音频块数
	ChunksSent uint64

	// SamplesSent 已接收的样本总数
	SamplesSent uint64
}

// Success 任务是否成功产出转录结果。
func (r *RealtimeTaskResult) Success() bool { return r.Err == nil }

// RealtimeTask 把外部有序的 PCM16 音频块流桥接到一个流式识别会话。
//
// 任务在三种情况下收尾：音频通道关闭、停止函数被调用、或连续发送失败
// 触发熔断。前两种走正常关闭流程，等待会话产出最终文本；熔断则立即
// 拆除会话。取消 ctx 视为放弃任务，不再等待最终结果。
type RealtimeTask struct {
	engine  Engine
	chunks  <-chan []int16
	partial func(string)

	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
	result   *RealtimeTaskResult
}

// StartRealtime 启动后台实时转录任务。chunks 里的每个音频块被转成
// 小端字节序 PCM 后送入会话；onPartial 非 nil 时每个中间识别结果都会
// 回调（由会话的接收协程调用）。返回任务句柄和幂等的停止函数。
func StartRealtime(ctx context.Context, engine Engine, chunks <-chan []int16, onPartial func(text string)) (*RealtimeTask, func()) {
	t := &RealtimeTask{
		engine:  engine,
		chunks:  chunks,
		partial: onPartial,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go t.run(ctx)
	return t, t.Stop
}

// Stop 发出停止信号。任务在当前块发送完毕后关闭会话并产出最终结果，
// 不会在发送中途打断。
func (t *RealtimeTask) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Wait 阻塞到任务结束，返回带流量计数的详细结局。
func (t *RealtimeTask) Wait() *RealtimeTaskResult {
	<-t.doneCh
	return t.result
}

func (t *RealtimeTask) run(ctx context.Context) {
	defer close(t.doneCh)
	start := time.Now()

	var (
		chunksSent  uint64
		samplesSent uint64
	)
	fail := func(err error) {
		t.result = &RealtimeTaskResult{
			Err:         err,
			Engine:      t.engine.Name(),
			ChunksSent:  chunksSent,
			SamplesSent: samplesSent,
		}
	}

	session, err := t.engine.OpenRealtimeSession(ctx)
	if err != nil {
		fail(err)
		return
	}

	if t.partial != nil {
		session.SetPartialCallback(t.partial)
	}

	consecutiveFailures := 0

loop:
	for {
		select {
		case <-t.stopCh:
			break loop
		case <-ctx.Done():
			break loop
		case chunk, ok := <-t.chunks:
			if !ok {
				break loop
			}
			chunksSent++
			samplesSent += uint64(len(chunk))

			if err := session.SendChunk(ctx, pcm.Int16ToBytes(chunk)); err != nil {
				consecutiveFailures++
				if consecutiveFailures >= maxConsecutiveSendFailures {
					// 连接已不可用，立即拆除会话，不等最终结果
					abortCtx, cancel := context.WithCancel(ctx)
					cancel()
					_, _ = session.Close(abortCtx)
					fail(newWireError(
						fmt.Sprintf("连续 %d 次发送失败: %s", consecutiveFailures, err), err))
					return
				}
			} else {
				consecutiveFailures = 0
			}
		}
	}

	text, err := session.Close(ctx)
	if err != nil {
		fail(err)
		return
	}

	t.result = &RealtimeTaskResult{
		Result: &TranscriptionResult{
			Text:     text,
			Engine:   t.engine.Name(),
			Duration: time.Since(start),
		},
		Engine:      t.engine.Name(),
		ChunksSent:  chunksSent,
		SamplesSent: samplesSent,
	}
}
