package asr

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
)

// closeWait 会话关闭时等待终值的上限
const closeWait = 10 * time.Second

// sessionOutcome is the single terminal value of a realtime session.
type sessionOutcome struct {
	text string
	err  error
}

// encodeAudio validates and encodes the buffer for one-shot upload.
func encodeAudio(audio *pcm.Buffer) ([]byte, error) {
	if audio.Empty() {
		return nil, newInvalidAudioError("音频数据为空")
	}
	return pcm.EncodeWAV(audio), nil
}

// attemptWindow reports the remaining deadline budget, zero when unbounded.
func attemptWindow(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline).Round(time.Millisecond)
}

// transportError classifies failures below the provider API layer: context
// deadlines become timeouts, URL errors become network errors, anything else
// (response parsing and the like) is internal.
func transportError(err error, window time.Duration) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(window, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return newTimeoutError(window, err)
		}
		return newNetworkError(err.Error(), err)
	}
	return newInternalError(err.Error(), err)
}
