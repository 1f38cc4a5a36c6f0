package asr

import (
	"context"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/sensevoice"
)

// senseVoiceEngine 一次性识别引擎，SiliconFlow 不提供流式接口
type senseVoiceEngine struct {
	client *sensevoice.Client
	model  string
}

func (e *senseVoiceEngine) Name() string { return "sensevoice" }

func (e *senseVoiceEngine) Modes() []Mode { return []Mode{ModeHTTP} }

func (e *senseVoiceEngine) Supports(mode Mode) bool { return mode == ModeHTTP }

func (e *senseVoiceEngine) Transcribe(ctx context.Context, audio *pcm.Buffer) (string, error) {
	wav, err := encodeAudio(audio)
	if err != nil {
		return "", err
	}
	window := attemptWindow(ctx)

	result, err := e.client.Transcription.Recognize(ctx, &sensevoice.TranscribeRequest{
		Audio: wav,
		Model: e.model,
	})
	if err != nil {
		return "", classifySenseVoiceError(err, window)
	}
	return StripTrailingPunctuation(result.Text), nil
}

func (e *senseVoiceEngine) OpenRealtimeSession(ctx context.Context) (RealtimeSession, error) {
	return nil, newUnsupportedError("sensevoice 不支持 realtime 模式，仅支持 http 模式")
}

func classifySenseVoiceError(err error, window time.Duration) error {
	if apiErr, ok := sensevoice.AsError(err); ok {
		switch {
		case apiErr.IsAuthError():
			return newAuthError("sensevoice", apiErr.Message, err)
		case apiErr.IsQuotaExceeded():
			return newQuotaError("sensevoice", err)
		case apiErr.IsNotFound():
			return newConfigError("模型不存在或服务不可用: " + apiErr.Message)
		default:
			return newNetworkError(apiErr.Error(), err)
		}
	}
	return transportError(err, window)
}
