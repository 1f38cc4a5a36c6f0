package asr

import (
	"github.com/hearsay-ai/hearsay/go/pkg/qwenasr"
	"github.com/hearsay-ai/hearsay/go/pkg/sensevoice"
	"github.com/hearsay-ai/hearsay/go/pkg/volcasr"
)

// NewEngine 根据配置构造单个 ASR 引擎。
//
// 配置先经过 Validate 校验，凭证缺失或 provider/mode 组合
// 不受支持时返回配置错误，不会构造出用不了的引擎。
func NewEngine(cfg *EngineConfig) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderQwen:
		client := qwenasr.NewClient(cfg.Credentials.APIKey)
		if cfg.Mode == ModeRealtime {
			return &qwenRealtimeEngine{client: client, model: cfg.Model}, nil
		}
		return &qwenHTTPEngine{client: client, model: cfg.Model}, nil

	case ProviderDoubao:
		var opts []volcasr.Option
		if cfg.Model != "" {
			opts = append(opts, volcasr.WithModelName(cfg.Model))
		}
		client := volcasr.NewClient(cfg.Credentials.AppID, cfg.Credentials.AccessKey, opts...)
		if cfg.Mode == ModeRealtime {
			return &doubaoRealtimeEngine{client: client}, nil
		}
		return &doubaoHTTPEngine{client: client}, nil

	case ProviderSenseVoice:
		client := sensevoice.NewClient(cfg.Credentials.APIKey)
		return &senseVoiceEngine{client: client, model: cfg.Model}, nil
	}

	return nil, newConfigError("未知的 ASR 提供商: " + string(cfg.Provider))
}

// NewEngineWithCredentials 以独立凭证构造引擎，等价于手工组装 EngineConfig。
func NewEngineWithCredentials(provider Provider, creds Credentials, mode Mode) (Engine, error) {
	return NewEngine(&EngineConfig{
		Provider:    provider,
		Mode:        mode,
		Credentials: creds,
	})
}
