package asr

// Credentials holds provider authentication material. Which fields are
// required depends on the provider: qwen and sensevoice use APIKey, doubao
// uses AppID plus AccessKey.
type Credentials struct {
	// APIKey DashScope / SiliconFlow 密钥
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// AppID 火山引擎应用 ID
	AppID string `json:"app_id,omitempty" yaml:"app_id,omitempty"`

	// AccessKey 火山引擎访问令牌
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
}

// EngineConfig selects and parameterizes one engine.
type EngineConfig struct {
	// Provider 供应商名
	Provider Provider `json:"provider" yaml:"provider"`

	// Mode 调用模式
	Mode Mode `json:"mode" yaml:"mode"`

	// Credentials 鉴权信息
	Credentials Credentials `json:"credentials" yaml:"credentials"`

	// Model 覆盖默认模型名（可选）
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Validate checks provider, mode and credentials, failing closed: a missing
// credential field or an unsupported (provider, mode) pair is a config error.
func (c EngineConfig) Validate() error {
	switch c.Provider {
	case ProviderQwen:
		if c.Credentials.APIKey == "" {
			return newConfigError("qwen 缺少 api_key")
		}
	case ProviderDoubao:
		if c.Credentials.AppID == "" {
			return newConfigError("doubao 缺少 app_id")
		}
		if c.Credentials.AccessKey == "" {
			return newConfigError("doubao 缺少 access_key")
		}
	case ProviderSenseVoice:
		if c.Credentials.APIKey == "" {
			return newConfigError("sensevoice 缺少 api_key")
		}
		if c.Mode == ModeRealtime {
			return newConfigError("sensevoice 仅支持 http 模式")
		}
	default:
		return newConfigError("未知供应商: " + string(c.Provider))
	}

	switch c.Mode {
	case ModeHTTP, ModeRealtime:
	default:
		return newConfigError("未知模式: " + c.Mode.String())
	}

	return nil
}

// Config 编排层配置：主引擎加可选的备用引擎。
type Config struct {
	// Primary 主引擎
	Primary EngineConfig `json:"primary" yaml:"primary"`

	// Fallback 备用引擎，可缺省
	Fallback *EngineConfig `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	// EnableFallback 为 false 时即使配置了 Fallback 也不启用兜底
	EnableFallback bool `json:"enable_fallback" yaml:"enable_fallback"`
}

// Validate 校验主引擎和备用引擎的配置。
func (c *Config) Validate() error {
	if err := c.Primary.Validate(); err != nil {
		return err
	}
	if c.Fallback != nil {
		return c.Fallback.Validate()
	}
	return nil
}
