package asr

import (
	"strings"
	"testing"
)

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EngineConfig
		wantErr string
	}{
		{
			name: "qwen http",
			cfg:  EngineConfig{Provider: ProviderQwen, Mode: ModeHTTP, Credentials: Credentials{APIKey: "sk-test"}},
		},
		{
			name: "qwen realtime",
			cfg:  EngineConfig{Provider: ProviderQwen, Mode: ModeRealtime, Credentials: Credentials{APIKey: "sk-test"}},
		},
		{
			name:    "qwen 缺 api_key",
			cfg:     EngineConfig{Provider: ProviderQwen, Mode: ModeHTTP},
			wantErr: "api_key",
		},
		{
			name: "doubao 完整",
			cfg:  EngineConfig{Provider: ProviderDoubao, Mode: ModeRealtime, Credentials: Credentials{AppID: "app", AccessKey: "ak"}},
		},
		{
			name:    "doubao 缺 app_id",
			cfg:     EngineConfig{Provider: ProviderDoubao, Mode: ModeHTTP, Credentials: Credentials{AccessKey: "ak"}},
			wantErr: "app_id",
		},
		{
			name:    "doubao 缺 access_key",
			cfg:     EngineConfig{Provider: ProviderDoubao, Mode: ModeHTTP, Credentials: Credentials{AppID: "app"}},
			wantErr: "access_key",
		},
		{
			name: "sensevoice http",
			cfg:  EngineConfig{Provider: ProviderSenseVoice, Mode: ModeHTTP, Credentials: Credentials{APIKey: "sk-test"}},
		},
		{
			name:    "sensevoice 不支持 realtime",
			cfg:     EngineConfig{Provider: ProviderSenseVoice, Mode: ModeRealtime, Credentials: Credentials{APIKey: "sk-test"}},
			wantErr: "仅支持 http",
		},
		{
			name:    "未知供应商",
			cfg:     EngineConfig{Provider: "whisper", Mode: ModeHTTP},
			wantErr: "未知供应商",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want containing %q", err, tt.wantErr)
			}
			if KindOf(err) != KindConfig {
				t.Errorf("KindOf = %v, want KindConfig", KindOf(err))
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := EngineConfig{Provider: ProviderQwen, Mode: ModeHTTP, Credentials: Credentials{APIKey: "sk"}}
	broken := EngineConfig{Provider: ProviderDoubao, Mode: ModeHTTP}

	if err := (&Config{Primary: valid}).Validate(); err != nil {
		t.Errorf("仅主引擎: %v", err)
	}
	if err := (&Config{Primary: broken}).Validate(); err == nil {
		t.Error("主引擎缺凭证应当报错")
	}
	if err := (&Config{Primary: valid, Fallback: &broken}).Validate(); err == nil {
		t.Error("备用引擎缺凭证应当报错")
	}
}
