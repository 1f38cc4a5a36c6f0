package asr

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"网络", newNetworkError("连接被重置", nil), "asr: 网络错误: 连接被重置"},
		{"认证", newAuthError("qwen", "无效的 API Key", nil), "asr: 认证失败 (qwen): 无效的 API Key"},
		{"配额", newQuotaError("doubao", nil), "asr: 配额超限 (doubao)"},
		{"音频", newInvalidAudioError("音频数据为空"), "asr: 无效的音频格式: 音频数据为空"},
		{"超时", newTimeoutError(6*time.Second, nil), "asr: 请求超时 (6000ms)"},
		{"超时无窗口", newTimeoutError(0, nil), "asr: 请求超时"},
		{"连接", newWireError("连接中断", nil), "asr: WebSocket 错误: 连接中断"},
		{"不支持", newUnsupportedError("sensevoice 不支持 realtime 模式"), "asr: 不支持的操作: sensevoice 不支持 realtime 模式"},
		{"配置", newConfigError("qwen 缺少 api_key"), "asr: 配置错误: qwen 缺少 api_key"},
		{"内部", newInternalError("响应解析失败", nil), "asr: 内部错误: 响应解析失败"},
		{
			"全部失败",
			newAllEnginesFailedError("超时; 超时; 超时", "配额超限"),
			"asr: 所有 ASR 引擎失败: 主引擎=超时; 超时; 超时, 备用引擎=配额超限",
		},
		{
			"全部失败无兜底",
			newAllEnginesFailedError("超时", ""),
			"asr: 所有 ASR 引擎失败: 主引擎=超时, 备用引擎=未启用",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		retryable bool
		failsFast bool
	}{
		{"网络可重试", newNetworkError("x", nil), true, false},
		{"超时可重试", newTimeoutError(time.Second, nil), true, false},
		{"内部可重试", newInternalError("x", nil), true, false},
		{"认证不重试", newAuthError("qwen", "x", nil), false, false},
		{"配额不重试", newQuotaError("qwen", nil), false, false},
		{"连接不重试", newWireError("x", nil), false, false},
		{"不支持不重试", newUnsupportedError("x"), false, false},
		{"音频快速失败", newInvalidAudioError("x"), false, true},
		{"配置快速失败", newConfigError("x"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Retryable(); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
			if got := tt.err.FailsFast(); got != tt.failsFast {
				t.Errorf("FailsFast() = %v, want %v", got, tt.failsFast)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := newNetworkError("网络故障", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestAsError(t *testing.T) {
	base := newNetworkError("x", nil)
	wrapped := fmt.Errorf("转录失败: %w", base)

	e, ok := AsError(wrapped)
	if !ok {
		t.Fatal("AsError(wrapped) ok = false, want true")
	}
	if e.Kind != KindNetwork {
		t.Errorf("Kind = %v, want KindNetwork", e.Kind)
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("AsError(plain) ok = true, want false")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(newAuthError("qwen", "x", nil)); got != KindAuth {
		t.Errorf("KindOf(auth) = %v, want KindAuth", got)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf(foreign) = %v, want KindInternal", got)
	}
}
