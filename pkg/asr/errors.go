package asr

import (
	"errors"
	"fmt"
	"time"
)

// ================== 错误分类 ==================

// Kind classifies a recognition error.
type Kind int

const (
	// KindNetwork 网络错误（连接失败、非业务 HTTP 错误）
	KindNetwork Kind = iota + 1
	// KindAuth 认证失败（密钥无效或无权限）
	KindAuth
	// KindQuota 配额超限
	KindQuota
	// KindInvalidAudio 无效的音频数据
	KindInvalidAudio
	// KindTimeout 请求超时
	KindTimeout
	// KindWire 传输协议错误（WebSocket 断开、错误帧）
	KindWire
	// KindUnsupported 引擎不支持请求的操作
	KindUnsupported
	// KindConfig 配置错误
	KindConfig
	// KindInternal 内部错误（响应解析失败等）
	KindInternal
	// KindAllEnginesFailed 主引擎与兜底引擎均失败
	KindAllEnginesFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindInvalidAudio:
		return "invalid_audio"
	case KindTimeout:
		return "timeout"
	case KindWire:
		return "wire"
	case KindUnsupported:
		return "unsupported"
	case KindConfig:
		return "config"
	case KindInternal:
		return "internal"
	case KindAllEnginesFailed:
		return "all_engines_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified recognition error.
type Error struct {
	// Kind 错误类别
	Kind Kind

	// Engine 产生错误的引擎名（认证、配额错误携带）
	Engine string

	// Message 错误描述
	Message string

	// Timeout 超时阈值（仅 KindTimeout）
	Timeout time.Duration

	// PrimaryError 主引擎错误历史，"; " 连接（仅 KindAllEnginesFailed）
	PrimaryError string

	// FallbackError 兜底引擎错误，空串表示未启用兜底（仅 KindAllEnginesFailed）
	FallbackError string

	// Err 底层错误
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("asr: 网络错误: %s", e.Message)
	case KindAuth:
		return fmt.Sprintf("asr: 认证失败 (%s): %s", e.Engine, e.Message)
	case KindQuota:
		return fmt.Sprintf("asr: 配额超限 (%s)", e.Engine)
	case KindInvalidAudio:
		return fmt.Sprintf("asr: 无效的音频格式: %s", e.Message)
	case KindTimeout:
		if e.Timeout > 0 {
			return fmt.Sprintf("asr: 请求超时 (%dms)", e.Timeout.Milliseconds())
		}
		return "asr: 请求超时"
	case KindWire:
		return fmt.Sprintf("asr: WebSocket 错误: %s", e.Message)
	case KindUnsupported:
		return fmt.Sprintf("asr: 不支持的操作: %s", e.Message)
	case KindConfig:
		return fmt.Sprintf("asr: 配置错误: %s", e.Message)
	case KindInternal:
		return fmt.Sprintf("asr: 内部错误: %s", e.Message)
	case KindAllEnginesFailed:
		fallback := e.FallbackError
		if fallback == "" {
			fallback = "未启用"
		}
		return fmt.Sprintf("asr: 所有 ASR 引擎失败: 主引擎=%s, 备用引擎=%s", e.PrimaryError, fallback)
	default:
		return fmt.Sprintf("asr: %s", e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt on the same engine may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout, KindInternal:
		return true
	default:
		return false
	}
}

// FailsFast reports whether the error disqualifies retry and fallback both:
// the input or configuration is wrong, so no engine can succeed.
func (e *Error) FailsFast() bool {
	return e.Kind == KindInvalidAudio || e.Kind == KindConfig
}

// AsError unwraps err looking for an *Error in the chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the classified kind, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindInternal
}

// ================== 构造函数 ==================

func newNetworkError(msg string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: cause}
}

func newAuthError(engine, msg string, cause error) *Error {
	return &Error{Kind: KindAuth, Engine: engine, Message: msg, Err: cause}
}

func newQuotaError(engine string, cause error) *Error {
	return &Error{Kind: KindQuota, Engine: engine, Err: cause}
}

func newInvalidAudioError(msg string) *Error {
	return &Error{Kind: KindInvalidAudio, Message: msg}
}

func newTimeoutError(timeout time.Duration, cause error) *Error {
	return &Error{Kind: KindTimeout, Timeout: timeout, Err: cause}
}

func newWireError(msg string, cause error) *Error {
	return &Error{Kind: KindWire, Message: msg, Err: cause}
}

func newUnsupportedError(msg string) *Error {
	return &Error{Kind: KindUnsupported, Message: msg}
}

func newConfigError(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

func newInternalError(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

func newAllEnginesFailedError(primaryError, fallbackError string) *Error {
	return &Error{
		Kind:          KindAllEnginesFailed,
		PrimaryError:  primaryError,
		FallbackError: fallbackError,
	}
}
