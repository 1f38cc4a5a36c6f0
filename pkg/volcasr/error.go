package volcasr

import (
	"errors"
	"fmt"
	"net/http"
)

// API 状态码（X-Api-Status-Code）
const (
	StatusSuccess          = "20000000" // 成功
	StatusInvalidAppKey    = "40100001" // App Key 无效
	StatusInvalidAccessKey = "40100002" // Access Key 无效
	StatusForbidden        = "40300001" // 无权限访问资源
	StatusQuotaExceeded    = "42900001" // 配额超限
)

// Error 是火山引擎大模型语音识别的 API 错误。flash 接口的错误来自
// X-Api-Status-Code / X-Api-Message 响应头；流式协议的错误帧只带数字码，
// 此时 HTTPStatus 为 0。
type Error struct {
	StatusCode string `json:"status_code"`
	Message    string `json:"message"`
	LogID      string `json:"log_id,omitempty"` // X-Tt-Logid，排查问题时带上
	HTTPStatus int    `json:"-"`
	ReqID      string `json:"reqid,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("volcasr: %s (status_code=%s, log_id=%s, http_status=%d)",
		e.Message, e.StatusCode, e.LogID, e.HTTPStatus)
}

// IsAuthError 鉴权失败，换凭证前重试没有意义
func (e *Error) IsAuthError() bool {
	switch e.StatusCode {
	case StatusInvalidAppKey, StatusInvalidAccessKey, StatusForbidden:
		return true
	}
	return e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden
}

// IsQuotaExceeded 配额或限流超限
func (e *Error) IsQuotaExceeded() bool {
	return e.StatusCode == StatusQuotaExceeded || e.HTTPStatus == http.StatusTooManyRequests
}

// IsServerError 服务端内部错误
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= http.StatusInternalServerError
}

// Retryable 报告该错误换个时机重试是否可能成功
func (e *Error) Retryable() bool {
	return !e.IsAuthError() && !e.IsQuotaExceeded()
}

// AsError 从 error 链中提取 *Error
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// newWireError 由流式协议错误帧的数字码构造错误
func newWireError(code uint32) *Error {
	return &Error{
		StatusCode: fmt.Sprintf("%d", code),
		Message:    fmt.Sprintf("server returned error frame (code=%d)", code),
	}
}
