package sensevoice

import (
	"errors"
	"fmt"
)

// Error 是 SiliconFlow 的 API 错误。接口没有业务错误码，分类只看 HTTP 状态。
type Error struct {
	HTTPStatus int
	Message    string // 响应体原文
}

func (e *Error) Error() string {
	return fmt.Sprintf("sensevoice: API request failed (http_status=%d): %s", e.HTTPStatus, e.Message)
}

// IsAuthError 鉴权失败
func (e *Error) IsAuthError() bool {
	return e.HTTPStatus == 401 || e.HTTPStatus == 403
}

// IsQuotaExceeded 配额或限流超限
func (e *Error) IsQuotaExceeded() bool {
	return e.HTTPStatus == 429
}

// IsNotFound 模型不存在或服务未开通
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == 404
}

// IsUnavailable 服务暂时不可用
func (e *Error) IsUnavailable() bool {
	return e.HTTPStatus == 503 || e.HTTPStatus == 504
}

// Retryable 报告该错误重试是否可能成功
func (e *Error) Retryable() bool {
	return !e.IsAuthError() && !e.IsQuotaExceeded() && !e.IsNotFound()
}

// AsError 从 error 链中提取 *Error
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
