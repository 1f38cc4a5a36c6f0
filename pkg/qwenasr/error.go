package qwenasr

import (
	"errors"
	"fmt"
)

// DashScope error codes this package reacts to. The service reports many
// more; anything unlisted is classified by HTTP status alone.
const (
	ErrCodeInvalidAPIKey     = "InvalidApiKey"
	ErrCodeAccessDenied      = "AccessDenied"
	ErrCodeRateLimitExceeded = "RateLimitExceeded"
	ErrCodeQuotaExceeded     = "QuotaExceeded"
	ErrCodeThrottling        = "Throttling.RateQuota"
	ErrCodeInvalidParameter  = "InvalidParameter"
	ErrCodeModelNotFound     = "ModelNotFound"
	ErrCodeInternalError     = "InternalError"
	ErrCodeServiceBusy       = "ServiceBusy"
)

// Error 是 DashScope 返回的 API 错误。HTTP 接口的错误体直接反序列化到
// 这里；realtime 会话里 error 事件携带的 code/message 也用同一个类型，
// 此时 HTTPStatus 为 0。
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("qwenasr: %s - %s (request_id=%s, http_status=%d)",
			e.Code, e.Message, e.RequestID, e.HTTPStatus)
	}
	return fmt.Sprintf("qwenasr: %s - %s (http_status=%d)", e.Code, e.Message, e.HTTPStatus)
}

// IsAuth reports whether the error means the credentials were rejected.
func (e *Error) IsAuth() bool {
	switch e.Code {
	case ErrCodeInvalidAPIKey, ErrCodeAccessDenied:
		return true
	}
	return e.HTTPStatus == 401 || e.HTTPStatus == 403
}

// IsRateLimit reports whether the error is throttling or quota exhaustion.
func (e *Error) IsRateLimit() bool {
	switch e.Code {
	case ErrCodeRateLimitExceeded, ErrCodeQuotaExceeded, ErrCodeThrottling:
		return true
	}
	return e.HTTPStatus == 429
}

// IsServerError reports whether the failure is on the service side.
func (e *Error) IsServerError() bool {
	switch e.Code {
	case ErrCodeInternalError, ErrCodeServiceBusy:
		return true
	}
	return e.HTTPStatus >= 500
}

// Retryable reports whether retrying the request can help. Rejected
// credentials are the only terminal case; rate limits clear on their own
// and server errors are routinely transient.
func (e *Error) Retryable() bool {
	return !e.IsAuth()
}

// AsError unwraps err to a *Error when one is in the chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
