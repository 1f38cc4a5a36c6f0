package asr

import "time"

// RetryPolicy controls the primary engine's retry schedule inside the
// orchestrators. Engines themselves never retry.
type RetryPolicy struct {
	// MaxRetries 重试次数（不含首次尝试）
	MaxRetries int

	// BaseDelay 首次重试前的等待时间，之后按 2 的幂指数退避
	BaseDelay time.Duration

	// AttemptTimeout 单次尝试的超时时间
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns the standard schedule: 2 retries, 500ms base
// delay, 6s per-attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		BaseDelay:      500 * time.Millisecond,
		AttemptTimeout: 6 * time.Second,
	}
}

// Delay returns the wait before the given retry attempt:
// BaseDelay × 2^(attempt−1) for attempt ≥ 1, zero otherwise.
// No jitter, no cap.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return p.BaseDelay << (attempt - 1)
}
