package asr

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
)

// Strategy 编排策略：以某种兜底方式完成一次完整转录。
type Strategy interface {
	Transcribe(ctx context.Context, audio *pcm.Buffer) (*TranscriptionResult, error)
}

// NewStrategy 按名称构造编排策略，支持 sequential、parallel、race。
// 空名称等价于 sequential。
func NewStrategy(name string, cfg *Config) (Strategy, error) {
	switch name {
	case "sequential", "":
		return NewSequentialFromConfig(cfg)
	case "parallel":
		return NewParallelFromConfig(cfg)
	case "race":
		return NewRaceFromConfig(cfg)
	}
	return nil, newConfigError("未知的编排策略: " + name)
}

// enginesFromConfig 按配置创建主引擎和可选的备用引擎。
// EnableFallback 为 false 时备用引擎不会被创建。
func enginesFromConfig(cfg *Config) (primary, fallback Engine, err error) {
	primary, err = NewEngine(&cfg.Primary)
	if err != nil {
		return nil, nil, err
	}
	if cfg.EnableFallback && cfg.Fallback != nil {
		fallback, err = NewEngine(cfg.Fallback)
		if err != nil {
			return nil, nil, err
		}
	}
	return primary, fallback, nil
}

// transcribeAttempt 在单次尝试的超时窗口内调用引擎。
func transcribeAttempt(ctx context.Context, engine Engine, audio *pcm.Buffer, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return engine.Transcribe(ctx, audio)
}

// sleepBackoff 等待重试间隔，上下文取消时提前返回。
func sleepBackoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryable 判断同一引擎上的下一次尝试是否还有意义。
// 认证、配额这类错误重试不会改变结果，直接转入兜底。
func retryable(err error) bool {
	if asrErr, ok := AsError(err); ok {
		return asrErr.Retryable()
	}
	return true
}

// failsFast 判断错误是否为结构性错误（音频或配置本身有问题），
// 这类错误换引擎也无济于事，既不重试也不兜底。
func failsFast(err error) bool {
	asrErr, ok := AsError(err)
	return ok && asrErr.FailsFast()
}

// ================== 顺序策略 ==================

// Sequential 顺序兜底策略：主引擎跑完整个重试计划，全部失败后才调用
// 一次备用引擎（不重试）。失败路径最慢，但不产生重复的供应商调用。
type Sequential struct {
	primary  Engine
	fallback Engine
	retry    RetryPolicy
}

// NewSequential 构造顺序兜底策略，fallback 为 nil 时不启用兜底。
func NewSequential(primary, fallback Engine) *Sequential {
	return &Sequential{
		primary:  primary,
		fallback: fallback,
		retry:    DefaultRetryPolicy(),
	}
}

// NewSequentialFromConfig 按配置构造顺序兜底策略。引擎在此时即被创建，
// 凭证问题立刻暴露。
func NewSequentialFromConfig(cfg *Config) (*Sequential, error) {
	primary, fallback, err := enginesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewSequential(primary, fallback), nil
}

// WithRetryPolicy 覆盖默认重试策略。
func (s *Sequential) WithRetryPolicy(p RetryPolicy) *Sequential {
	s.retry = p
	return s
}

// PrimaryName 主引擎名称。
func (s *Sequential) PrimaryName() string { return s.primary.Name() }

// FallbackName 备用引擎名称，未启用时为空串。
func (s *Sequential) FallbackName() string {
	if s.fallback == nil {
		return ""
	}
	return s.fallback.Name()
}

// FallbackEnabled 是否启用兜底。
func (s *Sequential) FallbackEnabled() bool { return s.fallback != nil }

// Transcribe 执行一次完整转录。
func (s *Sequential) Transcribe(ctx context.Context, audio *pcm.Buffer) (*TranscriptionResult, error) {
	start := time.Now()
	var primaryErrors []string

	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, s.retry.Delay(attempt)); err != nil {
				break
			}
		}

		text, err := transcribeAttempt(ctx, s.primary, audio, s.retry.AttemptTimeout)
		if err == nil {
			return &TranscriptionResult{
				Text:     text,
				Engine:   s.primary.Name(),
				Duration: time.Since(start),
			}, nil
		}
		if failsFast(err) {
			return nil, err
		}
		primaryErrors = append(primaryErrors, err.Error())
		if !retryable(err) {
			break
		}
	}

	if s.fallback != nil {
		text, err := transcribeAttempt(ctx, s.fallback, audio, s.retry.AttemptTimeout)
		if err == nil {
			return &TranscriptionResult{
				Text:         text,
				Engine:       s.fallback.Name(),
				UsedFallback: true,
				Duration:     time.Since(start),
			}, nil
		}
		return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), err.Error())
	}

	return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), "")
}

// ================== 后台兜底任务 ==================

// fallbackOutcome 后台备用引擎的执行结果。
type fallbackOutcome struct {
	text string
	err  error
}

// startFallback 在后台启动备用引擎执行一次转录。结果写入返回的 slot，
// done 关闭表示任务结束。取消 ctx 即放弃任务，放弃后不得再读 slot。
func startFallback(ctx context.Context, engine Engine, audio *pcm.Buffer, timeout time.Duration) (*atomic.Pointer[fallbackOutcome], <-chan struct{}) {
	slot := &atomic.Pointer[fallbackOutcome]{}
	done := make(chan struct{})

	go func() {
		defer close(done)
		text, err := transcribeAttempt(ctx, engine, audio, timeout)
		slot.Store(&fallbackOutcome{text: text, err: err})
	}()

	return slot, done
}

// ================== 并行策略 ==================

// Parallel 并行兜底策略：发起主引擎首次尝试前先在后台启动备用引擎，
// 主引擎重试全部失败后直接取用后台结果，省掉一次串行的兜底等待。
// 主引擎成功时后台任务被取消，其结果不会影响返回值。
type Parallel struct {
	primary  Engine
	fallback Engine
	retry    RetryPolicy
}

// NewParallel 构造并行兜底策略，fallback 为 nil 时不启用兜底。
func NewParallel(primary, fallback Engine) *Parallel {
	return &Parallel{
		primary:  primary,
		fallback: fallback,
		retry:    DefaultRetryPolicy(),
	}
}

// NewParallelFromConfig 按配置构造并行兜底策略。
func NewParallelFromConfig(cfg *Config) (*Parallel, error) {
	primary, fallback, err := enginesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewParallel(primary, fallback), nil
}

// WithRetryPolicy 覆盖默认重试策略。
func (p *Parallel) WithRetryPolicy(policy RetryPolicy) *Parallel {
	p.retry = policy
	return p
}

// PrimaryName 主引擎名称。
func (p *Parallel) PrimaryName() string { return p.primary.Name() }

// FallbackName 备用引擎名称，未启用时为空串。
func (p *Parallel) FallbackName() string {
	if p.fallback == nil {
		return ""
	}
	return p.fallback.Name()
}

// FallbackEnabled 是否启用兜底。
func (p *Parallel) FallbackEnabled() bool { return p.fallback != nil }

// Transcribe 执行一次完整转录。
func (p *Parallel) Transcribe(ctx context.Context, audio *pcm.Buffer) (*TranscriptionResult, error) {
	start := time.Now()

	fallbackCtx, cancelFallback := context.WithCancel(ctx)
	defer cancelFallback()

	var (
		slot *atomic.Pointer[fallbackOutcome]
		done <-chan struct{}
	)
	if p.fallback != nil {
		slot, done = startFallback(fallbackCtx, p.fallback, audio, p.retry.AttemptTimeout)
	}

	var primaryErrors []string
	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, p.retry.Delay(attempt)); err != nil {
				break
			}
		}

		text, err := transcribeAttempt(ctx, p.primary, audio, p.retry.AttemptTimeout)
		if err == nil {
			cancelFallback()
			return &TranscriptionResult{
				Text:     text,
				Engine:   p.primary.Name(),
				Duration: time.Since(start),
			}, nil
		}
		if failsFast(err) {
			cancelFallback()
			return nil, err
		}
		primaryErrors = append(primaryErrors, err.Error())
		if !retryable(err) {
			break
		}
	}

	if done != nil {
		<-done
		out := slot.Load()
		if out.err == nil {
			return &TranscriptionResult{
				Text:         out.text,
				Engine:       p.fallback.Name(),
				UsedFallback: true,
				Duration:     time.Since(start),
			}, nil
		}
		return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), out.err.Error())
	}

	return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), "")
}

// ================== 竞速策略 ==================

// Race 竞速兜底策略：与 Parallel 相同的后台启动方式，另加一个抢占点。
// 每次重试等待之前检查后台任务是否已经成功，是则跳过剩余的等待和
// 主引擎尝试，直接返回兜底结果。主引擎先成功时仍然以主引擎为准。
// 用少量重复的供应商调用换更低的尾延迟。
type Race struct {
	primary  Engine
	fallback Engine
	retry    RetryPolicy
}

// NewRace 构造竞速兜底策略，fallback 为 nil 时不启用兜底。
func NewRace(primary, fallback Engine) *Race {
	return &Race{
		primary:  primary,
		fallback: fallback,
		retry:    DefaultRetryPolicy(),
	}
}

// NewRaceFromConfig 按配置构造竞速兜底策略。
func NewRaceFromConfig(cfg *Config) (*Race, error) {
	primary, fallback, err := enginesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewRace(primary, fallback), nil
}

// WithRetryPolicy 覆盖默认重试策略。
func (r *Race) WithRetryPolicy(policy RetryPolicy) *Race {
	r.retry = policy
	return r
}

// PrimaryName 主引擎名称。
func (r *Race) PrimaryName() string { return r.primary.Name() }

// FallbackName 备用引擎名称，未启用时为空串。
func (r *Race) FallbackName() string {
	if r.fallback == nil {
		return ""
	}
	return r.fallback.Name()
}

// FallbackEnabled 是否启用兜底。
func (r *Race) FallbackEnabled() bool { return r.fallback != nil }

// Transcribe 执行一次完整转录。
func (r *Race) Transcribe(ctx context.Context, audio *pcm.Buffer) (*TranscriptionResult, error) {
	start := time.Now()

	fallbackCtx, cancelFallback := context.WithCancel(ctx)
	defer cancelFallback()

	var (
		slot *atomic.Pointer[fallbackOutcome]
		done <-chan struct{}
	)
	if r.fallback != nil {
		slot, done = startFallback(fallbackCtx, r.fallback, audio, r.retry.AttemptTimeout)
	}

	var primaryErrors []string
	for attempt := 0; attempt <= r.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			// 抢占点：兜底已成功就不再等待，也不再尝试主引擎
			if slot != nil {
				if out := slot.Load(); out != nil && out.err == nil {
					return &TranscriptionResult{
						Text:         out.text,
						Engine:       r.fallback.Name(),
						UsedFallback: true,
						Duration:     time.Since(start),
					}, nil
				}
			}
			if err := sleepBackoff(ctx, r.retry.Delay(attempt)); err != nil {
				break
			}
		}

		text, err := transcribeAttempt(ctx, r.primary, audio, r.retry.AttemptTimeout)
		if err == nil {
			cancelFallback()
			return &TranscriptionResult{
				Text:     text,
				Engine:   r.primary.Name(),
				Duration: time.Since(start),
			}, nil
		}
		if failsFast(err) {
			cancelFallback()
			return nil, err
		}
		primaryErrors = append(primaryErrors, err.Error())
		if !retryable(err) {
			break
		}
	}

	if done != nil {
		<-done
		out := slot.Load()
		if out.err == nil {
			return &TranscriptionResult{
				Text:         out.text,
				Engine:       r.fallback.Name(),
				UsedFallback: true,
				Duration:     time.Since(start),
			}, nil
		}
		return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), out.err.Error())
	}

	return nil, newAllEnginesFailedError(strings.Join(primaryErrors, "; "), "")
}
