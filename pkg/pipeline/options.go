package pipeline

import (
	"time"

	"github.com/easyops/tokengate/pkg/otel"
	"github.com/easyops/tokengate/pkg/tokens"
)

const (
	// DefaultTokenBudget 请求未指定时的默认总预算
	DefaultTokenBudget = 10000
	// DefaultMaxSteps 请求未指定时的默认轮数上限
	DefaultMaxSteps = 5
	// DefaultTimeout 单次请求的默认超时
	DefaultTimeout = 2 * time.Minute
)

// Option Orchestrator 配置选项函数
type Option func(*Options)

// Options Orchestrator 配置选项
type Options struct {
	TokenBudget      int
	MaxSteps         int
	BudgetThreshold  int
	QualityThreshold float64
	Timeout          time.Duration
	Counter          tokens.Counter
	Logger           otel.Logger
	Tracer           otel.Tracer
	Metrics          otel.Metrics
}

// DefaultOptions 返回默认选项
func DefaultOptions() *Options {
	return &Options{
		TokenBudget:      DefaultTokenBudget,
		MaxSteps:         DefaultMaxSteps,
		BudgetThreshold:  DefaultBudgetThreshold,
		QualityThreshold: DefaultQualityThreshold,
		Timeout:          DefaultTimeout,
		Logger:           otel.NewNoopLogger(),
		Tracer:           otel.NewNoopTracer(),
		Metrics:          otel.NewNoopMetrics(),
	}
}

// WithTokenBudget 设置默认总预算
func WithTokenBudget(budget int) Option {
	return func(o *Options) {
		o.TokenBudget = budget
	}
}

// WithMaxSteps 设置默认轮数上限
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithBudgetThreshold 设置强制压缩的剩余预算阈值
func WithBudgetThreshold(threshold int) Option {
	return func(o *Options) {
		o.BudgetThreshold = threshold
	}
}

// WithQualityThreshold 设置提前定稿的质量阈值
func WithQualityThreshold(threshold float64) Option {
	return func(o *Options) {
		o.QualityThreshold = threshold
	}
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithCounter 设置 token 计数器
func WithCounter(counter tokens.Counter) Option {
	return func(o *Options) {
		if counter != nil {
			o.Counter = counter
		}
	}
}

// WithLogger 设置日志器
func WithLogger(logger otel.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithTracer 设置追踪器
func WithTracer(tracer otel.Tracer) Option {
	return func(o *Options) {
		if tracer != nil {
			o.Tracer = tracer
		}
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(metrics otel.Metrics) Option {
	return func(o *Options) {
		if metrics != nil {
			o.Metrics = metrics
		}
	}
}
