package pipeline

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/easyops/tokengate/pkg/core/errors"
	"github.com/easyops/tokengate/pkg/core/llm"
	"github.com/easyops/tokengate/pkg/otel"
	"github.com/easyops/tokengate/pkg/rag"
	"github.com/easyops/tokengate/pkg/tokens"
)

// Request 一次问答请求
type Request struct {
	// Query 用户查询
	Query string `json:"query"`
	// TokenBudget 总预算，0 表示使用默认值
	TokenBudget int `json:"token_budget"`
	// MaxSteps 轮数上限，0 表示使用默认值
	MaxSteps int `json:"max_steps"`
}

// Orchestrator 预算门控的执行引擎
//
// 持有各阶段的外部依赖，驱动 Planner → Retriever → Generator → Critic
// 的循环并在 Critic 之后执行路由决策。并发安全：Run 不修改
// Orchestrator 自身状态，每次请求独占一份 ExecutionState。
type Orchestrator struct {
	provider  llm.Provider
	retriever rag.Retriever
	counter   tokens.Counter
	router    Router
	options   *Options

	logger otel.Logger
	ptrace *otel.PipelineTracer
}

// New 创建 Orchestrator 实例
//
// provider 和 retriever 为必需依赖。counter 未指定时按
// provider 的模型选择默认计数器。
func New(provider llm.Provider, retriever rag.Retriever, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.ErrProviderUnavailable
	}
	if retriever == nil {
		return nil, errors.WrapError(errors.ErrInvalidConfig, "retriever is required")
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.TokenBudget <= 0 {
		return nil, errors.ErrInvalidBudget
	}
	if options.MaxSteps <= 0 {
		return nil, errors.ErrInvalidMaxSteps
	}

	counter := options.Counter
	if counter == nil {
		counter = tokens.DefaultCounter(provider.Model())
	}

	return &Orchestrator{
		provider:  provider,
		retriever: retriever,
		counter:   counter,
		router:    NewRouter(options.BudgetThreshold, options.QualityThreshold),
		options:   options,
		logger:    options.Logger,
		ptrace:    otel.NewPipelineTracer(options.Tracer, options.Metrics),
	}, nil
}

// Run 执行一次完整的问答请求
//
// 请求级参数未指定时回落到 Orchestrator 的默认值。预算与轮数
// 上限在入口一次性固定，循环内不再变更。无论走哪条终止路径，
// 返回的状态都带有非空 FinalAnswer 和终止态 Status。
func (o *Orchestrator) Run(ctx context.Context, req Request) (*ExecutionState, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.ErrEmptyQuery
	}
	if req.TokenBudget < 0 {
		return nil, errors.ErrInvalidBudget
	}
	if req.MaxSteps < 0 {
		return nil, errors.ErrInvalidMaxSteps
	}

	budget := req.TokenBudget
	if budget == 0 {
		budget = o.options.TokenBudget
	}
	maxSteps := req.MaxSteps
	if maxSteps == 0 {
		maxSteps = o.options.MaxSteps
	}

	if o.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.options.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	s := NewExecutionState(req.Query, budget, maxSteps)

	ctx, span := o.ptrace.StartRun(ctx, budget, maxSteps)

	o.logger.Info("pipeline run started",
		"budget", budget,
		"max_steps", maxSteps,
	)

	for {
		// 超时或取消时不再进入下一轮，直接走压缩退出，
		// 用已有的草稿产出最终回答
		if err := ctx.Err(); err != nil {
			o.logger.Warn("context done, forcing summarize", "error", err)
			s.RecordFailure("orchestrator", mapContextError(err))
			o.runSummarizer(ctx, s)
			break
		}

		o.runPlanner(ctx, s)
		o.runRetriever(ctx, s)
		o.runGenerator(ctx, s)
		o.runCritic(ctx, s)

		action := o.router.Decide(s)
		o.ptrace.RecordDecision(ctx, action.String(), s.StepCount, s.QualityScore)
		o.logger.Debug("router decision",
			"action", action.String(),
			"step", s.StepCount,
			"remaining", s.RemainingBudget,
			"quality", s.QualityScore,
		)

		if action == ActionEnd {
			s.FinalAnswer = s.DraftAnswer
			s.Status = StatusCompleted
			break
		}
		if action == ActionSummarize {
			o.runSummarizer(ctx, s)
			break
		}
	}

	durationMs := time.Since(startTime).Milliseconds()
	o.ptrace.FinishRun(ctx, span, string(s.Status), s.StepCount, s.RemainingBudget, s.Overdraft, durationMs)

	o.logger.Info("pipeline run finished",
		"status", string(s.Status),
		"steps", s.StepCount,
		"tokens_used", s.TotalTokens(),
		"remaining", s.RemainingBudget,
		"duration_ms", durationMs,
	)

	return s, nil
}

// consume 记账并上报单次阶段消耗
//
// 每次阶段调用产生一个追踪事件，循环重试的各轮消耗
// 在追踪里逐笔可见。
func (o *Orchestrator) consume(ctx context.Context, s *ExecutionState, stage string, cost int) {
	s.Consume(stage, cost)
	o.ptrace.RecordStage(ctx, stage, cost, s.RemainingBudget)
}

// mapContextError 将 context 错误映射到领域错误
func mapContextError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrTimeout
	}
	return errors.ErrContextCanceled
}
