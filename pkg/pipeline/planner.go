package pipeline

import (
	"context"

	"github.com/easyops/tokengate/pkg/core/llm"
)

const (
	// plannerRequiredBudget 规划阶段的预算门槛
	plannerRequiredBudget = 800
	// plannerMaxTokens 规划输出的 token 上限
	plannerMaxTokens = 300
	// plannerTemperature 规划温度
	plannerTemperature = 0.3
)

const plannerSystemPrompt = `You are a concise planning assistant.
Given a user query, produce a brief execution plan (2-4 steps) for answering it.
Keep your plan under 150 words. Be direct and actionable.`

// runPlanner 生成回答查询的执行计划
//
// 每次调用都推进 StepCount，包括降级与失败路径，
// 保证重试循环有界。预算不足时硬降级：置状态并跳过外部调用。
func (o *Orchestrator) runPlanner(ctx context.Context, s *ExecutionState) {
	s.StepCount++

	if s.RemainingBudget < plannerRequiredBudget {
		s.Status = StatusInsufficientBudgetForPlanning
		return
	}

	userMessage := "Create a plan to answer: " + s.Query
	req := llm.NewCompletionRequest(plannerSystemPrompt, userMessage, plannerMaxTokens, plannerTemperature)

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		s.RecordFailure(StagePlanner, err)
		o.logger.Warn("planner call failed", "error", err, "step", s.StepCount)
		return
	}

	s.Plan = resp.Content

	cost := resp.TokenUsage.TotalTokens
	if resp.TokenUsage.IsEmpty() {
		cost = o.counter.CountAll(plannerSystemPrompt, userMessage, resp.Content)
	}
	o.consume(ctx, s, StagePlanner, cost)
}
