package pipeline

import (
	"context"

	"github.com/easyops/tokengate/pkg/core/llm"
)

const (
	// summarizerRequiredBudget 压缩阶段的预算门槛
	summarizerRequiredBudget = 400
	// summarizerMaxTokens 摘要输出的 token 上限
	summarizerMaxTokens = 150
	// summarizerTemperature 摘要温度
	summarizerTemperature = 0.3
)

const summarizerSystemPrompt = `You are a summarization assistant.
Given a draft answer, produce a concise summary that captures the key points.
Keep your summary under 100 words.`

// fallbackAnswer 没有任何草稿可用时的兜底回答
const fallbackAnswer = "Unable to generate an answer due to budget constraints."

// runSummarizer 压缩退出：预算耗尽时仍产出最终回答
//
// 有草稿且预算允许时压缩草稿；预算不足时原样提升草稿；
// 连草稿都没有时使用固定兜底回答。无论哪条路径，
// 终态都是 COMPLETED_WITH_SUMMARY。
func (o *Orchestrator) runSummarizer(ctx context.Context, s *ExecutionState) {
	switch {
	case s.DraftAnswer != "" && s.RemainingBudget >= summarizerRequiredBudget:
		userMessage := "Summarize this answer:\n\n" + s.DraftAnswer
		req := llm.NewCompletionRequest(summarizerSystemPrompt, userMessage, summarizerMaxTokens, summarizerTemperature)

		resp, err := o.provider.Generate(ctx, req)
		if err != nil {
			s.RecordFailure(StageSummarizer, err)
			o.logger.Warn("summarizer call failed, promoting draft", "error", err)
			s.FinalAnswer = s.DraftAnswer
			break
		}

		if resp.Content != "" {
			s.FinalAnswer = resp.Content
		} else {
			s.FinalAnswer = s.DraftAnswer
		}

		cost := resp.TokenUsage.TotalTokens
		if resp.TokenUsage.IsEmpty() {
			cost = o.counter.CountAll(summarizerSystemPrompt, userMessage, resp.Content)
		}
		o.consume(ctx, s, StageSummarizer, cost)

	case s.DraftAnswer != "":
		// 预算不足以压缩，原样提升草稿
		s.FinalAnswer = s.DraftAnswer

	default:
		s.FinalAnswer = fallbackAnswer
	}

	s.Status = StatusCompletedWithSummary
}
