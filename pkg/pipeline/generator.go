package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/easyops/tokengate/pkg/core/llm"
)

const (
	// generatorRequiredBudget 生成阶段的预算门槛
	generatorRequiredBudget = 2500
	// generatorMaxTokens 回答输出的 token 上限
	generatorMaxTokens = 1000
	// generatorTemperature 生成温度
	generatorTemperature = 0.5
)

const generatorSystemPrompt = `You are a helpful assistant that answers questions based on the provided context.
Use the context to give accurate, well-structured answers.
If the context doesn't contain relevant information, say so clearly.
Be concise but thorough.`

// runGenerator 基于检索上下文生成草稿回答
//
// 预算不足时硬降级：置状态并跳过外部调用。
func (o *Orchestrator) runGenerator(ctx context.Context, s *ExecutionState) {
	if s.RemainingBudget < generatorRequiredBudget {
		s.Status = StatusInsufficientBudgetForGeneration
		return
	}

	userMessage := buildGeneratorMessage(s)
	req := llm.NewCompletionRequest(generatorSystemPrompt, userMessage, generatorMaxTokens, generatorTemperature)

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		s.RecordFailure(StageGenerator, err)
		o.logger.Warn("generator call failed", "error", err, "step", s.StepCount)
		return
	}

	s.DraftAnswer = resp.Content

	cost := resp.TokenUsage.TotalTokens
	if resp.TokenUsage.IsEmpty() {
		cost = o.counter.CountAll(generatorSystemPrompt, userMessage, resp.Content)
	}
	o.consume(ctx, s, StageGenerator, cost)
}

// buildGeneratorMessage 组装生成阶段的用户消息
func buildGeneratorMessage(s *ExecutionState) string {
	var contextSection string
	if len(s.RetrievedChunks) > 0 {
		contextSection = "## Retrieved Context\n\n" + strings.Join(s.RetrievedChunks, "\n\n---\n\n")
	} else {
		contextSection = "No context was retrieved. Answer based on general knowledge."
	}

	return fmt.Sprintf(`## Plan
%s

%s

## Question
%s

Please provide a comprehensive answer based on the above context and plan.`, s.Plan, contextSection, s.Query)
}
