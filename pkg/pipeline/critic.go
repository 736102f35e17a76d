package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/easyops/tokengate/pkg/core/llm"
)

const (
	// criticRequiredBudget 评审阶段的预算门槛
	criticRequiredBudget = 800
	// criticMaxTokens 评审输出的 token 上限
	criticMaxTokens = 150
	// criticTemperature 评审温度
	criticTemperature = 0.2
	// defaultQualityScore 评审降级或解析失败时的中性默认分
	defaultQualityScore = 0.7
)

const criticSystemPrompt = `You are a quality evaluator for AI-generated answers.
Evaluate the answer on these criteria:
1. Relevance to the question
2. Accuracy based on provided context
3. Completeness
4. Clarity

Respond with a JSON object containing:
- "score": a number between 0.0 and 1.0
- "feedback": a brief explanation (1-2 sentences)

Example response:
{"score": 0.85, "feedback": "Good coverage of the topic with clear explanations."}`

// runCritic 评估草稿回答的质量
//
// 预算不足时软降级：赋中性默认分并跳过评审，系统继续执行。
// 响应解析失败同样回落到默认分，从不向上传播错误。
func (o *Orchestrator) runCritic(ctx context.Context, s *ExecutionState) {
	if s.RemainingBudget < criticRequiredBudget {
		s.QualityScore = defaultQualityScore
		return
	}

	contextSummary := "No context"
	if len(s.RetrievedChunks) > 0 {
		contextSummary = fmt.Sprintf("%d chunks retrieved", len(s.RetrievedChunks))
	}

	userMessage := fmt.Sprintf(`## Original Question
%s

## Context Available
%s

## Generated Answer
%s

Please evaluate this answer and provide a quality score.`, s.Query, contextSummary, s.DraftAnswer)

	req := llm.NewCompletionRequest(criticSystemPrompt, userMessage, criticMaxTokens, criticTemperature)

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		s.RecordFailure(StageCritic, err)
		o.logger.Warn("critic call failed, using default score", "error", err)
		s.QualityScore = defaultQualityScore
		return
	}

	s.QualityScore = parseQualityScore(resp.Content)

	cost := resp.TokenUsage.TotalTokens
	if resp.TokenUsage.IsEmpty() {
		cost = o.counter.CountAll(criticSystemPrompt, userMessage, resp.Content)
	}
	o.consume(ctx, s, StageCritic, cost)
}

// parseQualityScore 从评审响应中解析质量分
//
// 解析失败回落到中性默认分；结果始终钳制在 [0, 1]。
func parseQualityScore(content string) float64 {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return defaultQualityScore
	}

	var parsed struct {
		Score    *float64 `json:"score"`
		Feedback string   `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return defaultQualityScore
	}
	if parsed.Score == nil {
		return defaultQualityScore
	}

	score := *parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
