package otel

import "go.opentelemetry.io/otel/attribute"

// 预定义的语义属性键
// 遵循 OpenTelemetry 语义约定
const (
	// Pipeline 相关属性
	AttrPipelineStage    = "pipeline.stage"
	AttrPipelineStatus   = "pipeline.status"
	AttrPipelineStep     = "pipeline.step"
	AttrPipelineMaxSteps = "pipeline.max_steps"

	// Budget 相关属性
	AttrBudgetTotal     = "budget.total"
	AttrBudgetRemaining = "budget.remaining"
	AttrBudgetCost      = "budget.cost"

	// Router 相关属性
	AttrRouterAction = "router.action"
	AttrQualityScore = "quality.score"

	// LLM 相关属性
	AttrLLMProvider         = "llm.provider"
	AttrLLMModel            = "llm.model"
	AttrLLMTemperature      = "llm.temperature"
	AttrLLMMaxTokens        = "llm.max_tokens"
	AttrLLMPromptTokens     = "llm.prompt_tokens"
	AttrLLMCompletionTokens = "llm.completion_tokens"
	AttrLLMTotalTokens      = "llm.total_tokens"

	// RAG 相关属性
	AttrRAGDocCount   = "rag.document_count"
	AttrRAGChunkCount = "rag.chunk_count"
	AttrRAGTopK       = "rag.top_k"
	AttrRAGScore      = "rag.score"

	// Error 相关属性
	AttrErrorType      = "error.type"
	AttrErrorMessage   = "error.message"
	AttrErrorRetryable = "error.retryable"
)

// PipelineStage 创建管道阶段属性
func PipelineStage(stage string) attribute.KeyValue {
	return attribute.String(AttrPipelineStage, stage)
}

// PipelineStatus 创建管道状态属性
func PipelineStatus(status string) attribute.KeyValue {
	return attribute.String(AttrPipelineStatus, status)
}

// PipelineStep 创建管道步数属性
func PipelineStep(step int) attribute.KeyValue {
	return attribute.Int(AttrPipelineStep, step)
}

// BudgetAttrs 创建预算属性
func BudgetAttrs(total, remaining int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrBudgetTotal, total),
		attribute.Int(AttrBudgetRemaining, remaining),
	}
}

// RouterAction 创建路由动作属性
func RouterAction(action string) attribute.KeyValue {
	return attribute.String(AttrRouterAction, action)
}

// QualityScore 创建质量分属性
func QualityScore(score float64) attribute.KeyValue {
	return attribute.Float64(AttrQualityScore, score)
}

// LLMProvider 创建 LLM 提供商属性
func LLMProvider(provider string) attribute.KeyValue {
	return attribute.String(AttrLLMProvider, provider)
}

// LLMModel 创建 LLM 模型属性
func LLMModel(model string) attribute.KeyValue {
	return attribute.String(AttrLLMModel, model)
}

// LLMTokens 创建 LLM Token 使用属性
func LLMTokens(prompt, completion, total int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrLLMPromptTokens, prompt),
		attribute.Int(AttrLLMCompletionTokens, completion),
		attribute.Int(AttrLLMTotalTokens, total),
	}
}

// RAGTopK 创建检索 topK 属性
func RAGTopK(topK int) attribute.KeyValue {
	return attribute.Int(AttrRAGTopK, topK)
}

// RAGChunkCount 创建检索块数属性
func RAGChunkCount(count int) attribute.KeyValue {
	return attribute.Int(AttrRAGChunkCount, count)
}

// ErrorAttrs 创建错误属性
func ErrorAttrs(errType, message string, retryable bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, errType),
		attribute.String(AttrErrorMessage, message),
		attribute.Bool(AttrErrorRetryable, retryable),
	}
}
