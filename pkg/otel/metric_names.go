package otel

// 预定义的指标名称
// 遵循 OpenTelemetry 语义约定
const (
	// Pipeline 指标
	MetricPipelineRuns        = "pipeline.runs"            // 计数器: 管道执行次数
	MetricPipelineRunDuration = "pipeline.run.duration"    // 直方图: 管道执行时间(ms)
	MetricPipelineSteps       = "pipeline.steps"           // 直方图: 单次执行的步数
	MetricPipelineDegraded    = "pipeline.degraded"        // 计数器: 降级终止次数
	MetricPipelineErrors      = "pipeline.errors"          // 计数器: 管道错误次数

	// Budget 指标
	MetricBudgetConsumed  = "budget.tokens.consumed"  // 计数器: 消耗的 token 总数
	MetricBudgetRemaining = "budget.tokens.remaining" // 仪表: 执行结束时的剩余预算
	MetricBudgetOverdraft = "budget.tokens.overdraft" // 计数器: 超支的 token 总数

	// Router 指标
	MetricRouterDecisions = "router.decisions" // 计数器: 路由决策次数(按动作分)

	// LLM 指标
	MetricLLMRequests         = "llm.requests"          // 计数器: LLM 请求次数
	MetricLLMRequestDuration  = "llm.request.duration"  // 直方图: LLM 请求时间(ms)
	MetricLLMTokensPrompt     = "llm.tokens.prompt"     // 计数器: Prompt Token 总数
	MetricLLMTokensCompletion = "llm.tokens.completion" // 计数器: Completion Token 总数
	MetricLLMTokensTotal      = "llm.tokens.total"      // 计数器: 总 Token 数
	MetricLLMErrors           = "llm.errors"            // 计数器: LLM 错误次数
	MetricLLMRetries          = "llm.retries"           // 计数器: LLM 重试次数

	// RAG 指标
	MetricRAGQueries         = "rag.queries"           // 计数器: RAG 查询次数
	MetricRAGQueryDuration   = "rag.query.duration"    // 直方图: RAG 查询时间(ms)
	MetricRAGDocumentsLoaded = "rag.documents.loaded"  // 计数器: 加载文档数
	MetricRAGChunksIndexed   = "rag.chunks.indexed"    // 计数器: 索引块数

	// HTTP 指标
	MetricHTTPRequests        = "http.requests"         // 计数器: HTTP 请求次数
	MetricHTTPRequestDuration = "http.request.duration" // 直方图: HTTP 请求时间(ms)
)

// MetricUnit 指标单位
type MetricUnit string

const (
	UnitNone         MetricUnit = ""
	UnitMilliseconds MetricUnit = "ms"
	UnitSeconds      MetricUnit = "s"
	UnitBytes        MetricUnit = "By"
	UnitCount        MetricUnit = "1"
)

// MetricDescription 指标描述
type MetricDescription struct {
	Name        string
	Description string
	Unit        MetricUnit
	Type        string // counter, histogram, gauge
}

// PredefinedMetrics 预定义指标列表
var PredefinedMetrics = []MetricDescription{
	{MetricPipelineRuns, "Number of pipeline runs", UnitCount, "counter"},
	{MetricPipelineRunDuration, "Duration of pipeline runs", UnitMilliseconds, "histogram"},
	{MetricPipelineSteps, "Number of steps per pipeline run", UnitCount, "histogram"},
	{MetricPipelineDegraded, "Number of degraded pipeline terminations", UnitCount, "counter"},
	{MetricPipelineErrors, "Number of pipeline errors", UnitCount, "counter"},

	{MetricBudgetConsumed, "Number of tokens consumed", UnitCount, "counter"},
	{MetricBudgetRemaining, "Remaining budget at end of run", UnitCount, "gauge"},
	{MetricBudgetOverdraft, "Number of tokens consumed beyond budget", UnitCount, "counter"},

	{MetricRouterDecisions, "Number of routing decisions", UnitCount, "counter"},

	{MetricLLMRequests, "Number of LLM requests", UnitCount, "counter"},
	{MetricLLMRequestDuration, "Duration of LLM requests", UnitMilliseconds, "histogram"},
	{MetricLLMTokensPrompt, "Number of prompt tokens", UnitCount, "counter"},
	{MetricLLMTokensCompletion, "Number of completion tokens", UnitCount, "counter"},
	{MetricLLMTokensTotal, "Total number of tokens", UnitCount, "counter"},
	{MetricLLMErrors, "Number of LLM errors", UnitCount, "counter"},
	{MetricLLMRetries, "Number of LLM retries", UnitCount, "counter"},

	{MetricRAGQueries, "Number of RAG queries", UnitCount, "counter"},
	{MetricRAGQueryDuration, "Duration of RAG queries", UnitMilliseconds, "histogram"},
	{MetricRAGDocumentsLoaded, "Number of documents loaded", UnitCount, "counter"},
	{MetricRAGChunksIndexed, "Number of chunks indexed", UnitCount, "counter"},

	{MetricHTTPRequests, "Number of HTTP requests", UnitCount, "counter"},
	{MetricHTTPRequestDuration, "Duration of HTTP requests", UnitMilliseconds, "histogram"},
}
