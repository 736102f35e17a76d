// Package pipeline 实现预算门控的执行引擎。
//
// 一次请求由 Planner → Retriever → Generator → Critic 的线性阶段序列
// 驱动，Critic 之后由 Router 决策终止、重试或压缩退出。所有阶段共享
// 同一份消费台账，累计消耗受总预算硬性约束；预算耗尽时走降级路径，
// 保证始终产出可用的回答。
package pipeline

// Status 请求生命周期状态
//
// 封闭集合。降级状态通过 Degraded 显式判定，不做字符串前缀匹配。
type Status string

const (
	// StatusInit 初始状态
	StatusInit Status = "INIT"
	// StatusInsufficientBudgetForPlanning 规划阶段预算不足
	StatusInsufficientBudgetForPlanning Status = "INSUFFICIENT_BUDGET_FOR_PLANNING"
	// StatusInsufficientBudgetForGeneration 生成阶段预算不足
	StatusInsufficientBudgetForGeneration Status = "INSUFFICIENT_BUDGET_FOR_GENERATION"
	// StatusCompleted 质量达标，草稿直接定稿
	StatusCompleted Status = "COMPLETED"
	// StatusCompletedWithSummary 经压缩退出完成
	StatusCompletedWithSummary Status = "COMPLETED_WITH_SUMMARY"
)

// Degraded 判断状态是否为预算降级状态
func (s Status) Degraded() bool {
	switch s {
	case StatusInsufficientBudgetForPlanning, StatusInsufficientBudgetForGeneration:
		return true
	default:
		return false
	}
}

// Terminal 判断状态是否为终止状态
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithSummary:
		return true
	default:
		return false
	}
}

// ExecutionState 一次请求的执行状态
//
// 由 Orchestrator 在请求生命周期内独占持有，阶段原地修改。
// 不跨请求共享，请求结束后随响应返回。
type ExecutionState struct {
	// Query 用户查询（不可变输入）
	Query string `json:"query"`

	// Plan 执行计划，每次重试被整体覆盖
	Plan string `json:"plan"`
	// RetrievedChunks 检索到的上下文块，每次检索整体替换
	RetrievedChunks []string `json:"retrieved_chunks"`
	// DraftAnswer 草稿回答，每次重试被整体覆盖
	DraftAnswer string `json:"draft_answer"`
	// FinalAnswer 最终回答，由终止动作写入
	FinalAnswer string `json:"final_answer"`

	// TotalBudget 总 Token 预算
	TotalBudget int `json:"total_budget"`
	// RemainingBudget 剩余预算
	//
	// 不变量: RemainingBudget == max(0, TotalBudget - sum(TokensUsed))
	RemainingBudget int `json:"remaining_budget"`
	// TokensUsed 各阶段累计消耗
	TokensUsed map[string]int `json:"tokens_used"`
	// Overdraft 被钳制吸收的超支总量（诊断用）
	Overdraft int `json:"overdraft,omitempty"`

	// StepCount 已执行的规划轮数
	StepCount int `json:"step_count"`
	// MaxSteps 重试循环的轮数上限（不可变）
	MaxSteps int `json:"max_steps"`

	// QualityScore 质量分 [0,1]，仅由 Critic 写入
	QualityScore float64 `json:"quality_score"`
	// Status 生命周期状态
	Status Status `json:"status"`

	// Failures 各阶段的外部调用失败记录
	Failures map[string]string `json:"failures,omitempty"`
}

// NewExecutionState 为新请求初始化执行状态
func NewExecutionState(query string, totalBudget, maxSteps int) *ExecutionState {
	return &ExecutionState{
		Query:           query,
		RetrievedChunks: []string{},
		TotalBudget:     totalBudget,
		RemainingBudget: totalBudget,
		TokensUsed:      make(map[string]int),
		MaxSteps:        maxSteps,
		Status:          StatusInit,
	}
}

// TotalTokens 返回所有阶段的累计消耗
func (s *ExecutionState) TotalTokens() int {
	total := 0
	for _, used := range s.TokensUsed {
		total += used
	}
	return total
}

// RecordFailure 记录阶段的外部调用失败
func (s *ExecutionState) RecordFailure(stageName string, err error) {
	if s.Failures == nil {
		s.Failures = make(map[string]string)
	}
	s.Failures[stageName] = err.Error()
}
