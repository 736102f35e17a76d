package pipeline

const (
	// DefaultBudgetThreshold 触发强制压缩的剩余预算阈值
	DefaultBudgetThreshold = 500
	// DefaultQualityThreshold 触发提前定稿的质量阈值
	DefaultQualityThreshold = 0.85
)

// Action Router 的决策结果
type Action int

const (
	// ActionEnd 质量达标，草稿定稿
	ActionEnd Action = iota
	// ActionLoop 回到规划阶段重试
	ActionLoop
	// ActionSummarize 压缩退出
	ActionSummarize
)

// String 返回动作名称
func (a Action) String() string {
	switch a {
	case ActionEnd:
		return "end"
	case ActionLoop:
		return "loop"
	case ActionSummarize:
		return "summarize"
	default:
		return "unknown"
	}
}

// Router 预算驱动的控制流决策器
//
// 纯决策：只读取状态的派生字段，从不修改状态。相同输入
// 总是产生相同分支。
type Router struct {
	// BudgetThreshold 剩余预算阈值
	BudgetThreshold int
	// QualityThreshold 质量分阈值
	QualityThreshold float64
}

// NewRouter 创建 Router
func NewRouter(budgetThreshold int, qualityThreshold float64) Router {
	return Router{
		BudgetThreshold:  budgetThreshold,
		QualityThreshold: qualityThreshold,
	}
}

// DefaultRouter 返回使用默认阈值的 Router
func DefaultRouter() Router {
	return NewRouter(DefaultBudgetThreshold, DefaultQualityThreshold)
}

// Decide 在 Critic 之后评估一次，决定下一步动作
//
// 按严格优先级匹配，首个命中生效:
//  1. 状态已降级 → summarize
//  2. 剩余预算 ≤ BudgetThreshold → summarize
//  3. 质量分 ≥ QualityThreshold → end
//  4. 步数达到上限 → summarize
//  5. 其余情况 → loop
func (r Router) Decide(s *ExecutionState) Action {
	if s.Status.Degraded() {
		return ActionSummarize
	}

	if s.RemainingBudget <= r.BudgetThreshold {
		return ActionSummarize
	}

	if s.QualityScore >= r.QualityThreshold {
		return ActionEnd
	}

	if s.StepCount >= s.MaxSteps {
		return ActionSummarize
	}

	return ActionLoop
}
