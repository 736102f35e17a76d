package pipeline

// 阶段名称，同时作为台账中的消耗条目键
const (
	// StagePlanner 规划阶段
	StagePlanner = "planner"
	// StageRetriever 检索阶段
	StageRetriever = "retriever"
	// StageGenerator 生成阶段
	StageGenerator = "generator"
	// StageCritic 评审阶段
	StageCritic = "critic"
	// StageSummarizer 压缩阶段
	StageSummarizer = "summarizer"
)

// Consume 记录一个阶段的 Token 消耗
//
// 将 max(0, cost) 计入 TokensUsed[stageName] 并从 RemainingBudget
// 扣除，剩余预算最低钳制为 0，被吸收的超支累计进 Overdraft。
//
// 非幂等：同样的参数调用两次会重复计账，调用方必须保证每个
// 工作单元恰好调用一次。
func (s *ExecutionState) Consume(stageName string, cost int) {
	if cost < 0 {
		cost = 0
	}

	s.TokensUsed[stageName] += cost

	remaining := s.RemainingBudget - cost
	if remaining < 0 {
		s.Overdraft += -remaining
		remaining = 0
	}
	s.RemainingBudget = remaining
}
