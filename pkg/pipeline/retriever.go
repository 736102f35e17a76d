package pipeline

import (
	"context"
	"strings"
)

const (
	// minGenerationBudget 为下游生成阶段保留的预算底线
	minGenerationBudget = 3000
	// tokensPerChunk 单个上下文块的近似 token 成本
	tokensPerChunk = 400
	// maxTopK 单次检索的块数上限
	maxTopK = 10
)

// runRetriever 从向量索引检索相关上下文
//
// 在为生成保留预算后按可用额度动态调整 topK，
// 防止检索成本失控。可用额度 ≤ 0 时直接返回空上下文，
// 不查询索引。
func (o *Orchestrator) runRetriever(ctx context.Context, s *ExecutionState) {
	affordable := s.RemainingBudget - minGenerationBudget

	if affordable <= 0 {
		s.RetrievedChunks = []string{}
		return
	}

	topK := affordable / tokensPerChunk
	if topK < 1 {
		topK = 1
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	results, err := o.retriever.Retrieve(ctx, s.Query, topK)
	if err != nil {
		s.RecordFailure(StageRetriever, err)
		o.logger.Warn("retrieval failed, continuing without context", "error", err)
		s.RetrievedChunks = []string{}
		return
	}

	chunks := make([]string, len(results))
	for i, res := range results {
		chunks[i] = res.Chunk.Content
	}
	s.RetrievedChunks = chunks

	// 成本按返回文本的估算值计费，而非固定的每块单价
	cost := 0
	if len(chunks) > 0 {
		cost = o.counter.Count(strings.Join(chunks, "\n\n"))
	}
	o.consume(ctx, s, StageRetriever, cost)
}
