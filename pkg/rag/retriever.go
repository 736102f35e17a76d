package rag

import (
	"context"
)

// Retriever 检索器接口
type Retriever interface {
	// Retrieve 检索与查询相关的文档块
	//
	// 返回结果可能少于 topK。
	Retrieve(ctx context.Context, query string, topK int) ([]RetrievalResult, error)
}

// VectorRetriever 向量检索器
type VectorRetriever struct {
	store          VectorStore
	embedder       Embedder
	scoreThreshold float32
}

// VectorRetrieverOption 向量检索器选项
type VectorRetrieverOption func(*VectorRetriever)

// WithScoreThreshold 设置分数阈值
func WithScoreThreshold(threshold float32) VectorRetrieverOption {
	return func(r *VectorRetriever) {
		r.scoreThreshold = threshold
	}
}

// NewVectorRetriever 创建向量检索器
func NewVectorRetriever(store VectorStore, embedder Embedder, opts ...VectorRetrieverOption) *VectorRetriever {
	r := &VectorRetriever{
		store:          store,
		embedder:       embedder,
		scoreThreshold: 0.0, // 默认无阈值
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Retrieve 检索与查询相关的文档块
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]RetrievalResult, error) {
	// 生成查询向量
	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, nil
	}

	results, err := r.store.Search(ctx, embeddings[0], topK)
	if err != nil {
		return nil, err
	}

	// 过滤低于阈值的结果
	if r.scoreThreshold > 0 {
		filtered := results[:0]
		for _, res := range results {
			if res.Score >= r.scoreThreshold {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	return results, nil
}

var _ Retriever = (*VectorRetriever)(nil)
