package rag

import (
	"context"

	"github.com/easyops/tokengate/pkg/core/llm"
)

// ProviderEmbedder 基于 LLM Provider 的嵌入实现
type ProviderEmbedder struct {
	provider llm.Provider
}

// NewProviderEmbedder 创建 Provider 嵌入器
func NewProviderEmbedder(provider llm.Provider) *ProviderEmbedder {
	return &ProviderEmbedder{provider: provider}
}

// Embed 将文本转换为向量
func (e *ProviderEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.provider.Embed(ctx, texts)
}

// compile-time interface check
var _ Embedder = (*ProviderEmbedder)(nil)
