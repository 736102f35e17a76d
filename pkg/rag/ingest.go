package rag

import (
	"context"
	"sync"

	"github.com/easyops/tokengate/pkg/core/errors"
)

// Ingestor 文档摄取器
//
// 将原始文本切块、嵌入并写入向量存储。批与批之间串行执行，
// 避免交错的部分写入；读路径不受影响。
type Ingestor struct {
	embedder Embedder
	store    VectorStore
	chunker  DocumentChunker

	mu sync.Mutex
}

// IngestorOption 摄取器选项
type IngestorOption func(*Ingestor)

// WithChunker 设置文档分块器
func WithChunker(chunker DocumentChunker) IngestorOption {
	return func(i *Ingestor) {
		i.chunker = chunker
	}
}

// NewIngestor 创建文档摄取器
func NewIngestor(embedder Embedder, store VectorStore, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		embedder: embedder,
		store:    store,
		chunker:  NewRecursiveCharacterChunker(512, 50),
	}

	for _, opt := range opts {
		opt(ing)
	}

	return ing
}

// AddTexts 摄取一批文本
//
// metadatas 可为 nil；非 nil 时长度必须与 texts 一致。
// 返回实际写入的块数量。
func (i *Ingestor) AddTexts(ctx context.Context, texts []string, metadatas []map[string]interface{}) (int, error) {
	if len(texts) == 0 {
		return 0, errors.ErrEmptyTexts
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return 0, errors.ErrMetadataMismatch
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// 切块
	chunks := make([]DocumentChunk, 0, len(texts))
	for idx, text := range texts {
		doc := Document{
			ID:      generateID(),
			Content: text,
		}
		if metadatas != nil {
			doc.Metadata = metadatas[idx]
		}
		chunks = append(chunks, i.chunker.Chunk(doc)...)
	}

	if len(chunks) == 0 {
		return 0, nil
	}

	// 嵌入
	contents := make([]string, len(chunks))
	for idx, chunk := range chunks {
		contents[idx] = chunk.Content
	}

	vectors, err := i.embedder.Embed(ctx, contents)
	if err != nil {
		return 0, errors.WrapError(err, "embedding failed")
	}
	if len(vectors) != len(chunks) {
		return 0, errors.ErrEmbeddingFailed
	}

	for idx := range chunks {
		chunks[idx].Vector = vectors[idx]
	}

	// 单批写入
	if err := i.store.Add(ctx, chunks); err != nil {
		return 0, errors.WrapError(err, "vector store add failed")
	}

	return len(chunks), nil
}
