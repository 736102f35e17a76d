// Package rag 提供向量检索层：文档分块、嵌入、相似度索引与摄取
package rag

// Document 文档
type Document struct {
	// ID 文档唯一标识
	ID string `json:"id"`
	// Content 文档内容
	Content string `json:"content"`
	// Metadata 元数据
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DocumentChunk 文档分块
type DocumentChunk struct {
	// ID 分块唯一标识
	ID string `json:"id"`
	// DocumentID 所属文档 ID
	DocumentID string `json:"document_id"`
	// Content 分块内容
	Content string `json:"content"`
	// Index 分块索引（在文档中的位置）
	Index int `json:"index"`
	// Metadata 元数据（继承自文档）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	// Vector 嵌入向量
	Vector []float32 `json:"vector,omitempty"`
}

// RetrievalResult 检索结果
type RetrievalResult struct {
	// Chunk 文档分块
	Chunk DocumentChunk `json:"chunk"`
	// Score 相关性分数 (0-1)
	Score float32 `json:"score"`
}
