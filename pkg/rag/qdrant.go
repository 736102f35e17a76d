package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// QdrantVectorStore Qdrant 向量存储
//
// 基于 Qdrant REST API 的向量存储实现。
type QdrantVectorStore struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
	dimensions int

	mu   sync.RWMutex
	size int
}

// QdrantConfig Qdrant 配置
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Dimensions int
	Timeout    time.Duration
}

// NewQdrantVectorStore 创建 Qdrant 向量存储
func NewQdrantVectorStore(config QdrantConfig) (*QdrantVectorStore, error) {
	if config.URL == "" {
		config.URL = "http://localhost:6333"
	}
	if config.Collection == "" {
		config.Collection = "documents"
	}
	if config.Dimensions <= 0 {
		config.Dimensions = 1536
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &QdrantVectorStore{
		baseURL:    config.URL,
		apiKey:     config.APIKey,
		collection: config.Collection,
		dimensions: config.Dimensions,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// ensureCollection 确保集合存在
func (s *QdrantVectorStore) ensureCollection(ctx context.Context) error {
	req, err := s.newRequest(ctx, "GET", fmt.Sprintf("/collections/%s", s.collection), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	createBody := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     s.dimensions,
			"distance": "Cosine",
		},
	}

	req, err = s.newRequest(ctx, "PUT", fmt.Sprintf("/collections/%s", s.collection), createBody)
	if err != nil {
		return err
	}

	resp, err = s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create collection: %s", string(body))
	}

	return nil
}

// Add 批量添加文档块
func (s *QdrantVectorStore) Add(ctx context.Context, chunks []DocumentChunk) error {
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	points := make([]map[string]interface{}, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]interface{}{
			"content":     chunk.Content,
			"document_id": chunk.DocumentID,
			"index":       chunk.Index,
		}
		for k, v := range chunk.Metadata {
			payload[k] = v
		}

		points[i] = map[string]interface{}{
			"id":      chunk.ID,
			"vector":  chunk.Vector,
			"payload": payload,
		}
	}

	body := map[string]interface{}{
		"points": points,
	}

	req, err := s.newRequest(ctx, "PUT", fmt.Sprintf("/collections/%s/points", s.collection), body)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to upsert vectors: %s", string(respBody))
	}

	s.mu.Lock()
	s.size += len(chunks)
	s.mu.Unlock()

	return nil
}

// Search 搜索相似文档块
func (s *QdrantVectorStore) Search(ctx context.Context, query []float32, topK int) ([]RetrievalResult, error) {
	body := map[string]interface{}{
		"vector":       query,
		"limit":        topK,
		"with_payload": true,
	}

	req, err := s.newRequest(ctx, "POST", fmt.Sprintf("/collections/%s/points/search", s.collection), body)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: %s", string(respBody))
	}

	var result struct {
		Result []struct {
			ID      string                 `json:"id"`
			Score   float32                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]RetrievalResult, len(result.Result))
	for i, r := range result.Result {
		chunk := DocumentChunk{ID: r.ID}
		if content, ok := r.Payload["content"].(string); ok {
			chunk.Content = content
		}
		if docID, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = docID
		}
		results[i] = RetrievalResult{
			Chunk: chunk,
			Score: r.Score,
		}
	}

	return results, nil
}

// Delete 按 ID 删除文档块
func (s *QdrantVectorStore) Delete(ctx context.Context, ids []string) error {
	body := map[string]interface{}{
		"points": ids,
	}

	req, err := s.newRequest(ctx, "POST", fmt.Sprintf("/collections/%s/points/delete", s.collection), body)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete vectors: %s", string(respBody))
	}

	s.mu.Lock()
	s.size -= len(ids)
	if s.size < 0 {
		s.size = 0
	}
	s.mu.Unlock()

	return nil
}

// Clear 清空集合
func (s *QdrantVectorStore) Clear(ctx context.Context) error {
	req, err := s.newRequest(ctx, "DELETE", fmt.Sprintf("/collections/%s", s.collection), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	defer resp.Body.Close()

	s.mu.Lock()
	s.size = 0
	s.mu.Unlock()

	return nil
}

// Size 返回已写入的块数量（本地计数）
func (s *QdrantVectorStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// newRequest 构建带认证头的请求
func (s *QdrantVectorStore) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	return req, nil
}

var _ VectorStore = (*QdrantVectorStore)(nil)
