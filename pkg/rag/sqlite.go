package rag

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteVectorStore SQLite 向量存储
//
// 基于 SQLite 的持久化向量存储。向量以 JSON 列存储，
// 相似度计算在进程内完成，适用于中小规模语料。
type SQLiteVectorStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteVectorStore 创建 SQLite 向量存储
func NewSQLiteVectorStore(dbPath string) (*SQLiteVectorStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteVectorStore{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return store, nil
}

// initSchema 初始化表结构
func (s *SQLiteVectorStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		content TEXT,
		metadata TEXT,
		vector TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
	`

	_, err := s.db.Exec(query)
	return err
}

// Add 添加文档块
//
// 单批写入在一个事务内完成，避免交错的部分写入。
func (s *SQLiteVectorStore) Add(ctx context.Context, chunks []DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
	INSERT INTO chunks (id, document_id, content, metadata, vector, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		content = excluded.content,
		metadata = excluded.metadata,
		vector = excluded.vector
	`

	now := time.Now().UnixMilli()
	for _, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		vector, err := json.Marshal(chunk.Vector)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to marshal vector: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query,
			chunk.ID, chunk.DocumentID, chunk.Content, string(metadata), string(vector), now,
		); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Search 搜索相似文档块
func (s *SQLiteVectorStore) Search(ctx context.Context, query []float32, topK int) ([]RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, content, metadata, vector FROM chunks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scored := make([]RetrievalResult, 0)

	for rows.Next() {
		var chunk DocumentChunk
		var metadataStr, vectorStr string

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &metadataStr, &vectorStr); err != nil {
			return nil, err
		}

		if metadataStr != "" && metadataStr != "null" {
			if err := json.Unmarshal([]byte(metadataStr), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(vectorStr), &chunk.Vector); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vector: %w", err)
		}

		if len(chunk.Vector) == 0 {
			continue
		}

		scored = append(scored, RetrievalResult{
			Chunk: chunk,
			Score: cosineSimilarity(query, chunk.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortByScore(scored)

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

// Delete 删除文档块
func (s *SQLiteVectorStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM chunks WHERE id IN (%s)", placeholders), args...)
	return err
}

// Clear 清空存储
func (s *SQLiteVectorStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks")
	return err
}

// Size 返回存储的块数量
func (s *SQLiteVectorStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0
	}
	return count
}

// Close 关闭数据库连接
func (s *SQLiteVectorStore) Close() error {
	return s.db.Close()
}

var _ VectorStore = (*SQLiteVectorStore)(nil)
