package rag_test

import (
	"context"
	"testing"

	"github.com/easyops/tokengate/pkg/rag"
)

func chunk(id, content string, vector []float32) rag.DocumentChunk {
	return rag.DocumentChunk{
		ID:      id,
		Content: content,
		Vector:  vector,
	}
}

func TestInMemoryStore_AddAndSize(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ctx := context.Background()

	err := store.Add(ctx, []rag.DocumentChunk{
		chunk("a", "first", []float32{1, 0}),
		chunk("b", "second", []float32{0, 1}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Size() != 2 {
		t.Fatalf("expected size 2, got %d", store.Size())
	}
}

func TestInMemoryStore_SearchOrdersByScore(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ctx := context.Background()

	_ = store.Add(ctx, []rag.DocumentChunk{
		chunk("exact", "exact match", []float32{1, 0}),
		chunk("orthogonal", "unrelated", []float32{0, 1}),
		chunk("close", "close match", []float32{0.9, 0.1}),
	})

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "exact" {
		t.Fatalf("expected exact match first, got %s", results[0].Chunk.ID)
	}
	if results[1].Chunk.ID != "close" {
		t.Fatalf("expected close match second, got %s", results[1].Chunk.ID)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("expected descending score order")
	}
}

func TestInMemoryStore_SearchTopKExceedsSize(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ctx := context.Background()

	_ = store.Add(ctx, []rag.DocumentChunk{chunk("only", "one", []float32{1, 0})})

	results, err := store.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ctx := context.Background()

	_ = store.Add(ctx, []rag.DocumentChunk{
		chunk("a", "first", []float32{1, 0}),
		chunk("b", "second", []float32{0, 1}),
	})

	if err := store.Delete(ctx, []string{"a"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Size() != 1 {
		t.Fatalf("expected size 1 after delete, got %d", store.Size())
	}
}

func TestInMemoryStore_Clear(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ctx := context.Background()

	_ = store.Add(ctx, []rag.DocumentChunk{chunk("a", "first", []float32{1, 0})})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Size() != 0 {
		t.Fatalf("expected empty store, got size %d", store.Size())
	}
}
