package rag_test

import (
	"context"
	"errors"
	"testing"

	coreerrors "github.com/easyops/tokengate/pkg/core/errors"
	"github.com/easyops/tokengate/pkg/rag"
)

// mockEmbedder implements rag.Embedder for testing
type mockEmbedder struct {
	embedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1, 0, 0}
	}
	return result, nil
}

func TestIngestor_AddTexts(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ingestor := rag.NewIngestor(&mockEmbedder{}, store)

	count, err := ingestor.AddTexts(context.Background(), []string{"first doc", "second doc"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 chunks, got %d", count)
	}
	if store.Size() != 2 {
		t.Fatalf("expected 2 chunks in store, got %d", store.Size())
	}
}

func TestIngestor_EmptyTexts(t *testing.T) {
	ingestor := rag.NewIngestor(&mockEmbedder{}, rag.NewInMemoryVectorStore())

	_, err := ingestor.AddTexts(context.Background(), nil, nil)
	if !errors.Is(err, coreerrors.ErrEmptyTexts) {
		t.Fatalf("expected ErrEmptyTexts, got %v", err)
	}
}

func TestIngestor_MetadataMismatch(t *testing.T) {
	ingestor := rag.NewIngestor(&mockEmbedder{}, rag.NewInMemoryVectorStore())

	_, err := ingestor.AddTexts(context.Background(),
		[]string{"one", "two"},
		[]map[string]interface{}{{"k": "v"}},
	)
	if !errors.Is(err, coreerrors.ErrMetadataMismatch) {
		t.Fatalf("expected ErrMetadataMismatch, got %v", err)
	}
}

func TestIngestor_EmbedderFailure(t *testing.T) {
	embedder := &mockEmbedder{
		embedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, coreerrors.ErrEmbeddingFailed
		},
	}
	store := rag.NewInMemoryVectorStore()
	ingestor := rag.NewIngestor(embedder, store)

	_, err := ingestor.AddTexts(context.Background(), []string{"doc"}, nil)
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}
	if store.Size() != 0 {
		t.Fatal("expected no partial writes on embedding failure")
	}
}

func TestIngestor_MetadataAttachedToChunks(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	ingestor := rag.NewIngestor(&mockEmbedder{}, store)

	_, err := ingestor.AddTexts(context.Background(),
		[]string{"tagged document"},
		[]map[string]interface{}{{"source": "test"}},
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	results, err := store.Search(context.Background(), []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Chunk.Metadata["source"] != "test" {
		t.Fatal("expected metadata attached to stored chunk")
	}
}

func TestVectorRetriever_ScoreThreshold(t *testing.T) {
	store := rag.NewInMemoryVectorStore()
	_ = store.Add(context.Background(), []rag.DocumentChunk{
		{ID: "hit", Content: "relevant", Vector: []float32{1, 0}},
		{ID: "miss", Content: "irrelevant", Vector: []float32{0, 1}},
	})

	retriever := rag.NewVectorRetriever(store, &mockEmbedder{
		embedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		},
	}, rag.WithScoreThreshold(0.5))

	results, err := retriever.Retrieve(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result above threshold, got %d", len(results))
	}
	if results[0].Chunk.ID != "hit" {
		t.Fatalf("expected matching chunk, got %s", results[0].Chunk.ID)
	}
}
