package rag_test

import (
	"strings"
	"testing"

	"github.com/easyops/tokengate/pkg/rag"
)

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	chunker := rag.NewRecursiveCharacterChunker(100, 10)
	doc := rag.Document{ID: "doc1", Content: "A short document."}

	chunks := chunker.Chunk(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "A short document." {
		t.Fatalf("expected content preserved, got %q", chunks[0].Content)
	}
	if chunks[0].DocumentID != "doc1" {
		t.Fatalf("expected document ID propagated, got %s", chunks[0].DocumentID)
	}
}

func TestChunker_SplitsLongText(t *testing.T) {
	chunker := rag.NewRecursiveCharacterChunker(50, 0)

	paragraphs := make([]string, 5)
	for i := range paragraphs {
		paragraphs[i] = "This paragraph has some content in it."
	}
	doc := rag.Document{ID: "doc1", Content: strings.Join(paragraphs, "\n\n")}

	chunks := chunker.Chunk(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Content) > 50 {
			t.Fatalf("chunk exceeds size limit: %d chars", len(c.Content))
		}
	}
}

func TestChunker_IndexesAreSequential(t *testing.T) {
	chunker := rag.NewRecursiveCharacterChunker(30, 0)
	doc := rag.Document{ID: "doc1", Content: strings.Repeat("word ", 50)}

	chunks := chunker.Chunk(doc)
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("expected index %d, got %d", i, c.Index)
		}
	}
}

func TestChunker_EmptyContent(t *testing.T) {
	chunker := rag.NewRecursiveCharacterChunker(100, 10)
	doc := rag.Document{ID: "doc1", Content: "   "}

	chunks := chunker.Chunk(doc)
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank content, got %d", len(chunks))
	}
}

func TestChunker_MetadataPropagated(t *testing.T) {
	chunker := rag.NewRecursiveCharacterChunker(100, 10)
	doc := rag.Document{
		ID:       "doc1",
		Content:  "Some content.",
		Metadata: map[string]interface{}{"source": "unit"},
	}

	chunks := chunker.Chunk(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata["source"] != "unit" {
		t.Fatal("expected metadata propagated to chunk")
	}
}
