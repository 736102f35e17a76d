package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easyops/tokengate/pkg/core/config"
	"github.com/easyops/tokengate/pkg/core/errors"
	"github.com/easyops/tokengate/pkg/pipeline"
	"github.com/easyops/tokengate/pkg/server"
)

// mockQueryService implements server.QueryService for testing
type mockQueryService struct {
	runFn func(ctx context.Context, req pipeline.Request) (*pipeline.ExecutionState, error)
	calls int
}

func (m *mockQueryService) Run(ctx context.Context, req pipeline.Request) (*pipeline.ExecutionState, error) {
	m.calls++
	if m.runFn != nil {
		return m.runFn(ctx, req)
	}
	s := pipeline.NewExecutionState(req.Query, 10000, 5)
	s.FinalAnswer = "the answer"
	s.Status = pipeline.StatusCompleted
	s.StepCount = 1
	s.QualityScore = 0.9
	s.Consume(pipeline.StagePlanner, 500)
	return s, nil
}

// mockDocumentService implements server.DocumentService for testing
type mockDocumentService struct {
	addFn func(ctx context.Context, texts []string, metadatas []map[string]interface{}) (int, error)
	calls int
}

func (m *mockDocumentService) AddTexts(ctx context.Context, texts []string, metadatas []map[string]interface{}) (int, error) {
	m.calls++
	if m.addFn != nil {
		return m.addFn(ctx, texts, metadatas)
	}
	return len(texts), nil
}

func newTestServer(queries *mockQueryService, documents *mockDocumentService) *server.Server {
	return server.New(queries, documents, config.ServerConfig{})
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&mockQueryService{}, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp server.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != server.Version {
		t.Fatalf("expected version %s, got %s", server.Version, resp.Version)
	}
}

func TestHandleQuery_Success(t *testing.T) {
	queries := &mockQueryService{}
	srv := newTestServer(queries, &mockDocumentService{})

	rec := postJSON(t, srv.Handler(), "/query", server.QueryRequest{Query: "What is Go?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp server.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Fatalf("expected answer, got %q", resp.Answer)
	}
	if resp.Status != string(pipeline.StatusCompleted) {
		t.Fatalf("expected COMPLETED, got %s", resp.Status)
	}
	if resp.TotalTokens != 500 {
		t.Fatalf("expected 500 tokens, got %d", resp.TotalTokens)
	}
	if resp.TokensUsed[pipeline.StagePlanner] != 500 {
		t.Fatalf("expected planner ledger entry, got %v", resp.TokensUsed)
	}
	if resp.StepsExecuted != 1 {
		t.Fatalf("expected 1 step, got %d", resp.StepsExecuted)
	}
}

func TestHandleQuery_EmptyQueryRejectedBeforeService(t *testing.T) {
	queries := &mockQueryService{}
	srv := newTestServer(queries, &mockDocumentService{})

	rec := postJSON(t, srv.Handler(), "/query", server.QueryRequest{Query: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if queries.calls != 0 {
		t.Fatalf("expected no service call, got %d", queries.calls)
	}
}

func TestHandleQuery_NegativeBudgetRejected(t *testing.T) {
	queries := &mockQueryService{}
	srv := newTestServer(queries, &mockDocumentService{})

	rec := postJSON(t, srv.Handler(), "/query", server.QueryRequest{Query: "q", TokenBudget: -5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if queries.calls != 0 {
		t.Fatalf("expected no service call, got %d", queries.calls)
	}
}

func TestHandleQuery_InvalidBody(t *testing.T) {
	srv := newTestServer(&mockQueryService{}, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleQuery_TimeoutMapsToGatewayTimeout(t *testing.T) {
	queries := &mockQueryService{
		runFn: func(ctx context.Context, req pipeline.Request) (*pipeline.ExecutionState, error) {
			return nil, errors.ErrTimeout
		},
	}
	srv := newTestServer(queries, &mockDocumentService{})

	rec := postJSON(t, srv.Handler(), "/query", server.QueryRequest{Query: "q"})
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
}

func TestHandleAddDocuments_Success(t *testing.T) {
	documents := &mockDocumentService{}
	srv := newTestServer(&mockQueryService{}, documents)

	rec := postJSON(t, srv.Handler(), "/documents", server.DocumentsRequest{
		Texts: []string{"doc one", "doc two"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp server.DocumentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected count 2, got %d", resp.Count)
	}
}

func TestHandleAddDocuments_EmptyTextsRejected(t *testing.T) {
	documents := &mockDocumentService{}
	srv := newTestServer(&mockQueryService{}, documents)

	rec := postJSON(t, srv.Handler(), "/documents", server.DocumentsRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if documents.calls != 0 {
		t.Fatalf("expected no service call, got %d", documents.calls)
	}
}

func TestHandleAddDocuments_MetadataMismatchRejected(t *testing.T) {
	documents := &mockDocumentService{}
	srv := newTestServer(&mockQueryService{}, documents)

	rec := postJSON(t, srv.Handler(), "/documents", server.DocumentsRequest{
		Texts:     []string{"one", "two"},
		Metadatas: []map[string]interface{}{{"k": "v"}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if documents.calls != 0 {
		t.Fatalf("expected no service call, got %d", documents.calls)
	}
}

func TestHandleAddDocuments_ServiceError(t *testing.T) {
	documents := &mockDocumentService{
		addFn: func(ctx context.Context, texts []string, metadatas []map[string]interface{}) (int, error) {
			return 0, errors.ErrVectorStoreFailed
		},
	}
	srv := newTestServer(&mockQueryService{}, documents)

	rec := postJSON(t, srv.Handler(), "/documents", server.DocumentsRequest{Texts: []string{"doc"}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
