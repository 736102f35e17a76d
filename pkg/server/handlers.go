package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/easyops/tokengate/pkg/core/errors"
	"github.com/easyops/tokengate/pkg/pipeline"
)

// QueryRequest 问答请求体
type QueryRequest struct {
	Query       string `json:"query"`
	TokenBudget int    `json:"token_budget,omitempty"`
	MaxSteps    int    `json:"max_steps,omitempty"`
}

// QueryResponse 问答响应体
type QueryResponse struct {
	Answer        string         `json:"answer"`
	Status        string         `json:"status"`
	TokensUsed    map[string]int `json:"tokens_used"`
	TotalTokens   int            `json:"total_tokens"`
	StepsExecuted int            `json:"steps_executed"`
	QualityScore  float64        `json:"quality_score"`
}

// DocumentsRequest 文档入库请求体
type DocumentsRequest struct {
	Texts     []string                 `json:"texts"`
	Metadatas []map[string]interface{} `json:"metadatas,omitempty"`
}

// DocumentsResponse 文档入库响应体
type DocumentsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// HealthResponse 健康检查响应体
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleQuery 处理问答请求
//
// 输入校验失败返回 400，不触发任何外部调用。执行引擎总是
// 产出终止态，内部阶段失败不会映射为 5xx。
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	if req.TokenBudget < 0 {
		writeError(w, http.StatusBadRequest, "token_budget must not be negative")
		return
	}
	if req.MaxSteps < 0 {
		writeError(w, http.StatusBadRequest, "max_steps must not be negative")
		return
	}

	state, err := s.queries.Run(r.Context(), pipeline.Request{
		Query:       req.Query,
		TokenBudget: req.TokenBudget,
		MaxSteps:    req.MaxSteps,
	})
	if err != nil {
		s.logger.Error("query execution failed", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:        state.FinalAnswer,
		Status:        string(state.Status),
		TokensUsed:    state.TokensUsed,
		TotalTokens:   state.TotalTokens(),
		StepsExecuted: state.StepCount,
		QualityScore:  state.QualityScore,
	})
}

// handleAddDocuments 处理文档入库请求
func (s *Server) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	var req DocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if req.Metadatas != nil && len(req.Metadatas) != len(req.Texts) {
		writeError(w, http.StatusBadRequest, "metadatas length must match texts length")
		return
	}

	count, err := s.documents.AddTexts(r.Context(), req.Texts, req.Metadatas)
	if err != nil {
		s.logger.Error("document ingestion failed", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DocumentsResponse{
		Message: "documents added",
		Count:   count,
	})
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// statusForError 将领域错误映射为 HTTP 状态码
func statusForError(err error) int {
	switch {
	case errors.Is(err, errors.ErrEmptyQuery),
		errors.Is(err, errors.ErrInvalidBudget),
		errors.Is(err, errors.ErrInvalidMaxSteps),
		errors.Is(err, errors.ErrEmptyTexts),
		errors.Is(err, errors.ErrMetadataMismatch):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrTimeout),
		errors.Is(err, errors.ErrContextCanceled):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON 写出 JSON 响应
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError 写出错误响应
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
