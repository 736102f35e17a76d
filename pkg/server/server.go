// Package server 提供 HTTP API 服务
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/easyops/tokengate/pkg/core/config"
	"github.com/easyops/tokengate/pkg/otel"
	"github.com/easyops/tokengate/pkg/pipeline"
)

// Version 服务版本号
const Version = "1.0.0"

// QueryService 问答执行服务
type QueryService interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.ExecutionState, error)
}

// DocumentService 文档入库服务
type DocumentService interface {
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]interface{}) (int, error)
}

// Server HTTP API 服务
type Server struct {
	queries   QueryService
	documents DocumentService
	config    config.ServerConfig
	logger    otel.Logger
	metrics   otel.Metrics

	httpServer *http.Server
}

// ServerOption Server 配置选项
type ServerOption func(*Server)

// WithServerLogger 设置日志器
func WithServerLogger(logger otel.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerMetrics 设置指标收集器
func WithServerMetrics(metrics otel.Metrics) ServerOption {
	return func(s *Server) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// New 创建 HTTP API 服务
func New(queries QueryService, documents DocumentService, cfg config.ServerConfig, opts ...ServerOption) *Server {
	s := &Server{
		queries:   queries,
		documents: documents,
		config:    cfg.WithDefaults(),
		logger:    otel.NewNoopLogger(),
		metrics:   otel.NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s
}

// buildRouter 构建路由
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleQuery)
	r.Post("/documents", s.handleAddDocuments)

	return r
}

// instrument 记录每个请求的计数与耗时
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		durationMs := float64(time.Since(startTime).Milliseconds())
		s.metrics.Counter(otel.MetricHTTPRequests).Add(r.Context(), 1,
			otel.NewAttr("method", r.Method),
			otel.NewAttr("path", r.URL.Path),
			otel.NewAttr("status", ww.Status()),
		)
		s.metrics.Histogram(otel.MetricHTTPRequestDuration).Record(r.Context(), durationMs,
			otel.NewAttr("method", r.Method),
			otel.NewAttr("path", r.URL.Path),
		)
	})
}

// Handler 返回路由处理器（用于测试）
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start 启动服务并阻塞直到关闭
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.config.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
