// Package main is the entry point for the tokengate server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/easyops/tokengate/pkg/core/config"
	"github.com/easyops/tokengate/pkg/core/llm"
	"github.com/easyops/tokengate/pkg/otel"
	"github.com/easyops/tokengate/pkg/pipeline"
	"github.com/easyops/tokengate/pkg/rag"
	"github.com/easyops/tokengate/pkg/server"
)

// Set by goreleaser ldflags.
var (
	version = server.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tokengate",
		Short:         "Budget-gated question answering pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), serveCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tokengate %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := otel.MustInit(cfg.Observability)
	defer func() { _ = obs.Shutdown(context.Background()) }()
	logger := obs.Logger()

	provider, err := buildProvider(cfg.LLM)
	if err != nil {
		return err
	}
	defer func() { _ = provider.Close() }()

	traced := otel.NewTracedProvider(provider,
		otel.WithTracedProviderTracer(obs.Tracer()),
		otel.WithTracedProviderMetrics(obs.Metrics()),
	)

	store, err := rag.NewVectorStore(cfg.Store)
	if err != nil {
		return err
	}

	embedder := rag.NewProviderEmbedder(traced)
	retriever := rag.NewVectorRetriever(store, embedder)
	ingestor := rag.NewIngestor(embedder, store)

	orchestrator, err := pipeline.New(traced, retriever,
		pipeline.WithTokenBudget(cfg.Pipeline.TokenBudget),
		pipeline.WithMaxSteps(cfg.Pipeline.MaxSteps),
		pipeline.WithBudgetThreshold(cfg.Pipeline.BudgetThreshold),
		pipeline.WithQualityThreshold(cfg.Pipeline.QualityThreshold),
		pipeline.WithTimeout(cfg.Pipeline.Timeout),
		pipeline.WithLogger(logger),
		pipeline.WithTracer(obs.Tracer()),
		pipeline.WithMetrics(obs.Metrics()),
	)
	if err != nil {
		return err
	}

	srv := server.New(orchestrator, ingestor, cfg.Server,
		server.WithServerLogger(logger),
		server.WithServerMetrics(obs.Metrics()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildProvider 按配置构建 LLM 提供商，含可选的备用链
func buildProvider(cfg config.LLMConfig) (llm.Provider, error) {
	primary, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Fallback == nil {
		return primary, nil
	}

	fallback, err := newClient(*cfg.Fallback)
	if err != nil {
		return nil, err
	}

	return llm.NewFallbackProvider(primary, []llm.Provider{fallback}), nil
}

// newClient 构建单个 OpenAI 兼容客户端
//
// DeepSeek、Qwen、Ollama、vLLM 均暴露 OpenAI 兼容端点：
// 按 Provider 选默认 BaseURL，显式 base_url 覆盖默认值。
// 本地提供商（Ollama、vLLM）不需要密钥，用占位符满足客户端。
func newClient(cfg config.LLMConfig) (llm.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" && cfg.Provider.Local() {
		apiKey = "local"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cfg.Provider.DefaultBaseURL()
	}

	opts := []llm.Option{
		llm.WithAPIKey(apiKey),
		llm.WithModel(cfg.Model),
		llm.WithTimeout(cfg.Timeout),
		llm.WithMaxRetries(cfg.MaxRetries),
		llm.WithRetryDelay(cfg.RetryDelay),
		llm.WithProviderName(string(cfg.Provider)),
	}
	if baseURL != "" {
		opts = append(opts, llm.WithBaseURL(baseURL))
	}
	if cfg.EmbeddingModel != "" {
		opts = append(opts, llm.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	return llm.NewOpenAI(opts...)
}
