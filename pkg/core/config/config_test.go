package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/easyops/tokengate/pkg/core/config"
	"github.com/easyops/tokengate/pkg/rag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LLM.Provider != config.ProviderOpenAI {
		t.Fatalf("expected openai provider, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("expected default model, got %s", cfg.LLM.Model)
	}
	if cfg.Pipeline.TokenBudget != 10000 {
		t.Fatalf("expected default budget 10000, got %d", cfg.Pipeline.TokenBudget)
	}
	if cfg.Pipeline.MaxSteps != 5 {
		t.Fatalf("expected default max steps 5, got %d", cfg.Pipeline.MaxSteps)
	}
	if cfg.Pipeline.QualityThreshold != 0.85 {
		t.Fatalf("expected default quality threshold, got %f", cfg.Pipeline.QualityThreshold)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %s", cfg.Server.Addr)
	}
	if cfg.Store.Type != rag.StoreTypeMemory {
		t.Fatalf("expected memory store default, got %s", cfg.Store.Type)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOKENGATE_LLM_MODEL", "deepseek-chat")
	t.Setenv("TOKENGATE_LLM_PROVIDER", "deepseek")
	t.Setenv("TOKENGATE_SERVER_ADDR", ":9090")
	t.Setenv("TOKENGATE_PIPELINE_TIMEOUT", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LLM.Model != "deepseek-chat" {
		t.Fatalf("expected env model, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.Provider != config.ProviderDeepSeek {
		t.Fatalf("expected deepseek provider, got %s", cfg.LLM.Provider)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected env addr, got %s", cfg.Server.Addr)
	}
	if cfg.Pipeline.Timeout != 30*time.Second {
		t.Fatalf("expected env timeout, got %s", cfg.Pipeline.Timeout)
	}
}

func TestProvider_IsValid(t *testing.T) {
	valid := []config.Provider{
		config.ProviderOpenAI,
		config.ProviderDeepSeek,
		config.ProviderQwen,
		config.ProviderOllama,
		config.ProviderVLLM,
	}
	for _, p := range valid {
		if !p.IsValid() {
			t.Fatalf("expected %s to be valid", p)
		}
	}
	if config.Provider("gemini").IsValid() {
		t.Fatal("expected unknown provider to be invalid")
	}
}

func TestProvider_DefaultBaseURL(t *testing.T) {
	tests := []struct {
		provider config.Provider
		want     string
	}{
		// OpenAI uses the client library's built-in endpoint
		{config.ProviderOpenAI, ""},
		{config.ProviderDeepSeek, "https://api.deepseek.com/v1"},
		{config.ProviderQwen, "https://dashscope.aliyuncs.com/compatible-mode/v1"},
		{config.ProviderOllama, "http://localhost:11434/v1"},
		{config.ProviderVLLM, "http://localhost:8000/v1"},
	}

	for _, tt := range tests {
		if got := tt.provider.DefaultBaseURL(); got != tt.want {
			t.Fatalf("provider %s: expected base URL %q, got %q", tt.provider, tt.want, got)
		}
	}
}

func TestProvider_Local(t *testing.T) {
	if !config.ProviderOllama.Local() || !config.ProviderVLLM.Local() {
		t.Fatal("expected ollama and vllm to be local providers")
	}
	if config.ProviderOpenAI.Local() || config.ProviderDeepSeek.Local() {
		t.Fatal("expected hosted providers to not be local")
	}
}

func TestLLMConfig_Validate(t *testing.T) {
	cfg := config.LLMConfig{}
	if err := cfg.Validate(); !errors.Is(err, config.ErrModelRequired) {
		t.Fatalf("expected ErrModelRequired, got %v", err)
	}

	cfg = config.LLMConfig{Model: "gpt-4o", Timeout: -time.Second}
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidTimeout) {
		t.Fatalf("expected ErrInvalidTimeout, got %v", err)
	}

	cfg = config.LLMConfig{Model: "gpt-4o", MaxRetries: -1}
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidMaxRetries) {
		t.Fatalf("expected ErrInvalidMaxRetries, got %v", err)
	}

	cfg = config.LLMConfig{Provider: "gemini", Model: "gpt-4o"}
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidProvider) {
		t.Fatalf("expected ErrInvalidProvider, got %v", err)
	}

	// Fallback configs are validated recursively
	cfg = config.LLMConfig{
		Model:    "gpt-4o",
		Fallback: &config.LLMConfig{},
	}
	if err := cfg.Validate(); !errors.Is(err, config.ErrModelRequired) {
		t.Fatalf("expected fallback validation error, got %v", err)
	}
}

func TestLLMConfig_ValidateCapsExcessiveValues(t *testing.T) {
	cfg := config.LLMConfig{
		Model:      "gpt-4o",
		Timeout:    time.Hour,
		MaxRetries: 50,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Fatalf("expected timeout capped at 5m, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries != 10 {
		t.Fatalf("expected retries capped at 10, got %d", cfg.MaxRetries)
	}
}

func TestPipelineConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PipelineConfig
		wantErr error
	}{
		{
			name:    "zero budget",
			cfg:     config.PipelineConfig{MaxSteps: 5, QualityThreshold: 0.85},
			wantErr: config.ErrInvalidTokenBudget,
		},
		{
			name:    "steps over limit",
			cfg:     config.PipelineConfig{TokenBudget: 10000, MaxSteps: 101, QualityThreshold: 0.85},
			wantErr: config.ErrInvalidMaxSteps,
		},
		{
			name:    "negative budget threshold",
			cfg:     config.PipelineConfig{TokenBudget: 10000, MaxSteps: 5, BudgetThreshold: -1, QualityThreshold: 0.85},
			wantErr: config.ErrInvalidBudgetThreshold,
		},
		{
			name:    "quality above one",
			cfg:     config.PipelineConfig{TokenBudget: 10000, MaxSteps: 5, QualityThreshold: 1.5},
			wantErr: config.ErrInvalidQualityThreshold,
		},
		{
			name: "valid",
			cfg:  config.PipelineConfig{TokenBudget: 10000, MaxSteps: 5, QualityThreshold: 0.85},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := config.ServerConfig{}
	if err := cfg.Validate(); !errors.Is(err, config.ErrAddrRequired) {
		t.Fatalf("expected ErrAddrRequired, got %v", err)
	}

	cfg = config.ServerConfig{Addr: ":8080", ReadTimeout: -time.Second}
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidTimeout) {
		t.Fatalf("expected ErrInvalidTimeout, got %v", err)
	}

	cfg = config.ServerConfig{}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
