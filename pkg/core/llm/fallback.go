package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FallbackProvider 带备用降级的提供商
//
// 按顺序尝试主提供商与备用提供商，失败的提供商在一段时间内
// 被标记为不健康并跳过。
type FallbackProvider struct {
	primary   Provider
	fallbacks []Provider

	mu            sync.RWMutex
	healthStatus  map[Provider]bool
	lastCheck     map[Provider]time.Time
	checkInterval time.Duration
}

// FallbackOption 备用提供商选项
type FallbackOption func(*FallbackProvider)

// WithFallbackCheckInterval 设置健康检查间隔
func WithFallbackCheckInterval(interval time.Duration) FallbackOption {
	return func(f *FallbackProvider) {
		f.checkInterval = interval
	}
}

// NewFallbackProvider 创建带备用的提供商
func NewFallbackProvider(primary Provider, fallbacks []Provider, opts ...FallbackOption) *FallbackProvider {
	f := &FallbackProvider{
		primary:       primary,
		fallbacks:     fallbacks,
		healthStatus:  make(map[Provider]bool),
		lastCheck:     make(map[Provider]time.Time),
		checkInterval: 30 * time.Second,
	}

	f.healthStatus[primary] = true
	for _, fb := range fallbacks {
		f.healthStatus[fb] = true
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Generate 生成响应
func (f *FallbackProvider) Generate(ctx context.Context, req Request) (Response, error) {
	providers := f.getAvailableProviders()

	var lastErr error
	for _, provider := range providers {
		resp, err := provider.Generate(ctx, req)
		if err == nil {
			f.markHealthy(provider)
			return resp, nil
		}

		lastErr = err
		f.markUnhealthy(provider)
		slog.Warn("provider failed, trying fallback",
			"provider", provider.Name(),
			"error", err,
		)
	}

	return Response{}, fmt.Errorf("all providers failed, last error: %w", lastErr)
}

// Embed 生成文本嵌入向量
func (f *FallbackProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	providers := f.getAvailableProviders()

	var lastErr error
	for _, provider := range providers {
		vectors, err := provider.Embed(ctx, texts)
		if err == nil {
			f.markHealthy(provider)
			return vectors, nil
		}

		lastErr = err
		f.markUnhealthy(provider)
	}

	return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
}

// Name 返回提供商名称
func (f *FallbackProvider) Name() string {
	return "fallback(" + f.primary.Name() + ")"
}

// Model 返回当前模型名称
func (f *FallbackProvider) Model() string {
	return f.primary.Model()
}

// Close 关闭所有客户端连接
func (f *FallbackProvider) Close() error {
	var firstErr error
	if err := f.primary.Close(); err != nil {
		firstErr = err
	}
	for _, fb := range f.fallbacks {
		if err := fb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// getAvailableProviders 返回当前可用的提供商列表
//
// 不健康的提供商在 checkInterval 之后重新进入候选。
func (f *FallbackProvider) getAvailableProviders() []Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()

	all := append([]Provider{f.primary}, f.fallbacks...)
	available := make([]Provider, 0, len(all))
	now := time.Now()

	for _, p := range all {
		if f.healthStatus[p] || now.Sub(f.lastCheck[p]) >= f.checkInterval {
			available = append(available, p)
		}
	}

	// 全部不健康时仍然尝试全部，避免空转
	if len(available) == 0 {
		return all
	}

	return available
}

func (f *FallbackProvider) markHealthy(p Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthStatus[p] = true
	f.lastCheck[p] = time.Now()
}

func (f *FallbackProvider) markUnhealthy(p Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthStatus[p] = false
	f.lastCheck[p] = time.Now()
}

var _ Provider = (*FallbackProvider)(nil)
