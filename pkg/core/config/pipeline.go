package config

import "time"

// PipelineConfig 执行引擎配置
type PipelineConfig struct {
	// TokenBudget 请求未指定时的默认总预算
	// 默认: 10000
	TokenBudget int `koanf:"token_budget"`
	// MaxSteps 请求未指定时的默认轮数上限
	// 默认: 5, 范围: [1, 100]
	MaxSteps int `koanf:"max_steps"`
	// BudgetThreshold 触发强制压缩的剩余预算阈值
	// 默认: 500
	BudgetThreshold int `koanf:"budget_threshold"`
	// QualityThreshold 触发提前定稿的质量阈值
	// 默认: 0.85, 范围: [0, 1]
	QualityThreshold float64 `koanf:"quality_threshold"`
	// Timeout 单次请求的执行超时
	// 默认: 2m
	Timeout time.Duration `koanf:"timeout"`
}

// Validate 验证执行引擎配置
func (c *PipelineConfig) Validate() error {
	if c.TokenBudget < 1 {
		return ErrInvalidTokenBudget
	}
	if c.MaxSteps < 1 || c.MaxSteps > 100 {
		return ErrInvalidMaxSteps
	}
	if c.BudgetThreshold < 0 {
		return ErrInvalidBudgetThreshold
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 1 {
		return ErrInvalidQualityThreshold
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.TokenBudget == 0 {
		c.TokenBudget = 10000
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 5
	}
	if c.BudgetThreshold == 0 {
		c.BudgetThreshold = 500
	}
	if c.QualityThreshold == 0 {
		c.QualityThreshold = 0.85
	}
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Minute
	}
	return c
}
