package config

import "errors"

// 配置验证相关错误
var (
	// ErrModelRequired 模型名称必填
	ErrModelRequired = errors.New("model name is required")
	// ErrInvalidProvider 提供商不在支持列表中
	ErrInvalidProvider = errors.New("unsupported LLM provider")
	// ErrInvalidTimeout 超时时间无效
	ErrInvalidTimeout = errors.New("invalid timeout value")
	// ErrInvalidMaxRetries 重试次数无效
	ErrInvalidMaxRetries = errors.New("invalid max retries value")
	// ErrInvalidTokenBudget 预算无效
	ErrInvalidTokenBudget = errors.New("token budget must be positive")
	// ErrInvalidMaxSteps 轮数上限无效
	ErrInvalidMaxSteps = errors.New("max steps must be between 1 and 100")
	// ErrInvalidBudgetThreshold 预算阈值无效
	ErrInvalidBudgetThreshold = errors.New("budget threshold must not be negative")
	// ErrInvalidQualityThreshold 质量阈值无效
	ErrInvalidQualityThreshold = errors.New("quality threshold must be between 0 and 1")
	// ErrAddrRequired 监听地址必填
	ErrAddrRequired = errors.New("server address is required")
)
