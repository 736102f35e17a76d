// Package errors 定义框架的通用错误类型
package errors

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrContextCanceled 上下文被取消
	ErrContextCanceled = errors.New("context canceled")
)

// LLM 相关错误
var (
	// ErrRateLimited 请求被限速
	ErrRateLimited = errors.New("rate limited")
	// ErrTimeout 请求超时
	ErrTimeout = errors.New("request timeout")
	// ErrInvalidAPIKey API 密钥无效
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrModelNotFound 模型未找到
	ErrModelNotFound = errors.New("model not found")
	// ErrProviderUnavailable 提供商不可用
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidResponse LLM 响应无效
	ErrInvalidResponse = errors.New("invalid LLM response")
)

// 流水线相关错误
var (
	// ErrEmptyQuery 查询为空
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidBudget Token 预算无效
	ErrInvalidBudget = errors.New("invalid token budget")
	// ErrInvalidMaxSteps 最大步数无效
	ErrInvalidMaxSteps = errors.New("invalid max steps")
)

// 检索相关错误
var (
	// ErrEmptyTexts 待摄取文本为空
	ErrEmptyTexts = errors.New("no texts provided")
	// ErrMetadataMismatch 元数据数量与文本不匹配
	ErrMetadataMismatch = errors.New("metadata count does not match texts")
	// ErrEmbeddingFailed 嵌入失败
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrVectorStoreFailed 向量存储失败
	ErrVectorStoreFailed = errors.New("vector store operation failed")
)

// Is 判断错误链中是否包含目标错误
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrProviderUnavailable)
}

// IsFatal 判断错误是否为致命错误（不可恢复）
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrInvalidConfig)
}
