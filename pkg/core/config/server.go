package config

import "time"

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Addr 监听地址
	// 默认: ":8080"
	Addr string `koanf:"addr"`
	// ReadTimeout 请求读取超时
	// 默认: 15s
	ReadTimeout time.Duration `koanf:"read_timeout"`
	// WriteTimeout 响应写入超时
	//
	// 必须覆盖管道执行超时，否则长请求会被服务器提前掐断。
	// 默认: 3m
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// ShutdownTimeout 优雅关闭等待时间
	// 默认: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Validate 验证服务配置
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return ErrAddrRequired
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c ServerConfig) WithDefaults() ServerConfig {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}
