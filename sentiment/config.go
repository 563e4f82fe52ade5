package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/bookrank/core"
)

// Config 情感分析配置。
type Config struct {
	// Provider: gemini / http / static，默认 static
	Provider string `yaml:"provider" validate:"omitempty,oneof=gemini http static"`

	// Model Gemini 模型名
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key" validate:"required_if=Provider gemini"`

	// Endpoint / Token 用于 http 分类服务
	Endpoint string `yaml:"endpoint" validate:"required_if=Provider http"`
	Token    string `yaml:"token"`

	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL 结果缓存秒数，0 表示不缓存
	CacheTTL int `yaml:"cache_ttl" validate:"gte=0"`
}

// New 按配置创建 Extractor；cache 非空且 CacheTTL > 0 时包一层缓存。
func New(ctx context.Context, cfg Config, cache core.Store) (Extractor, error) {
	var ext Extractor
	switch cfg.Provider {
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		ext = NewGeminiExtractor(client, cfg.Model, cfg.Timeout)
	case "http":
		ext = NewHTTPExtractor(cfg.Endpoint, cfg.Token, cfg.Timeout)
	case "", "static":
		ext = &Static{}
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Provider)
	}
	if cache != nil && cfg.CacheTTL > 0 {
		ext = NewCached(ext, cache, cfg.CacheTTL)
	}
	return ext, nil
}
