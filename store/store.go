// Package store 提供 core.Store 的实现：内存（测试/单实例）与 Redis（多实例共享缓存）。
//
//	var s core.Store = store.NewMemoryStore()
//	var s core.Store, err = store.NewRedisStore(store.RedisConfig{Addr: "localhost:6379"})
package store

import (
	"fmt"

	"github.com/rushteam/bookrank/core"
)

// Config 选择缓存后端。
type Config struct {
	// Backend: memory / redis / none
	Backend string      `yaml:"backend" validate:"omitempty,oneof=memory redis none"`
	Redis   RedisConfig `yaml:"redis"`
}

// New 根据配置创建 Store；Backend 为 none 或空时返回 nil。
func New(cfg Config) (core.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		s, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
