package core

import "time"

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultMaxResultsPerGenre 返回单个类型查询的最大结果数
	DefaultMaxResultsPerGenre() int

	// DefaultMaxInferredGenres 返回推断偏好类型的上限
	DefaultMaxInferredGenres() int

	// DefaultMaxConcurrent 返回按类型并发查询的上限
	DefaultMaxConcurrent() int

	// DefaultTimeout 返回单个类型查询的超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultMaxResultsPerGenre() int {
	return 20
}

func (c *DefaultRecallConfig) DefaultMaxInferredGenres() int {
	return 5
}

func (c *DefaultRecallConfig) DefaultMaxConcurrent() int {
	return 4
}

func (c *DefaultRecallConfig) DefaultTimeout() time.Duration {
	return 5 * time.Second
}

// DefaultLimit 是调用方未给出数量时返回的推荐条数（目录服务单页上限）。
const DefaultLimit = 40
