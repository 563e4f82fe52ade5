package recall

import (
	"context"

	"github.com/rushteam/bookrank/core"
)

// Source 表示一个可复用的召回源，例如单个类型的目录查询。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Mode 是候选来源的显式选择，由调用方给出。
type Mode int

const (
	// ModeLive 按偏好类型实时查询目录服务（零值）
	ModeLive Mode = iota
	// ModeSupplied 使用调用方提供的候选列表，不访问目录服务
	ModeSupplied
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeSupplied:
		return "supplied"
	default:
		return "unknown"
	}
}

// ParseMode 解析 "live" / "supplied"，空串视为 live。
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "live":
		return ModeLive, true
	case "supplied":
		return ModeSupplied, true
	default:
		return ModeLive, false
	}
}
