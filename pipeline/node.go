package pipeline

import (
	"context"

	"github.com/rushteam/bookrank/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：按类型查询目录服务生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除已知物品、重复 ID、规则命中项
	KindFeature     Kind = "feature"     // 特征阶段：为候选追加特征列
	KindRank        Kind = "rank"        // 排序阶段：模型打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：截断 / 搜索相关度
	KindPostProcess Kind = "postprocess" // 后处理阶段
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Recall 生成、Filter 截断、ReRank 重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]interface{}) (Node, error)
