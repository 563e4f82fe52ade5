// Package rerank 对排序结果做截断与重排。
package rerank

import (
	"context"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
)

// ParamLimit 请求级截断数量，覆盖 TopNNode.N。
const ParamLimit = "limit"

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
//
//	pipeline.New(
//	    rankNode,                // 排序
//	    &rerank.TopNNode{N: 40}, // 截取 Top 40
//	)
type TopNNode struct {
	// N 要保留的物品数量，<= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil {
		limit = rctx.ParamInt(ParamLimit, limit)
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
