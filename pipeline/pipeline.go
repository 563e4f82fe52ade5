package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/metrics"
	"github.com/rushteam/bookrank/pkg/tracing"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
// 数据单向流动：画像 -> 候选 -> 去重候选 -> 特征 -> 分数 -> 有序 ID。
type Pipeline struct {
	Nodes []Node
}

// New 按顺序组装 Pipeline，nil Node 会被跳过。
func New(nodes ...Node) *Pipeline {
	p := &Pipeline{Nodes: make([]Node, 0, len(nodes))}
	for _, n := range nodes {
		if n != nil {
			p.Nodes = append(p.Nodes, n)
		}
	}
	return p
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := runNode(ctx, node, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

func runNode(ctx context.Context, node Node, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	ctx, span := tracing.Tracer().Start(ctx, node.Name())
	defer span.End()
	span.SetAttributes(
		attribute.String("node.kind", string(node.Kind())),
		attribute.Int("items.in", len(items)),
	)

	start := time.Now()
	out, err := node.Process(ctx, rctx, items)
	elapsed := time.Since(start)

	metrics.StageDuration.WithLabelValues(node.Name(), string(node.Kind())).Observe(elapsed.Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.StageItems.WithLabelValues(node.Name()).Observe(float64(len(out)))
	span.SetAttributes(attribute.Int("items.out", len(out)))

	logging.Ctx(ctx).Debug().
		Str("node", node.Name()).
		Int("in", len(items)).
		Int("out", len(out)).
		Dur("elapsed", elapsed).
		Msg("pipeline node done")
	return out, nil
}
