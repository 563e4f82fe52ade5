package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/logging"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
//
// 合并按召回源顺序拼接（每个源一个槽位），与完成先后无关；
// 单个源失败或超时只贡献 0 条结果，不中断其他源。
// 必须等待全部源返回后才输出。
type Fanout struct {
	// Sources 固定召回源
	Sources []Source
	// SourcesFunc 按请求生成召回源（例如按偏好类型），追加在 Sources 之后
	SourcesFunc func(rctx *core.RecommendContext) []Source

	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) sources(rctx *core.RecommendContext) []Source {
	all := append([]Source(nil), n.Sources...)
	if n.SourcesFunc != nil {
		all = append(all, n.SourcesFunc(rctx)...)
	}
	return all
}

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	sources := n.sources(rctx)
	if len(sources) == 0 {
		return nil, nil
	}

	slots := make([][]*core.Item, len(sources))
	limit := int64(n.MaxConcurrent)
	if limit <= 0 {
		limit = int64(len(sources))
	}
	sem := semaphore.NewWeighted(limit)

	var eg errgroup.Group
	for i, src := range sources {
		eg.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("source", src.Name()).Msg("recall source skipped")
				return nil
			}
			defer sem.Release(1)

			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			start := time.Now()
			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				logging.Ctx(ctx).Warn().Err(err).Str("source", src.Name()).Dur("elapsed", time.Since(start)).Msg("recall source failed")
				return nil
			}
			slots[i] = items
			return nil
		})
	}
	_ = eg.Wait()

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	out := make([]*core.Item, 0, total)
	for _, s := range slots {
		for _, it := range s {
			if it != nil {
				out = append(out, it)
			}
		}
	}
	return out, nil
}
