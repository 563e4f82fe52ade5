package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrank/pkg/logging"
)

// ValidateIDs 逐个读取条目并做有效性判定；读取失败视为无效。
// 用于在写入书单前确认调用方给出的 ID 是否仍可用。
func ValidateIDs(ctx context.Context, client Client, ids []string, opts ValidateOptions, maxConcurrent int) map[string]bool {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	out := make(map[string]bool, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, id := range ids {
		mu.Lock()
		_, seen := out[id]
		if !seen {
			out[id] = false
		}
		mu.Unlock()
		if seen {
			continue
		}

		g.Go(func() error {
			v, err := client.GetVolume(gctx, id)
			if err != nil {
				logging.Ctx(ctx).Debug().Err(err).Str("id", id).Msg("validate id: fetch failed")
				return nil
			}
			ok, reason := Validate(v, opts)
			if !ok {
				logging.Ctx(ctx).Debug().Str("id", id).Str("reason", reason).Msg("validate id: rejected")
			}
			mu.Lock()
			out[id] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
