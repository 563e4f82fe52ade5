package filter

import (
	"context"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
)

// DedupNode 按 ID 去重：保留第一次出现的候选（即类型顺序靠前的那一条），
// 后续重复项的 Label 合并到保留项上。
type DedupNode struct{}

func (n *DedupNode) Name() string        { return "filter.dedup" }
func (n *DedupNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *DedupNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	seen := make(map[string]*core.Item, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.ID == "" {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}
