package filter

import (
	"context"

	"github.com/rushteam/bookrank/core"
)

// KnownItemFilter 过滤用户已读或已收藏的物品。
type KnownItemFilter struct{}

func (f *KnownItemFilter) Name() string {
	return "filter.known_item"
}

func (f *KnownItemFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.ID == "" {
		return true, nil
	}
	if rctx == nil {
		return false, nil
	}
	return rctx.KnownIDs.Contains(item.ID), nil
}

// BlockedFilter 过滤运营配置的下架 ID。
type BlockedFilter struct {
	IDs map[string]struct{}
}

func NewBlockedFilter(ids []string) *BlockedFilter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return &BlockedFilter{IDs: set}
}

func (f *BlockedFilter) Name() string {
	return "filter.blocked"
}

func (f *BlockedFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.IDs[item.ID]
	return ok, nil
}
