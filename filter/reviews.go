package filter

import (
	"context"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/utils"
)

// AttachReviews 把用户在已读/收藏中写过的评论挂到同 ID 的候选上。
// 候选的评论只来自画像：画像中没有同 ID 评论时清空候选自带的评论。
//
// 注意：实时召回的候选已剔除已知 ID，正常情况下不会命中；
// 该 Node 主要服务于调用方提供候选列表的场景。
type AttachReviews struct{}

func (n *AttachReviews) Name() string        { return "filter.attach_reviews" }
func (n *AttachReviews) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *AttachReviews) Process(_ context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	var reviews map[string]string
	if rctx != nil {
		reviews = rctx.Reviews
	}
	for _, it := range items {
		if it == nil || it.Book == nil {
			continue
		}
		review, ok := reviews[it.ID]
		it.Book.Review = review
		if ok {
			it.PutLabel("review", utils.Label{Value: "profile", Source: "filter"})
		}
	}
	return items, nil
}
