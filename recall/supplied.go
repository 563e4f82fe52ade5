package recall

import (
	"context"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/utils"
)

// Supplied 是调用方直接给出候选列表时使用的召回 Node。
// 列表为空时输出为空，不会回退到实时查询。
type Supplied struct {
	Books []core.Book
}

func NewSupplied(books []core.Book) *Supplied {
	return &Supplied{Books: books}
}

func (n *Supplied) Name() string        { return "recall.supplied" }
func (n *Supplied) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Supplied) Process(_ context.Context, _ *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(n.Books))
	for i := range n.Books {
		b := n.Books[i].Clone()
		if b.ID == "" {
			continue
		}
		it := core.NewItem(b)
		it.PutLabel("recall_source", utils.Label{Value: "supplied", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
