package filter

import (
	"context"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/dsl"
)

// ExprFilter 用 CEL 表达式排除候选，表达式为 true 时过滤。
// 表达式在构造时编译一次；求值出错时保留该物品。
//
//	f, err := filter.NewExprFilter(`book.maturity_rating == "MATURE"`)
type ExprFilter struct {
	prg *dsl.Program
}

func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.prg.Eval(item, rctx)
}
