// Package dsl 用 CEL（Common Expression Language）实现候选规则表达式。
//
// 可用变量：
//   - book：图书字段，id / title / authors / categories / page_count / rating /
//     has_rating / description / publisher / language / maturity_rating
//   - item：id / score / features
//   - label：item 的 Label，label.recall_source.value
//   - genres：请求生效的偏好类型
//
// 示例：
//   - `book.maturity_rating == "MATURE"`
//   - `book.page_count > 0 && book.page_count < 80`
//   - `book.categories.exists(c, c.lowerAscii() == "poetry")`
//   - `"genre:mystery" in label.recall_source.value.split("|")`
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/rushteam/bookrank/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("book", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("label", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("genres", cel.ListType(cel.StringType)),
			ext.Strings(),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可并发复用。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，要求返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Eval 对单个 item 求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
	}
	features := make(map[string]any, len(item.Features))
	for k, v := range item.Features {
		features[k] = v
	}

	var genres []string
	if rctx != nil {
		genres = rctx.Genres
	}
	if genres == nil {
		genres = []string{}
	}

	return map[string]any{
		"book":   bookMap(item.Book),
		"item":   map[string]any{"id": item.ID, "score": item.Score, "features": features},
		"label":  labels,
		"genres": genres,
	}
}

func bookMap(b *core.Book) map[string]any {
	if b == nil {
		b = &core.Book{}
	}
	return map[string]any{
		"id":              b.ID,
		"title":           b.Title,
		"authors":         orEmpty(b.Authors),
		"categories":      orEmpty(b.Categories),
		"page_count":      int64(b.PageCount),
		"rating":          b.Rating(),
		"has_rating":      b.AverageRating != nil,
		"description":     b.Description,
		"publisher":       b.Publisher,
		"language":        b.Language,
		"maturity_rating": b.MaturityRating,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
