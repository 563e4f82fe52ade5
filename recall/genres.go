package recall

import (
	"sort"
	"strings"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/textnorm"
	"github.com/rushteam/bookrank/pkg/utils"
)

// DefaultMaxInferredGenres 推断类型的默认上限。
const DefaultMaxInferredGenres = 5

// InferGenres 从已读书目的类型中推断偏好：
// 归一化（trim + 小写）后按出现次数降序，次数相同按首次出现顺序，最多 limit 个。
func InferGenres(read []core.Book, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxInferredGenres
	}
	counts := make(map[string]int)
	var order []string
	for _, b := range read {
		for _, c := range b.Categories {
			g := textnorm.Fold(c)
			if g == "" {
				continue
			}
			if _, ok := counts[g]; !ok {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// ResolveGenres 确定请求生效的偏好类型：调用方给出的非空集合优先，否则从已读推断。
// 结果写入 rctx.Genres，来源记为 genre_source label。
func ResolveGenres(rctx *core.RecommendContext, maxInferred int) []string {
	var genres []string
	source := "profile"
	if rctx.Profile != nil {
		genres = dedupGenres(rctx.Profile.FavoriteGenres)
	}
	if len(genres) == 0 {
		source = "inferred"
		if rctx.Profile != nil {
			genres = InferGenres(rctx.Profile.Read, maxInferred)
		}
	}
	rctx.Genres = genres
	rctx.PutLabel("genre_source", utils.Label{Value: source, Source: "recall"})
	return genres
}

// dedupGenres 去掉空白和重复（大小写不敏感），保留调用方原始顺序。
func dedupGenres(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, g := range in {
		f := textnorm.Fold(g)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, strings.TrimSpace(g))
	}
	return out
}
