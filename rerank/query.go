package rerank

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/textnorm"
	"github.com/rushteam/bookrank/pkg/utils"
)

// 搜索请求参数 key。
const (
	ParamQuery      = "query"
	ParamSearchType = "search_type"
)

const maxEditDistance = 2

// Weights 是标题、作者、简介三部分的打分权重。
type Weights struct {
	Title, Author, Description int
}

// 按搜索类型的权重预设，未知类型按 general。
var weightPresets = map[string]Weights{
	"title":   {Title: 3, Author: 1, Description: 2},
	"author":  {Title: 0, Author: 5, Description: 1},
	"isbn":    {Title: 2, Author: 1, Description: 0},
	"general": {Title: 2, Author: 2, Description: 1},
}

// WeightsFor 返回搜索类型对应的权重。
func WeightsFor(searchType string) Weights {
	if w, ok := weightPresets[strings.ToLower(searchType)]; ok {
		return w
	}
	return weightPresets["general"]
}

var (
	collectionTitle = regexp.MustCompile(`\b(complete|collection|box set|companion|omnibus)\b`)

	// 合集、套装类描述
	collectionPhrases = []string{
		"complete collection", "complete series", "box set", "boxed set",
		"omnibus", "companion", "anthology", "includes all", "set of",
		"books 1", "books one", "the entire series", "collection of",
	}
)

// QueryRelevance 计算图书与查询词的词面相关度：
// 标题/作者/简介的精确、包含、编辑距离匹配，加评分奖励，减合集类惩罚。
func QueryRelevance(b *core.Book, query, searchType string) int {
	q := textnorm.Search(query)
	if q == "" || b == nil {
		return 0
	}
	tokens := strings.Fields(q)
	w := WeightsFor(searchType)
	score := 0

	title := textnorm.Search(b.Title)
	if title != "" {
		if title == q {
			score += 6 * w.Title
		} else {
			for _, t := range tokens {
				if strings.Contains(title, t) {
					score += 3 * w.Title
				}
			}
		}
		for _, t := range tokens {
			if levenshtein.ComputeDistance(title, t) <= maxEditDistance {
				score += 2 * w.Title
			}
		}
	}

	for _, a := range b.Authors {
		author := textnorm.Search(a)
		if author == q {
			score += 8 * w.Author
		} else {
			for _, t := range tokens {
				if strings.Contains(author, t) {
					score += 2 * w.Author
				}
			}
		}
		if levenshtein.ComputeDistance(author, q) <= maxEditDistance {
			score += 3 * w.Author
		}
	}

	desc := textnorm.Search(b.Description)
	if desc != "" {
		for _, t := range tokens {
			if strings.Contains(desc, t) {
				score += w.Description
			}
		}
	}

	if b.AverageRating != nil {
		r := math.Min(6, math.Max(0, *b.AverageRating))
		score += int(math.Round(r / 5 * 3))
	}

	if strings.EqualFold(searchType, "title") {
		if collectionTitle.MatchString(title) {
			score -= 5
		}
		if len(strings.Fields(title)) > 8 {
			score -= 2
		}
	}
	for _, p := range collectionPhrases {
		if strings.Contains(title, p) || strings.Contains(desc, p) {
			score -= 3
			break
		}
	}
	return score
}

// QueryNode 按 QueryRelevance 重排搜索结果，查询词与类型从请求参数读取。
// 同分保持目录服务返回的顺序。
type QueryNode struct{}

func (n *QueryNode) Name() string        { return "rerank.query" }
func (n *QueryNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *QueryNode) Process(_ context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if rctx == nil || len(items) == 0 {
		return items, nil
	}
	query, _ := rctx.Params[ParamQuery].(string)
	if strings.TrimSpace(query) == "" {
		return items, nil
	}
	searchType, _ := rctx.Params[ParamSearchType].(string)

	for _, it := range items {
		s := QueryRelevance(it.Book, query, searchType)
		it.Score = float64(s)
		it.PutLabel("search_score", utils.Label{Value: strconv.Itoa(s), Source: "rerank"})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}
