// Package sentiment 对用户评论做情感分析，输出 1-5 的评分、连续情感分和关键词。
package sentiment

import (
	"context"
	"strings"

	"github.com/rushteam/bookrank/core"
)

// 情感标签。
const (
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
	LabelPositive = "POSITIVE"
)

// Analysis 是一条评论的分析结果。
type Analysis struct {
	Label    string   `json:"sentiment"`
	Score    float64  `json:"sentiment_score"`
	Rating   int      `json:"rating"`
	Keywords []string `json:"keywords,omitempty"`
}

// Extractor 是情感分析的领域接口，实现需并发安全。
type Extractor interface {
	Name() string
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// Prefetcher 由带缓存的 Extractor 实现：批量取回已缓存的分析结果。
type Prefetcher interface {
	Prefetch(ctx context.Context, texts []string) map[string]*Analysis
}

var labelRatings = map[string]int{
	LabelNegative: 1,
	LabelNeutral:  3,
	LabelPositive: 5,
}

// RatingForLabel 把标签映射为评分，大小写不敏感；未知标签按中性 3 处理。
func RatingForLabel(label string) int {
	if r, ok := labelRatings[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return r
	}
	return 3
}

// Empty 是空评论的结果：中性、分数 0、评分 0。
func Empty() *Analysis {
	return &Analysis{Label: strings.ToLower(LabelNeutral), Keywords: []string{}}
}

func errInvalid(msg string) error {
	return core.NewDomainError(core.ModuleSentiment, core.ErrorCodeInvalidInput, msg)
}

func errUnavailable(msg string, err error) error {
	return core.WrapDomainError(core.ModuleSentiment, core.ErrorCodeUnavailable, msg, err)
}

// splitKeywords 把 "a, b ,c" 拆成 [a b c]。
func splitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
