package feature

import (
	"context"
	"strings"

	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/sentiment"
)

// NeutralSentiment 是没有评论时的情感特征值。
const NeutralSentiment = 0.5

// ReviewSentiment 返回评论情感特征：无评论为 0.5，否则为评分 / 5。
// 分析失败时回退到 0.5 并记录日志，不中断请求。
func ReviewSentiment(ctx context.Context, ext sentiment.Extractor, review string) float64 {
	if strings.TrimSpace(review) == "" || ext == nil {
		return NeutralSentiment
	}
	a, err := ext.Analyze(ctx, review)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("extractor", ext.Name()).Msg("sentiment analysis failed, using neutral default")
		return NeutralSentiment
	}
	return analysisScore(ctx, ext.Name(), a)
}

// analysisScore 把分析结果换算为特征值，评分不在 1-5 内时取 0.5。
func analysisScore(ctx context.Context, extractor string, a *sentiment.Analysis) float64 {
	if a == nil {
		return NeutralSentiment
	}
	r := a.Rating
	if r < 1 || r > 5 {
		logging.Ctx(ctx).Warn().Int("rating", r).Str("extractor", extractor).Msg("sentiment rating out of range, using neutral default")
		return NeutralSentiment
	}
	return float64(r) / 5
}
