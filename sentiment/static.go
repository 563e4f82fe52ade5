package sentiment

import (
	"context"
	"strings"
)

// Static 不访问外部服务：按关键词粗略判断，主要用于离线环境和测试。
// Ratings 可按评论原文直接指定结果。
type Static struct {
	Ratings map[string]int
}

func (s *Static) Name() string { return "static" }

var (
	positiveWords = []string{"love", "loved", "great", "amazing", "excellent", "wonderful", "favorite", "enjoyed"}
	negativeWords = []string{"hate", "hated", "boring", "awful", "terrible", "worst", "disappointing", "bad"}
)

func (s *Static) Analyze(_ context.Context, text string) (*Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errInvalid("empty review")
	}
	if r, ok := s.Ratings[text]; ok {
		return &Analysis{Label: labelForRating(r), Score: 1, Rating: r, Keywords: []string{}}, nil
	}

	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}

	label := LabelNeutral
	switch {
	case pos > neg:
		label = LabelPositive
	case neg > pos:
		label = LabelNegative
	}
	score := 0.5
	if total := pos + neg; total > 0 {
		score = float64(max(pos, neg)) / float64(total)
	}
	return &Analysis{Label: label, Score: score, Rating: RatingForLabel(label), Keywords: []string{}}, nil
}

func labelForRating(r int) string {
	switch {
	case r <= 2:
		return LabelNegative
	case r >= 4:
		return LabelPositive
	default:
		return LabelNeutral
	}
}
