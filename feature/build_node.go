package feature

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/utils"
	"github.com/rushteam/bookrank/sentiment"
)

// BuildNode 是特征 Node：为每个候选追加六列特征。
//
// 已读/收藏文本每个请求只向量化一次；带评论的候选并发调用情感分析，
// 并发数由 SentimentConcurrency 控制。
type BuildNode struct {
	Vectorizer *Vectorizer
	Extractor  sentiment.Extractor

	// SentimentConcurrency 情感分析并发上限，<=0 时为 4
	SentimentConcurrency int
}

func (n *BuildNode) Name() string        { return "feature.build" }
func (n *BuildNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *BuildNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	profile := rctx.Profile
	if profile == nil {
		profile = &core.UserProfile{}
	}

	readVecs := n.vectorizeAll(profile.Read)
	savedVecs := n.vectorizeAll(profile.Saved)

	for _, it := range items {
		b := it.Book
		if b == nil {
			b = &core.Book{ID: it.ID}
			it.Book = b
		}
		it.SetFeature(GenreSimilarity, JaccardGenres(rctx.Genres, b.Categories))
		it.SetFeature(NormalizedRating, RatingScore(b))
		it.SetFeature(NumAuthors, AuthorCount(b))

		v := n.transform(b.Text())
		it.SetFeature(SimilarityToRead, MaxSimilarity(v, readVecs))
		it.SetFeature(SimilarityToSaved, MaxSimilarity(v, savedVecs))
	}

	n.sentiments(ctx, items)
	return items, nil
}

// sentiments 为带评论的候选并发计算情感特征；无评论的直接取中性值。
func (n *BuildNode) sentiments(ctx context.Context, items []*core.Item) {
	limit := n.SentimentConcurrency
	if limit <= 0 {
		limit = 4
	}
	results := make([]float64, len(items))
	cached := n.prefetch(ctx, items)

	var g errgroup.Group
	g.SetLimit(limit)
	for i, it := range items {
		if !it.Book.HasReview() {
			results[i] = NeutralSentiment
			continue
		}
		if a, ok := cached[it.Book.Review]; ok {
			results[i] = analysisScore(ctx, n.Extractor.Name(), a)
			continue
		}
		g.Go(func() error {
			results[i] = ReviewSentiment(ctx, n.Extractor, it.Book.Review)
			return nil
		})
	}
	_ = g.Wait()

	for i, it := range items {
		it.SetFeature(SentimentRating, results[i])
		if it.Book.HasReview() {
			it.PutLabel("sentiment", utils.Label{
				Value:  strconv.FormatFloat(results[i], 'f', 2, 64),
				Source: "feature",
			})
		}
	}
}

// prefetch 在 Extractor 带缓存时批量取回已分析过的评论。
func (n *BuildNode) prefetch(ctx context.Context, items []*core.Item) map[string]*sentiment.Analysis {
	p, ok := n.Extractor.(sentiment.Prefetcher)
	if !ok {
		return nil
	}
	texts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Book.HasReview() {
			texts = append(texts, it.Book.Review)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	return p.Prefetch(ctx, texts)
}

func (n *BuildNode) transform(text string) SparseVector {
	if n.Vectorizer == nil {
		return SparseVector{}
	}
	return n.Vectorizer.Transform(text)
}

func (n *BuildNode) vectorizeAll(books []core.Book) []SparseVector {
	out := make([]SparseVector, 0, len(books))
	for i := range books {
		out = append(out, n.transform(books[i].Text()))
	}
	return out
}
