package recall

import (
	"context"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/utils"
)

// ParamMaxResultsPerGenre 请求级覆盖单个类型的查询条数。
const ParamMaxResultsPerGenre = "max_results_per_genre"

// GenreSource 对一个类型发起一次目录查询。
type GenreSource struct {
	Client     catalog.Client
	Genre      string
	MaxResults int
}

func (s *GenreSource) Name() string { return "genre:" + s.Genre }

func (s *GenreSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	n := s.MaxResults
	if rctx != nil {
		n = rctx.ParamInt(ParamMaxResultsPerGenre, n)
	}
	books, err := s.Client.SearchBySubject(ctx, s.Genre, n)
	if err != nil {
		return nil, err
	}
	items := make([]*core.Item, 0, len(books))
	for i := range books {
		it := core.NewItem(&books[i])
		it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

// GenreSources 返回按请求偏好类型生成 GenreSource 的函数，用于 Fanout.SourcesFunc。
func GenreSources(client catalog.Client, maxResults int) func(*core.RecommendContext) []Source {
	return func(rctx *core.RecommendContext) []Source {
		if rctx == nil {
			return nil
		}
		out := make([]Source, 0, len(rctx.Genres))
		for _, g := range rctx.Genres {
			out = append(out, &GenreSource{Client: client, Genre: g, MaxResults: maxResults})
		}
		return out
	}
}
