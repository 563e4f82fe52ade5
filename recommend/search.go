package recommend

import (
	"context"
	"strings"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/rerank"
)

// maxSearchResults 目录服务单页上限。
const maxSearchResults = 40

// SearchRequest 是一次图书搜索。
type SearchRequest struct {
	Query string
	// Type: general / title / author / isbn，空值按 general 处理
	Type  string
	Limit int
}

// Search 查询目录并按与查询串的相关度重排，结果按相关度降序。
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]core.Book, error) {
	if s.catalog == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotSupported, "catalog is not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "query is required")
	}
	searchType := strings.ToLower(strings.TrimSpace(req.Type))
	if searchType == "" {
		searchType = catalog.SearchGeneral
	}
	limit := req.Limit
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	books, err := s.catalog.Search(ctx, catalog.SearchQuery(searchType, query), maxSearchResults)
	if err != nil {
		return nil, err
	}
	items := make([]*core.Item, 0, len(books))
	for i := range books {
		items = append(items, core.NewItem(&books[i]))
	}

	rctx := core.NewRecommendContext("", nil)
	rctx.Params[rerank.ParamQuery] = query
	rctx.Params[rerank.ParamSearchType] = searchType
	rctx.Params[rerank.ParamLimit] = limit

	p := pipeline.New(&rerank.QueryNode{}, &rerank.TopNNode{N: limit})
	items, err = p.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]core.Book, 0, len(items))
	for _, it := range items {
		out = append(out, *it.Book)
	}
	return out, nil
}

// ValidateIDs 检查一组图书 ID 在目录中是否仍然有效。
func (s *Service) ValidateIDs(ctx context.Context, ids []string, opts catalog.ValidateOptions) (map[string]bool, error) {
	if s.catalog == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotSupported, "catalog is not configured")
	}
	return catalog.ValidateIDs(ctx, s.catalog, ids, opts, s.opts.MaxConcurrent), nil
}
