// Package recommend 编排完整的推荐链路：
// 确定偏好类型 -> 候选（实时查询或调用方提供）-> 过滤已知与重复 -> 挂评论 ->
// 规则过滤 -> 构建特征 -> 模型排序 -> 截断，输出有序 ID。
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/feature"
	"github.com/rushteam/bookrank/filter"
	"github.com/rushteam/bookrank/model"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/rank"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/metrics"
	"github.com/rushteam/bookrank/pkg/tracing"
	"github.com/rushteam/bookrank/recall"
	"github.com/rushteam/bookrank/rerank"
	"github.com/rushteam/bookrank/sentiment"
)

// Options 是编排层的可调参数。
type Options struct {
	// DefaultLimit 调用方未给出数量（<=0）时返回的条数
	DefaultLimit int `yaml:"default_limit" validate:"gte=0"`

	// MaxResultsPerGenre 单个类型的目录查询条数
	MaxResultsPerGenre int `yaml:"max_results_per_genre" validate:"gte=0,lte=40"`

	// MaxInferredGenres 推断类型上限
	MaxInferredGenres int `yaml:"max_inferred_genres" validate:"gte=0"`

	// MaxConcurrent 按类型并发查询上限
	MaxConcurrent int `yaml:"max_concurrent" validate:"gte=0"`

	// GenreTimeout 单个类型查询超时
	GenreTimeout time.Duration `yaml:"genre_timeout"`

	// SentimentConcurrency 情感分析并发上限
	SentimentConcurrency int `yaml:"sentiment_concurrency" validate:"gte=0"`

	// RuleExpr 可选 CEL 规则，命中的候选被排除
	RuleExpr string `yaml:"rule_expr"`

	// BlockedIDs 运营下架的图书 ID
	BlockedIDs []string `yaml:"blocked_ids"`
}

// DefaultOptions 返回默认参数。
func DefaultOptions() Options {
	rc := &core.DefaultRecallConfig{}
	return Options{
		DefaultLimit:         core.DefaultLimit,
		MaxResultsPerGenre:   rc.DefaultMaxResultsPerGenre(),
		MaxInferredGenres:    rc.DefaultMaxInferredGenres(),
		MaxConcurrent:        rc.DefaultMaxConcurrent(),
		GenreTimeout:         rc.DefaultTimeout(),
		SentimentConcurrency: 4,
	}
}

func (o *Options) fillDefaults() {
	d := DefaultOptions()
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = d.DefaultLimit
	}
	if o.MaxResultsPerGenre <= 0 {
		o.MaxResultsPerGenre = d.MaxResultsPerGenre
	}
	if o.MaxInferredGenres <= 0 {
		o.MaxInferredGenres = d.MaxInferredGenres
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = d.MaxConcurrent
	}
	if o.GenreTimeout <= 0 {
		o.GenreTimeout = d.GenreTimeout
	}
	if o.SentimentConcurrency <= 0 {
		o.SentimentConcurrency = d.SentimentConcurrency
	}
}

// Request 是一次推荐请求。
type Request struct {
	RequestID string
	Profile   *core.UserProfile
	Limit     int

	// Source 候选来源；ModeSupplied 时只使用 Candidates（可以为空）
	Source     recall.Mode
	Candidates []core.Book
}

// Service 持有进程级只读资源（目录客户端、向量化器、模型、情感分析），
// 启动时构建一次，并发请求共享。
type Service struct {
	catalog catalog.Client
	live    pipeline.Node
	stages  []pipeline.Node
	opts    Options
}

// Deps 是构建 Service 所需的共享资源。
type Deps struct {
	Catalog    catalog.Client
	Vectorizer *feature.Vectorizer
	Model      model.RankModel
	Extractor  sentiment.Extractor
	Schema     feature.Schema
}

// New 组装默认链路。模型列与 Schema 不一致、规则表达式无法编译时返回错误。
func New(deps Deps, opts Options) (*Service, error) {
	opts.fillDefaults()
	if deps.Model == nil {
		return nil, fmt.Errorf("recommend: model is required")
	}
	if deps.Schema.Len() == 0 {
		deps.Schema = feature.DefaultSchema
	}

	rankNode, err := rank.NewModelNode(deps.Model, deps.Schema)
	if err != nil {
		return nil, err
	}

	var stages []pipeline.Node
	if len(opts.BlockedIDs) > 0 {
		stages = append(stages, &filter.FilterNode{Filters: []filter.Filter{filter.NewBlockedFilter(opts.BlockedIDs)}})
	}
	if opts.RuleExpr != "" {
		rule, err := filter.NewExprFilter(opts.RuleExpr)
		if err != nil {
			return nil, fmt.Errorf("recommend: rule expression: %w", err)
		}
		stages = append(stages, &filter.FilterNode{Filters: []filter.Filter{rule}})
	}
	stages = append(stages,
		&feature.BuildNode{
			Vectorizer:           deps.Vectorizer,
			Extractor:            deps.Extractor,
			SentimentConcurrency: opts.SentimentConcurrency,
		},
		rankNode,
		&rerank.TopNNode{N: opts.DefaultLimit},
	)

	return NewWithStages(deps.Catalog, stages, opts), nil
}

// NewWithStages 使用自定义的候选后处理链（例如由 YAML 配置构建）。
// 已知 ID 过滤、去重和评论挂载总是排在自定义链之前，配置里是否声明都不影响。
func NewWithStages(client catalog.Client, stages []pipeline.Node, opts Options) *Service {
	opts.fillDefaults()
	s := &Service{catalog: client, stages: append(guardStages(), stages...), opts: opts}
	if client != nil {
		s.live = &recall.Fanout{
			SourcesFunc:   recall.GenreSources(client, opts.MaxResultsPerGenre),
			Timeout:       opts.GenreTimeout,
			MaxConcurrent: opts.MaxConcurrent,
		}
	}
	return s
}

// guardStages 是每条链路必经的前置节点：剔除已读/收藏，按 ID 去重，
// 再把评论替换为画像中的评论。
func guardStages() []pipeline.Node {
	return []pipeline.Node{
		&filter.FilterNode{Filters: []filter.Filter{&filter.KnownItemFilter{}}},
		&filter.DedupNode{},
		&filter.AttachReviews{},
	}
}

// Options 返回生效的参数。
func (s *Service) Options() Options { return s.opts }

// Recommend 返回有序的推荐 ID，分数不对外暴露。
func (s *Service) Recommend(ctx context.Context, req Request) ([]string, error) {
	res, err := s.RecommendScored(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.IDs(), nil
}

// RecommendScored 返回带分数的结果，按分数降序，长度不超过 limit。
func (s *Service) RecommendScored(ctx context.Context, req Request) (core.RankedResult, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	ctx = logging.WithRequestID(ctx, req.RequestID)
	ctx, span := tracing.Tracer().Start(ctx, "recommend")
	defer span.End()

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}

	rctx := core.NewRecommendContext(req.RequestID, req.Profile)
	rctx.Params[rerank.ParamLimit] = limit
	rctx.Params[recall.ParamMaxResultsPerGenre] = s.opts.MaxResultsPerGenre
	genres := recall.ResolveGenres(rctx, s.opts.MaxInferredGenres)

	source, err := s.candidateSource(req)
	if err != nil {
		metrics.Requests.WithLabelValues("error").Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.String("candidate.source", req.Source.String()),
		attribute.StringSlice("genres", genres),
		attribute.Int("limit", limit),
	)

	p := pipeline.New(append([]pipeline.Node{source}, s.stages...)...)
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.Requests.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	res := core.ResultFromItems(items)
	if len(res) > limit {
		res = res[:limit]
	}
	outcome := "ok"
	if len(res) == 0 {
		outcome = "empty"
	}
	metrics.Requests.WithLabelValues(outcome).Inc()

	logging.Ctx(ctx).Info().
		Str("source", req.Source.String()).
		Strs("genres", genres).
		Int("known", rctx.KnownIDs.Len()).
		Int("returned", len(res)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation served")
	return res, nil
}

func (s *Service) candidateSource(req Request) (pipeline.Node, error) {
	switch req.Source {
	case recall.ModeLive:
		if s.live == nil {
			return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotSupported, "live catalog fetch is not configured")
		}
		return s.live, nil
	case recall.ModeSupplied:
		return recall.NewSupplied(req.Candidates), nil
	default:
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			fmt.Sprintf("unknown candidate source %d", req.Source))
	}
}
