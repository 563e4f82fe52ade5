// Package builders 注册内置 Node 的配置构建逻辑。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/bookrank/config"
	"github.com/rushteam/bookrank/feature"
	"github.com/rushteam/bookrank/filter"
	"github.com/rushteam/bookrank/model"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/conv"
	"github.com/rushteam/bookrank/rank"
	"github.com/rushteam/bookrank/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.dedup", BuildDedupNode)
	config.Register("filter.attach_reviews", BuildAttachReviewsNode)
	config.Register("feature.build", BuildFeatureNode)
	config.Register("rank.model", BuildModelNode)
	config.Register("rank.lr", BuildLRNode)
	config.Register("rank.rpc", BuildRPCNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.query", BuildQueryNode)
}

// BuildFilterNode 构建过滤节点：
//
//	- type: filter
//	  config:
//	    filters:
//	      - type: known_item
//	      - type: blocked
//	        ids: ["abc"]
//	      - type: expr
//	        expr: "book.page_count > 1200"
func BuildFilterNode(_ config.Resources, cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "known_item":
			filters = append(filters, &filter.KnownItemFilter{})
		case "blocked":
			filters = append(filters, filter.NewBlockedFilter(conv.StringSlice(filterMap["ids"])))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildDedupNode(config.Resources, map[string]any) (pipeline.Node, error) {
	return &filter.DedupNode{}, nil
}

func BuildAttachReviewsNode(config.Resources, map[string]any) (pipeline.Node, error) {
	return &filter.AttachReviews{}, nil
}

func BuildFeatureNode(res config.Resources, cfg map[string]any) (pipeline.Node, error) {
	return &feature.BuildNode{
		Vectorizer:           res.Vectorizer,
		Extractor:            res.Extractor,
		SentimentConcurrency: conv.ConfigGetInt(cfg, "sentiment_concurrency", 4),
	}, nil
}

// BuildModelNode 使用进程启动时加载的排序模型。
func BuildModelNode(res config.Resources, _ map[string]any) (pipeline.Node, error) {
	if res.Model == nil {
		return nil, fmt.Errorf("rank.model: no model loaded")
	}
	return rank.NewModelNode(res.Model, schemaOf(res))
}

// BuildLRNode 使用配置内联的线性权重：
//
//	config: {bias: -1, weights: {normalizedRating: 2.0, genreSimilarity: 1.5}}
func BuildLRNode(res config.Resources, cfg map[string]any) (pipeline.Node, error) {
	weights := conv.FloatMap(cfg["weights"])
	if len(weights) == 0 {
		return nil, fmt.Errorf("weights not found")
	}
	schema := schemaOf(res)
	lr, err := model.NewLRModel(conv.ConfigGetFloat(cfg, "bias", 0), weights, schema.Names)
	if err != nil {
		return nil, err
	}
	return rank.NewModelNode(lr, schema)
}

func BuildRPCNode(res config.Resources, cfg map[string]any) (pipeline.Node, error) {
	endpoint := conv.ConfigGet(cfg, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint not found")
	}
	name := conv.ConfigGet(cfg, "model_type", "rpc")
	timeout := conv.ConfigGetDuration(cfg, "timeout", 5*time.Second)
	schema := schemaOf(res)
	return rank.NewModelNode(model.NewRPCModel(name, endpoint, timeout, schema.Names), schema)
}

func BuildTopNNode(_ config.Resources, cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildQueryNode(config.Resources, map[string]any) (pipeline.Node, error) {
	return &rerank.QueryNode{}, nil
}

func schemaOf(res config.Resources) feature.Schema {
	if res.Schema.Len() == 0 {
		return feature.DefaultSchema
	}
	return res.Schema
}
