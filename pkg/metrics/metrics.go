// Package metrics 定义推荐链路的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests 推荐请求数，按结果（ok / error / empty）区分
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookrank",
		Name:      "recommend_requests_total",
		Help:      "Number of recommendation requests by outcome.",
	}, []string{"outcome"})

	// StageDuration 各 Pipeline Node 的耗时
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookrank",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Latency of each pipeline node.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "kind"})

	// StageItems 各 Node 输出的候选数
	StageItems = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookrank",
		Name:      "pipeline_stage_items",
		Help:      "Number of items leaving each pipeline node.",
		Buckets:   []float64{0, 1, 5, 10, 20, 40, 80, 160, 320},
	}, []string{"node"})

	// CatalogRequests 目录服务调用，按结果（ok / error / cache_hit / breaker_open）区分
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookrank",
		Name:      "catalog_requests_total",
		Help:      "Catalog search calls by outcome.",
	}, []string{"outcome"})

	// CatalogRejected 被有效性规则丢弃的目录条目，按原因区分
	CatalogRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookrank",
		Name:      "catalog_rejected_items_total",
		Help:      "Catalog items dropped by the validity predicate.",
	}, []string{"reason"})

	// SentimentCalls 情感分析调用，按结果（ok / error / cache_hit）区分
	SentimentCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookrank",
		Name:      "sentiment_calls_total",
		Help:      "Review sentiment extractor calls by outcome.",
	}, []string{"outcome"})
)
