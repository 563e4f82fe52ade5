// Package bookrank 是一个图书推荐服务。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Feature → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，用于 explain / 观测
// - Schema-first: 特征列由 feature.Schema 显式约定，模型加载时校验
// - 只读共享资源：目录客户端、向量化器、模型在启动时加载一次，请求间共享
package bookrank

import (
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/recommend"
)

// 轻量 facade：便于直接 import "bookrank" 使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind

	Service = recommend.Service
	Request = recommend.Request
	Deps    = recommend.Deps
	Options = recommend.Options
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindFeature     = pipeline.KindFeature
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 组装默认推荐链路。
func New(deps Deps, opts Options) (*Service, error) {
	return recommend.New(deps, opts)
}
