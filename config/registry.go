package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/recommend"
)

// 使用配置驱动时，需在入口处 import _ "github.com/rushteam/bookrank/config/builders"
// 以触发内置 Node（filter.known_item、feature.build、rank.model、rerank.topn 等）的 init 注册。

// Resources 是构建 Node 时可用的进程级共享资源。
type Resources = recommend.Deps

// NodeBuilder 根据共享资源与节点配置构建 Node。
type NodeBuilder func(res Resources, cfg map[string]any) (pipeline.Node, error)

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，建议在 init 中调用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序）。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Factory 返回绑定了共享资源的 NodeFactory。
func Factory(res Resources) *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, func(cfg map[string]any) (pipeline.Node, error) {
			return builder(res, cfg)
		})
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, nc := range cfg.Pipeline.Nodes {
		if _, ok := defaultBuilders[nc.Type]; !ok {
			types := make([]string, 0, len(defaultBuilders))
			for t := range defaultBuilders {
				types = append(types, t)
			}
			sort.Strings(types)
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, types)
		}
	}
	return nil
}

// BuildStages 从 Pipeline YAML 构建候选后处理链（候选来源由编排层按请求决定，不在配置中）。
func BuildStages(path string, res Resources) ([]pipeline.Node, error) {
	pc, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	if err := ValidatePipelineConfig(pc); err != nil {
		return nil, err
	}
	p, err := pc.BuildPipeline(Factory(res))
	if err != nil {
		return nil, err
	}
	return p.Nodes, nil
}
