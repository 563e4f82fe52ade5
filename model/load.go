package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/bookrank/pkg/artifact"
)

// Config 排序模型配置。
type Config struct {
	// Kind: xgboost / lr / rpc
	Kind string `yaml:"kind" validate:"required,oneof=xgboost lr rpc"`

	// Path 模型产物，本地路径或 http(s) URL（xgboost / lr）
	Path string `yaml:"path" validate:"required_unless=Kind rpc"`

	// Endpoint 远程打分服务（rpc）
	Endpoint string `yaml:"endpoint" validate:"required_if=Kind rpc"`

	// Timeout 远程调用超时（秒）
	Timeout int `yaml:"timeout" validate:"gte=0"`
}

// Load 按配置加载模型，columns 是特征列顺序。
func Load(ctx context.Context, cfg Config, columns []string) (RankModel, error) {
	switch cfg.Kind {
	case "xgboost":
		data, err := artifact.Load(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return LoadGBTModel(data)
	case "lr":
		data, err := artifact.Load(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return LoadLRModel(data, columns)
	case "rpc":
		return NewRPCModel("rpc", cfg.Endpoint, time.Duration(cfg.Timeout)*time.Second, columns), nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Kind)
	}
}
