// Package model 加载并执行排序模型。模型在启动时加载一次，之后只读，可并发调用。
package model

import "context"

// RankModel 是排序阶段的最小抽象：输入按列顺序排好的特征矩阵，每行输出一个分数，越大越相关。
// 具体实现可以是本地模型（GBT/LR）或远程 RPC。
type RankModel interface {
	Name() string

	// FeatureNames 返回模型训练时的列名与顺序；未知时返回 nil。
	FeatureNames() []string

	// PredictBatch 对 N 行特征给出 N 个分数。
	PredictBatch(ctx context.Context, rows [][]float64) ([]float64, error)
}
