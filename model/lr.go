package model

import (
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 模型，作为 GBT 产物缺失时的线性兜底。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
type LRModel struct {
	Bias    float64            // 偏置项 (Bias / Intercept)
	Weights map[string]float64 // 特征权重，按列名
	columns []string
}

// LoadLRModel 解析 {"bias": 0.1, "weights": {"normalizedRating": 1.2}}，
// columns 是输入行的列顺序。
func LoadLRModel(data []byte, columns []string) (*LRModel, error) {
	var raw struct {
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lr model: %w", err)
	}
	return NewLRModel(raw.Bias, raw.Weights, columns)
}

func NewLRModel(bias float64, weights map[string]float64, columns []string) (*LRModel, error) {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	for name := range weights {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("lr weight %q is not a feature column", name)
		}
	}
	return &LRModel{Bias: bias, Weights: weights, columns: columns}, nil
}

func (m *LRModel) Name() string           { return "lr" }
func (m *LRModel) FeatureNames() []string { return m.columns }

func (m *LRModel) PredictBatch(_ context.Context, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.columns) {
			return nil, fmt.Errorf("row %d: got %d features, want %d", i, len(row), len(m.columns))
		}
		z := m.Bias
		for j, name := range m.columns {
			z += m.Weights[name] * row[j]
		}
		out[i] = 1 / (1 + math.Exp(-z))
	}
	return out, nil
}

var _ RankModel = (*LRModel)(nil)
