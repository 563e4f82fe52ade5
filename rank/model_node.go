// Package rank 用排序模型为候选打分并排序。
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/feature"
	"github.com/rushteam/bookrank/model"
	"github.com/rushteam/bookrank/pipeline"
	"github.com/rushteam/bookrank/pkg/utils"
)

// ModelNode 是使用 RankModel 的排序 Node。
//   - 按 Schema 列顺序组装 N×K 特征矩阵，一次批量调用模型
//   - 写入 item.Score 与 rank_model label
//   - 按分数降序稳定排序，同分保持输入顺序
//   - 没有候选时直接返回，不调用模型
type ModelNode struct {
	Model  model.RankModel
	Schema feature.Schema
}

// NewModelNode 校验模型声明的列与 Schema 一致。
func NewModelNode(m model.RankModel, schema feature.Schema) (*ModelNode, error) {
	width := 0
	if gbt, ok := m.(interface{ NumFeatures() int }); ok {
		width = gbt.NumFeatures()
	}
	if err := schema.Validate(m.FeatureNames(), width); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model does not match feature schema", err)
	}
	return &ModelNode{Model: m, Schema: schema}, nil
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	rows := make([][]float64, len(items))
	for i, it := range items {
		row, err := n.Schema.Row(it.Features)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", it.ID, err)
		}
		rows[i] = row
	}

	scores, err := n.Model.PredictBatch(ctx, rows)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeInternalError, "predict", err)
	}
	if len(scores) != len(items) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInternalError,
			fmt.Sprintf("model returned %d scores for %d items", len(scores), len(items)))
	}

	lbl := utils.Label{Value: n.Model.Name(), Source: "rank"}
	for i, it := range items {
		s := scores[i]
		if math.IsNaN(s) {
			s = math.Inf(-1)
		}
		it.Score = s
		it.PutLabel("rank_model", lbl)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}
