package model

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rushteam/bookrank/core"
)

// GBTModel 执行 XGBoost 导出的 JSON 模型（booster.save_model("*.json")）。
//
// 每棵树以数组存储：left_children / right_children 为 -1 的节点是叶子，
// 叶子值保存在 split_conditions；内部节点按 x < split_condition 走左子树，
// 缺失值（NaN）按 default_left 走向。最终分数 = base_score + 所有树叶子值之和，
// binary:logistic 目标再做 sigmoid。
type GBTModel struct {
	name      string
	features  []string
	numFeat   int
	baseScore float64
	logistic  bool
	trees     []tree
}

type tree struct {
	left, right []int
	index       []int
	cond        []float64
	defaultLeft []bool
}

type xgbModel struct {
	Learner struct {
		FeatureNames      []string `json:"feature_names"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int           `json:"left_children"`
	RightChildren   []int           `json:"right_children"`
	SplitIndices    []int           `json:"split_indices"`
	SplitConditions []float64       `json:"split_conditions"`
	DefaultLeft     json.RawMessage `json:"default_left"`
	SplitType       []int           `json:"split_type"`
}

// LoadGBTModel 解析 XGBoost JSON 模型。
func LoadGBTModel(data []byte) (*GBTModel, error) {
	var raw xgbModel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse xgboost model: %w", err)
	}
	l := raw.Learner
	if name := l.GradientBooster.Name; name != "" && name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q", name)
	}
	if nc := parseIntParam(l.LearnerModelParam.NumClass); nc > 1 {
		return nil, fmt.Errorf("multi-class models are not supported (num_class=%d)", nc)
	}
	base, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}

	m := &GBTModel{
		name:      "xgboost",
		features:  l.FeatureNames,
		numFeat:   parseIntParam(l.LearnerModelParam.NumFeature),
		baseScore: base,
		logistic:  l.Objective.Name == "binary:logistic",
	}
	if m.logistic {
		if base <= 0 || base >= 1 {
			return nil, fmt.Errorf("logistic base_score %v out of (0, 1)", base)
		}
		m.baseScore = math.Log(base / (1 - base))
	}

	for i, t := range l.GradientBooster.Model.Trees {
		tr, err := buildTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, tr)
	}
	if len(m.trees) == 0 {
		return nil, fmt.Errorf("xgboost model has no trees")
	}
	if m.numFeat == 0 {
		m.numFeat = len(m.features)
	}
	return m, nil
}

func buildTree(t xgbTree) (tree, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return tree{}, fmt.Errorf("inconsistent node arrays")
	}
	for _, st := range t.SplitType {
		if st != 0 {
			return tree{}, fmt.Errorf("categorical splits are not supported")
		}
	}
	dl, err := parseDefaultLeft(t.DefaultLeft, n)
	if err != nil {
		return tree{}, err
	}
	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return tree{}, fmt.Errorf("node %d has invalid children (%d, %d)", i, l, r)
		}
	}
	return tree{
		left:        t.LeftChildren,
		right:       t.RightChildren,
		index:       t.SplitIndices,
		cond:        t.SplitConditions,
		defaultLeft: dl,
	}, nil
}

// parseDefaultLeft 兼容 [0,1] 与 [false,true] 两种写法。
func parseDefaultLeft(raw json.RawMessage, n int) ([]bool, error) {
	out := make([]bool, n)
	if len(raw) == 0 {
		return out, nil
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err == nil {
		if len(ints) != n {
			return nil, fmt.Errorf("default_left has %d entries, want %d", len(ints), n)
		}
		for i, v := range ints {
			out[i] = v != 0
		}
		return out, nil
	}
	var bools []bool
	if err := json.Unmarshal(raw, &bools); err != nil {
		return nil, fmt.Errorf("parse default_left: %w", err)
	}
	if len(bools) != n {
		return nil, fmt.Errorf("default_left has %d entries, want %d", len(bools), n)
	}
	return bools, nil
}

// parseBaseScore 兼容 "5E-1" 和 "[5E-1]"。
func parseBaseScore(s string) (float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse base_score %q: %w", s, err)
	}
	return v, nil
}

func parseIntParam(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func (m *GBTModel) Name() string           { return m.name }
func (m *GBTModel) FeatureNames() []string { return m.features }

// NumFeatures 返回模型声明的特征数。
func (m *GBTModel) NumFeatures() int { return m.numFeat }

// NumTrees 返回树的数量。
func (m *GBTModel) NumTrees() int { return len(m.trees) }

func (m *GBTModel) PredictBatch(_ context.Context, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		s, err := m.predict(row)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, fmt.Sprintf("row %d", i), err)
		}
		out[i] = s
	}
	return out, nil
}

func (m *GBTModel) predict(row []float64) (float64, error) {
	if m.numFeat > 0 && len(row) != m.numFeat {
		return 0, fmt.Errorf("got %d features, model expects %d", len(row), m.numFeat)
	}
	margin := m.baseScore
	for ti := range m.trees {
		leaf, err := m.trees[ti].leaf(row)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		margin += leaf
	}
	if m.logistic {
		return 1 / (1 + math.Exp(-margin)), nil
	}
	return margin, nil
}

// leaf 沿树走到叶子。比较按 float32 进行，与训练侧一致。
func (t *tree) leaf(row []float64) (float64, error) {
	node := 0
	for t.left[node] != -1 {
		idx := t.index[node]
		if idx < 0 || idx >= len(row) {
			return 0, fmt.Errorf("split on feature %d, row has %d", idx, len(row))
		}
		x := row[idx]
		switch {
		case math.IsNaN(x):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case float32(x) < float32(t.cond[node]):
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	return t.cond[node], nil
}

var _ RankModel = (*GBTModel)(nil)
