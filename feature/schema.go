// Package feature 为候选构建排序特征：类型重合度、评分、作者数、评论情感、文本相似度。
package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// 特征列名。
const (
	GenreSimilarity   = "genreSimilarity"
	NormalizedRating  = "normalizedRating"
	NumAuthors        = "numAuthors"
	SentimentRating   = "sentimentRating"
	SimilarityToRead  = "similarityToRead"
	SimilarityToSaved = "similarityToSaved"
)

// Schema 是特征构建与排序模型之间的列契约：有名字、有顺序、有版本。
// 模型按 Names 的顺序训练，任何调整都必须升级 Version。
type Schema struct {
	Version string
	Names   []string
}

// DefaultSchema 是当前排序模型使用的 v1 列顺序。
var DefaultSchema = Schema{
	Version: "v1",
	Names: []string{
		GenreSimilarity,
		NormalizedRating,
		NumAuthors,
		SentimentRating,
		SimilarityToRead,
		SimilarityToSaved,
	},
}

func (s Schema) Len() int { return len(s.Names) }

// Row 按列顺序取出特征值，缺列时报错。
func (s Schema) Row(features map[string]float64) ([]float64, error) {
	row := make([]float64, len(s.Names))
	for i, name := range s.Names {
		v, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("feature %q missing (schema %s)", name, s.Version)
		}
		row[i] = v
	}
	return row, nil
}

// Validate 检查模型声明的列与 Schema 完全一致（含顺序）。
// names 为空表示模型未声明列名，按 Schema 处理，只校验列数。
func (s Schema) Validate(names []string, width int) error {
	if len(names) == 0 {
		if width > 0 && width != len(s.Names) {
			return fmt.Errorf("model expects %d features, schema %s has %d", width, s.Version, len(s.Names))
		}
		return nil
	}
	if len(names) != len(s.Names) {
		return fmt.Errorf("model features [%s] do not match schema %s [%s]",
			strings.Join(names, ","), s.Version, strings.Join(s.Names, ","))
	}
	for i := range names {
		if names[i] != s.Names[i] {
			return fmt.Errorf("feature column %d: model has %q, schema %s has %q", i, names[i], s.Version, s.Names[i])
		}
	}
	return nil
}

// Metadata 对应训练侧导出的 feature_meta.json。
type Metadata struct {
	FeatureColumns []string `json:"feature_columns"`
	ModelVersion   string   `json:"model_version"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// LoadSchema 从特征元数据解析 Schema。
func LoadSchema(data []byte) (Schema, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Schema{}, fmt.Errorf("parse feature metadata: %w", err)
	}
	if len(meta.FeatureColumns) == 0 {
		return Schema{}, fmt.Errorf("feature metadata has no feature_columns")
	}
	version := meta.ModelVersion
	if version == "" {
		version = "unversioned"
	}
	return Schema{Version: version, Names: meta.FeatureColumns}, nil
}
