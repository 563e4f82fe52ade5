package utils

import "strings"

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 例如 recall_source=genre:mystery、filtered=true(filter.known_item)。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / feature / rank / rerank
}

// MergeLabel 用于合并同名 Label，保留历史：
// - Value: 以 '|' 累积，重复值不再追加
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	for _, v := range existing.Values() {
		if v == incoming.Value {
			return existing
		}
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// Values 拆分累积后的 Value。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, "|")
}
