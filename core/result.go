package core

// Ranked 是一条排序结果。
type Ranked struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// RankedResult 按分数降序排列，已截断到调用方给定的数量。
type RankedResult []Ranked

// IDs 只返回 ID 列表，分数属于内部信息。
func (r RankedResult) IDs() []string {
	out := make([]string, 0, len(r))
	for _, x := range r {
		out = append(out, x.ID)
	}
	return out
}

// ResultFromItems 把排序后的 items 转成结果。
func ResultFromItems(items []*Item) RankedResult {
	out := make(RankedResult, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, Ranked{ID: it.ID, Score: it.Score})
	}
	return out
}
