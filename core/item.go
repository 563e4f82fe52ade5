package core

import "github.com/rushteam/bookrank/pkg/utils"

// Item 是推荐链路中的统一承载结构：图书、特征、分数、标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	ID       string
	Book     *Book
	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(book *Book) *Item {
	it := &Item{
		Book:     book,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
	if book != nil {
		it.ID = book.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// SetFeature 追加一列特征。Feature 阶段之后各 Node 只追加，不改写已有列。
func (it *Item) SetFeature(name string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[name] = v
}
