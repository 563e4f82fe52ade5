package core

import "strings"

// Book 是推荐链路中的图书记录（BookRecord）。
// 每次请求从目录服务响应或调用方画像中新建，不做持久化。
type Book struct {
	ID             string   `json:"googleBooksId" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Authors        []string `json:"authors,omitempty" yaml:"authors"`
	Categories     []string `json:"categories,omitempty" yaml:"categories"`
	PageCount      int      `json:"pageCount,omitempty" yaml:"page_count"`
	AverageRating  *float64 `json:"averageRating,omitempty" yaml:"average_rating"`
	Description    string   `json:"description,omitempty" yaml:"description"`
	Review         string   `json:"review,omitempty" yaml:"review"`
	Language       string   `json:"language,omitempty" yaml:"language"`
	Publisher      string   `json:"publisher,omitempty" yaml:"publisher"`
	MaturityRating string   `json:"maturityRating,omitempty" yaml:"maturity_rating"`
	Thumbnail      string   `json:"thumbnail,omitempty" yaml:"thumbnail"`
}

// Rating 返回平均评分，缺失时为 0。
func (b *Book) Rating() float64 {
	if b == nil || b.AverageRating == nil {
		return 0
	}
	return *b.AverageRating
}

// HasReview 表示用户是否为该书写过评论。
func (b *Book) HasReview() bool {
	return b != nil && strings.TrimSpace(b.Review) != ""
}

// Text 拼接标题与简介，作为文本相似度的输入。
func (b *Book) Text() string {
	if b == nil {
		return ""
	}
	if b.Description == "" {
		return b.Title
	}
	return b.Title + " " + b.Description
}

// Clone 返回浅拷贝，切片独立，避免下游修改调用方数据。
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Authors = append([]string(nil), b.Authors...)
	cp.Categories = append([]string(nil), b.Categories...)
	if b.AverageRating != nil {
		r := *b.AverageRating
		cp.AverageRating = &r
	}
	return &cp
}
