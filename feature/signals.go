package feature

import (
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/textnorm"
)

// JaccardGenres 计算用户偏好类型与图书类型的 Jaccard 系数，大小写与首尾空白不敏感。
// 两侧都为空时为 0。
func JaccardGenres(userGenres, bookGenres []string) float64 {
	u := textnorm.FoldSet(userGenres)
	b := textnorm.FoldSet(bookGenres)

	inter := 0
	for g := range u {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(u) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// RatingScore 是平均评分 / 5，缺失为 0。
func RatingScore(b *core.Book) float64 {
	return b.Rating() / 5
}

// AuthorCount 是作者数量。
func AuthorCount(b *core.Book) float64 {
	if b == nil {
		return 0
	}
	return float64(len(b.Authors))
}
