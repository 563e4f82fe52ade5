package catalog

import (
	"strings"

	"github.com/rushteam/bookrank/core"
)

// Normalize 把原始条目转成 core.Book。缺失字段取空切片 / 0 / nil。
func Normalize(v *Volume) core.Book {
	b := core.Book{
		ID:         v.ID,
		Authors:    []string{},
		Categories: []string{},
	}
	info := v.VolumeInfo
	if info == nil {
		return b
	}

	b.Title = strings.TrimSpace(info.Title)
	b.Authors = nonEmpty(info.Authors)
	b.Categories = nonEmpty(info.Categories)
	if info.PageCount > 0 {
		b.PageCount = info.PageCount
	}
	if info.AverageRating != nil {
		r := *info.AverageRating
		b.AverageRating = &r
	}
	b.Description = info.Description
	b.Language = info.Language
	b.Publisher = info.Publisher
	b.MaturityRating = info.MaturityRating
	if info.ImageLinks != nil {
		b.Thumbnail = info.ImageLinks.Thumbnail
		if b.Thumbnail == "" {
			b.Thumbnail = info.ImageLinks.SmallThumbnail
		}
	}
	return b
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
