// Package catalog 是外部图书目录（Google Books volumes API）的适配层：
// 按类型查询、有效性校验、归一化为 core.Book。
package catalog

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Volume 是目录服务返回的原始条目。
type Volume struct {
	ID         string          `json:"id"`
	Error      json.RawMessage `json:"error,omitempty"`
	VolumeInfo *VolumeInfo     `json:"volumeInfo,omitempty"`
}

// VolumeInfo 是条目的结构化图书信息，所有字段都可能缺失。
type VolumeInfo struct {
	Title          string       `json:"title"`
	Subtitle       string       `json:"subtitle,omitempty"`
	Authors        []string     `json:"authors,omitempty"`
	Publisher      string       `json:"publisher,omitempty"`
	PublishedDate  string       `json:"publishedDate,omitempty"`
	Description    string       `json:"description,omitempty"`
	Categories     []string     `json:"categories,omitempty"`
	PageCount      int          `json:"pageCount,omitempty"`
	AverageRating  *float64     `json:"averageRating,omitempty"`
	RatingsCount   int          `json:"ratingsCount,omitempty"`
	Language       string       `json:"language,omitempty"`
	MaturityRating string       `json:"maturityRating,omitempty"`
	ImageLinks     *ImageLinks  `json:"imageLinks,omitempty"`
	IndustryIDs    []IndustryID `json:"industryIdentifiers,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// IndustryID 例如 {"type": "ISBN_13", "identifier": "9780..."}
type IndustryID struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// VolumeList 是 /volumes 查询的响应体。
type VolumeList struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// HasError 表示条目携带了错误标记而不是内容。
func (v *Volume) HasError() bool {
	if v == nil {
		return false
	}
	trimmed := bytes.TrimSpace(v.Error)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (i *ImageLinks) empty() bool {
	return i == nil || (i.Thumbnail == "" && i.SmallThumbnail == "")
}
