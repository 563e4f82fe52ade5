package catalog

import (
	"context"
	"strings"

	"github.com/rushteam/bookrank/core"
)

// Client 是目录服务的领域接口。
type Client interface {
	// SearchBySubject 按类型查询，返回通过有效性校验并归一化后的图书。
	SearchBySubject(ctx context.Context, genre string, maxResults int) ([]core.Book, error)

	// Search 自由查询（见 SearchQuery），同样只返回有效条目。
	Search(ctx context.Context, query string, maxResults int) ([]core.Book, error)

	// GetVolume 按 ID 读取原始条目，不做校验。
	GetVolume(ctx context.Context, id string) (*Volume, error)
}

// 搜索类型，与 rerank.QueryRelevance 的权重预设一一对应。
const (
	SearchGeneral = "general"
	SearchTitle   = "title"
	SearchAuthor  = "author"
	SearchISBN    = "isbn"
)

// SearchQuery 按搜索类型拼出查询串。
// 例如 SearchQuery("author", "Tolkien") -> "inauthor:Tolkien"
func SearchQuery(kind, text string) string {
	text = strings.TrimSpace(text)
	switch strings.ToLower(kind) {
	case SearchTitle:
		return "intitle:" + text
	case SearchAuthor:
		return "inauthor:" + text
	case SearchISBN:
		return "isbn:" + strings.ReplaceAll(text, "-", "")
	default:
		return text
	}
}

// SubjectQuery 按类型查询使用的查询串。
func SubjectQuery(genre string) string {
	return "subject:" + strings.TrimSpace(genre)
}
