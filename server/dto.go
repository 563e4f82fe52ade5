package server

import (
	"strings"

	"github.com/rushteam/bookrank/core"
)

// BookDTO 是接口层的图书结构。
type BookDTO struct {
	GoogleBooksID string   `json:"googleBooksId" binding:"required"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Publishers    []string `json:"publishers,omitempty"`
	PageCount     int      `json:"pageCount,omitempty" binding:"gte=0"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	Description   string   `json:"description,omitempty"`
	Review        string   `json:"review,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

func (d BookDTO) toBook() core.Book {
	b := core.Book{
		ID:            strings.TrimSpace(d.GoogleBooksID),
		Title:         d.Title,
		Authors:       d.Authors,
		Categories:    d.Categories,
		PageCount:     d.PageCount,
		AverageRating: d.AverageRating,
		Description:   d.Description,
		Review:        d.Review,
		Thumbnail:     d.Thumbnail,
	}
	if len(d.Publishers) > 0 {
		b.Publisher = d.Publishers[0]
	}
	return b
}

func fromBook(b core.Book) BookDTO {
	d := BookDTO{
		GoogleBooksID: b.ID,
		Title:         b.Title,
		Authors:       b.Authors,
		PageCount:     b.PageCount,
		Categories:    b.Categories,
		AverageRating: b.AverageRating,
		Description:   b.Description,
		Thumbnail:     b.Thumbnail,
	}
	if b.Publisher != "" {
		d.Publishers = []string{b.Publisher}
	}
	return d
}

func toBooks(in []BookDTO) []core.Book {
	out := make([]core.Book, 0, len(in))
	for _, d := range in {
		out = append(out, d.toBook())
	}
	return out
}

// GenrePreference 偏好类型。
type GenrePreference struct {
	Genre string `json:"genre"`
}

// RecommendRequest 是 POST /ml/recommendations 的请求体。
type RecommendRequest struct {
	UserID              string            `json:"userId,omitempty"`
	SavedBookData       []BookDTO         `json:"savedBookData" binding:"dive"`
	ReadBookData        []BookDTO         `json:"readBookData" binding:"dive"`
	GenrePreferenceData []GenrePreference `json:"genrePreferenceData"`

	// Limit <= 0 时使用服务默认值
	Limit int `json:"limit,omitempty" binding:"gte=0,lte=200"`

	// CandidateSource: live（默认）/ supplied；supplied 时只对 CandidateBooks 排序
	CandidateSource string    `json:"candidateSource,omitempty" binding:"omitempty,oneof=live supplied"`
	CandidateBooks  []BookDTO `json:"candidateBooks,omitempty" binding:"dive"`
}

func (r *RecommendRequest) profile() *core.UserProfile {
	genres := make([]string, 0, len(r.GenrePreferenceData))
	for _, g := range r.GenrePreferenceData {
		genres = append(genres, g.Genre)
	}
	return &core.UserProfile{
		UserID:         r.UserID,
		FavoriteGenres: genres,
		Read:           toBooks(r.ReadBookData),
		Saved:          toBooks(r.SavedBookData),
	}
}

// RecommendResponse 只包含有序 ID，分数不对外暴露。
type RecommendResponse struct {
	RecommendedBookIDs []string `json:"recommendedBookIds"`
}

// ValidateRequest 是 POST /validateBooks 的请求体。
type ValidateRequest struct {
	GoogleBooksIDs []string `json:"googleBooksIds" binding:"required,max=200"`
}

// AnalyzeRequest 是 POST /ml/analyzeReview 的请求体。
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// ErrorResponse 错误响应。
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
