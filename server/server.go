// Package server 是推荐服务的 HTTP 入口（gin）。
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/recall"
	"github.com/rushteam/bookrank/recommend"
	"github.com/rushteam/bookrank/sentiment"
)

// Options HTTP 层参数。
type Options struct {
	RequestTimeout time.Duration
	Validate       catalog.ValidateOptions

	// Ready 健康检查额外探测（例如 Redis），为空时只要进程存活即就绪
	Ready func(ctx context.Context) error
}

// Handler 持有推荐服务与情感分析。
type Handler struct {
	svc  *recommend.Service
	ext  sentiment.Extractor
	opts Options
}

func NewHandler(svc *recommend.Service, ext sentiment.Extractor, opts Options) *Handler {
	return &Handler{svc: svc, ext: ext, opts: opts}
}

// NewRouter 注册路由与中间件。
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Tracing(), AccessLog(), Timeout(h.opts.RequestTimeout))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/ml/recommendations", h.Recommend)
	r.POST("/ml/analyzeReview", h.AnalyzeReview)
	r.POST("/validateBooks", h.ValidateBooks)
	r.GET("/api/books/search", h.SearchBooks)
	return r
}

// Recommend POST /ml/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request: "+err.Error())
		return
	}
	mode, ok := recall.ParseMode(req.CandidateSource)
	if !ok {
		h.badRequest(c, "unknown candidateSource "+strconv.Quote(req.CandidateSource))
		return
	}

	ids, err := h.svc.Recommend(c.Request.Context(), recommend.Request{
		RequestID:  requestID(c),
		Profile:    req.profile(),
		Limit:      req.Limit,
		Source:     mode,
		Candidates: toBooks(req.CandidateBooks),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{RecommendedBookIDs: ids})
}

// ValidateBooks POST /validateBooks，返回 {id: 是否有效}。
func (h *Handler) ValidateBooks(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request: "+err.Error())
		return
	}
	result, err := h.svc.ValidateIDs(c.Request.Context(), req.GoogleBooksIDs, h.opts.Validate)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeReview POST /ml/analyzeReview。空评论直接返回中性结果。
func (h *Handler) AnalyzeReview(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusOK, sentiment.Empty())
		return
	}
	if h.ext == nil {
		h.fail(c, core.NewDomainError(core.ModuleSentiment, core.ErrorCodeNotSupported, "sentiment extractor is not configured"))
		return
	}
	a, err := h.ext.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SearchBooks GET /api/books/search?q=dune&type=title&limit=10
func (h *Handler) SearchBooks(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	books, err := h.svc.Search(c.Request.Context(), recommend.SearchRequest{
		Query: c.Query("q"),
		Type:  c.Query("type"),
		Limit: limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]BookDTO, 0, len(books))
	for _, b := range books {
		out = append(out, fromBook(b))
	}
	c.JSON(http.StatusOK, out)
}

// Health GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if h.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     msg,
		Code:      core.ErrorCodeInvalidInput,
		RequestID: requestID(c),
	})
}

// fail 按 DomainError 的错误码映射 HTTP 状态。
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := core.ErrorCodeInternalError
	if de := core.GetDomainError(err); de != nil {
		code = de.Code
		switch de.Code {
		case core.ErrorCodeInvalidInput:
			status = http.StatusBadRequest
		case core.ErrorCodeNotFound:
			status = http.StatusNotFound
		case core.ErrorCodeUnavailable:
			status = http.StatusBadGateway
		case core.ErrorCodeNotSupported:
			status = http.StatusNotImplemented
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	_ = c.Error(err)
	if status >= 500 {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: requestID(c),
	})
}
