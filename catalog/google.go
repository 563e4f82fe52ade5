package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/metrics"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// maxResponseBytes 单次响应体上限。
const maxResponseBytes = 8 << 20

// Config 是 Google Books 客户端配置。
type Config struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	APIKey  string `yaml:"api_key"`

	// Timeout 单次 HTTP 调用超时（秒）
	Timeout int `yaml:"timeout" validate:"gte=0"`

	// RateLimit 每秒请求数，0 表示不限流
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`

	// CacheTTL 响应缓存时间（秒），0 表示不缓存
	CacheTTL int `yaml:"cache_ttl" validate:"gte=0"`

	Validate ValidateOptions `yaml:"validate"`
}

// GoogleBooks 是 Client 的 HTTP 实现。
// 出站调用经过限流器和熔断器；可选地把原始响应缓存到 core.Store。
type GoogleBooks struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	cache      core.Store
	cacheTTL   int
	opts       ValidateOptions
}

// Option 定制 GoogleBooks。
type Option func(*GoogleBooks)

// WithHTTPClient 替换底层 http.Client（测试时指向 httptest）。
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleBooks) { g.httpClient = c }
}

// WithCache 开启响应缓存。
func WithCache(s core.Store) Option {
	return func(g *GoogleBooks) { g.cache = s }
}

func NewGoogleBooks(cfg Config, opts ...Option) *GoogleBooks {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	g := &GoogleBooks{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cacheTTL:   cfg.CacheTTL,
		opts:       cfg.Validate,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	g.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "google-books",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// 404 是正常结果，不计入失败
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *GoogleBooks) SearchBySubject(ctx context.Context, genre string, maxResults int) ([]core.Book, error) {
	return g.Search(ctx, SubjectQuery(genre), maxResults)
}

func (g *GoogleBooks) Search(ctx context.Context, query string, maxResults int) ([]core.Book, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	params.Set("langRestrict", g.opts.language())

	body, err := g.fetch(ctx, "/volumes", params)
	if err != nil {
		return nil, err
	}

	var list VolumeList
	if err := json.Unmarshal(body, &list); err != nil {
		metrics.CatalogRequests.WithLabelValues("error").Inc()
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode volumes response", err)
	}
	return g.collect(ctx, query, list.Items), nil
}

// collect 校验并归一化；无效条目计数后丢弃。
func (g *GoogleBooks) collect(ctx context.Context, query string, items []Volume) []core.Book {
	books := make([]core.Book, 0, len(items))
	for i := range items {
		v := &items[i]
		if ok, reason := Validate(v, g.opts); !ok {
			countRejected(reason)
			logging.Ctx(ctx).Debug().Str("id", v.ID).Str("query", query).Str("reason", reason).Msg("catalog item rejected")
			continue
		}
		books = append(books, Normalize(v))
	}
	return books
}

func (g *GoogleBooks) GetVolume(ctx context.Context, id string) (*Volume, error) {
	if id == "" {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "empty volume id")
	}
	body, err := g.fetch(ctx, "/volumes/"+url.PathEscape(id), url.Values{})
	if err != nil {
		return nil, err
	}
	var v Volume
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode volume", err)
	}
	return &v, nil
}

func (g *GoogleBooks) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	cacheKey := "catalog:" + path + "?" + params.Encode()
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}
	endpoint := g.baseURL + path + "?" + params.Encode()

	if g.cache != nil && g.cacheTTL > 0 {
		if data, err := g.cache.Get(ctx, cacheKey); err == nil {
			metrics.CatalogRequests.WithLabelValues("cache_hit").Inc()
			return data, nil
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "rate limiter", err)
		}
	}

	body, err := g.breaker.Execute(func() ([]byte, error) {
		return g.do(ctx, endpoint)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "breaker_open"
			err = core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog circuit open", err)
		}
		metrics.CatalogRequests.WithLabelValues(outcome).Inc()
		return nil, err
	}
	metrics.CatalogRequests.WithLabelValues("ok").Inc()

	if g.cache != nil && g.cacheTTL > 0 {
		if err := g.cache.Set(ctx, cacheKey, body, g.cacheTTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("store", g.cache.Name()).Msg("catalog cache write failed")
		}
	}
	return body, nil
}

func (g *GoogleBooks) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "read catalog response", err)
	}
	if len(body) > maxResponseBytes {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog response exceeds %d bytes", maxResponseBytes))
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, "volume not found")
	case resp.StatusCode != http.StatusOK:
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}
	return body, nil
}

var _ Client = (*GoogleBooks)(nil)
