package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/metrics"
)

// Cached 在 core.Store 上缓存分析结果，key 为评论文本的 sha256。
// 缓存读写失败只记录日志，不影响分析本身。
type Cached struct {
	Next  Extractor
	Store core.Store
	TTL   int // 秒
}

func NewCached(next Extractor, s core.Store, ttl int) *Cached {
	return &Cached{Next: next, Store: s, TTL: ttl}
}

func (c *Cached) Name() string { return "cached_" + c.Next.Name() }

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sentiment:" + hex.EncodeToString(sum[:])
}

func (c *Cached) Analyze(ctx context.Context, text string) (*Analysis, error) {
	key := cacheKey(text)
	if data, err := c.Store.Get(ctx, key); err == nil {
		var a Analysis
		if err := json.Unmarshal(data, &a); err == nil {
			metrics.SentimentCalls.WithLabelValues("cache_hit").Inc()
			return &a, nil
		}
	} else if !core.IsStoreNotFound(err) {
		logging.Ctx(ctx).Warn().Err(err).Str("store", c.Store.Name()).Msg("sentiment cache read failed")
	}

	a, err := c.Next.Analyze(ctx, text)
	if err != nil {
		metrics.SentimentCalls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SentimentCalls.WithLabelValues("ok").Inc()

	if data, err := json.Marshal(a); err == nil {
		if err := c.Store.Set(ctx, key, data, c.TTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("store", c.Store.Name()).Msg("sentiment cache write failed")
		}
	}
	return a, nil
}

// Prefetch 一次批量读取多条评论的缓存结果，返回命中的部分（key 为评论文本）。
// 批量读取失败时返回空结果，由调用方逐条分析。
func (c *Cached) Prefetch(ctx context.Context, texts []string) map[string]*Analysis {
	out := make(map[string]*Analysis)
	if len(texts) == 0 {
		return out
	}
	keys := make([]string, 0, len(texts))
	byKey := make(map[string]string, len(texts))
	for _, t := range texts {
		k := cacheKey(t)
		if _, dup := byKey[k]; dup {
			continue
		}
		byKey[k] = t
		keys = append(keys, k)
	}

	found, err := c.Store.BatchGet(ctx, keys)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("store", c.Store.Name()).Msg("sentiment cache batch read failed")
		return out
	}
	for k, data := range found {
		var a Analysis
		if err := json.Unmarshal(data, &a); err != nil {
			continue
		}
		out[byKey[k]] = &a
		metrics.SentimentCalls.WithLabelValues("cache_hit").Inc()
	}
	return out
}
