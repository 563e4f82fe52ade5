// Package config 负责应用配置加载，以及把 Pipeline YAML 中的节点类型映射为具体 Node。
//
// 加载顺序：默认值 -> YAML 文件（支持 ${VAR} 展开）-> .env -> BOOKRANK_* 环境变量，最后统一校验。
//
// 环境变量：
//   - BOOKRANK_ADDR: 监听地址（默认 :8080）
//   - BOOKRANK_LOG_LEVEL / BOOKRANK_LOG_FORMAT
//   - GOOGLE_BOOKS_API_KEY: 目录服务 API Key
//   - BOOKRANK_CACHE_BACKEND / BOOKRANK_REDIS_ADDR / BOOKRANK_REDIS_PASSWORD
//   - BOOKRANK_SENTIMENT_PROVIDER / GEMINI_API_KEY / BOOKRANK_SENTIMENT_ENDPOINT / BOOKRANK_SENTIMENT_TOKEN
//   - BOOKRANK_MODEL_KIND / BOOKRANK_MODEL_PATH / BOOKRANK_MODEL_ENDPOINT
//   - BOOKRANK_VECTORIZER_PATH / BOOKRANK_FEATURE_META_PATH
//   - BOOKRANK_PIPELINE: Pipeline YAML 路径
//   - TRACING_ENABLED / TRACING_ENDPOINT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/model"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/tracing"
	"github.com/rushteam/bookrank/recommend"
	"github.com/rushteam/bookrank/sentiment"
	"github.com/rushteam/bookrank/store"
)

// App 是进程级配置。
type App struct {
	Server    ServerConfig      `yaml:"server"`
	Log       logging.Config    `yaml:"log"`
	Catalog   catalog.Config    `yaml:"catalog"`
	Cache     store.Config      `yaml:"cache"`
	Sentiment sentiment.Config  `yaml:"sentiment"`
	Model     model.Config      `yaml:"model"`
	Artifacts ArtifactsConfig   `yaml:"artifacts"`
	Recommend recommend.Options `yaml:"recommend"`
	Tracing   tracing.Config    `yaml:"tracing"`

	// Pipeline 可选的 Pipeline YAML 路径，为空时使用内置链路
	Pipeline string `yaml:"pipeline"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ArtifactsConfig 离线产物位置，本地路径或 http(s) URL。
type ArtifactsConfig struct {
	Vectorizer  string `yaml:"vectorizer" validate:"required"`
	FeatureMeta string `yaml:"feature_meta"`
}

// Default 返回默认配置。
func Default() *App {
	return &App{
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: logging.DefaultConfig(),
		Catalog: catalog.Config{
			BaseURL:   catalog.DefaultBaseURL,
			Timeout:   10,
			RateLimit: 10,
			Burst:     5,
			CacheTTL:  3600,
		},
		Cache:     store.Config{Backend: "memory"},
		Sentiment: sentiment.Config{Provider: "static", CacheTTL: 86400},
		Model:     model.Config{Kind: "xgboost", Path: "artifacts/xgboost_model.json", Timeout: 5},
		Artifacts: ArtifactsConfig{
			Vectorizer:  "artifacts/tfidf_vectorizer.json",
			FeatureMeta: "artifacts/feature_meta.json",
		},
		Recommend: recommend.DefaultOptions(),
		Tracing:   tracing.Config{ServiceName: "bookrank", SampleRatio: 1},
	}
}

// Load 按默认值 -> YAML -> 环境变量的顺序加载并校验配置。path 为空时跳过 YAML。
func Load(path string) (*App, error) {
	// .env 不存在是正常情况
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置字段。
func Validate(cfg *App) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *App) applyEnv() {
	setString(&c.Server.Addr, "BOOKRANK_ADDR")
	setString(&c.Log.Level, "BOOKRANK_LOG_LEVEL")
	setString(&c.Log.Format, "BOOKRANK_LOG_FORMAT")

	setString(&c.Catalog.APIKey, "GOOGLE_BOOKS_API_KEY")
	setString(&c.Catalog.BaseURL, "BOOKRANK_CATALOG_BASE_URL")

	setString(&c.Cache.Backend, "BOOKRANK_CACHE_BACKEND")
	setString(&c.Cache.Redis.Addr, "BOOKRANK_REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "BOOKRANK_REDIS_PASSWORD")

	setString(&c.Sentiment.Provider, "BOOKRANK_SENTIMENT_PROVIDER")
	setString(&c.Sentiment.APIKey, "GEMINI_API_KEY")
	setString(&c.Sentiment.Endpoint, "BOOKRANK_SENTIMENT_ENDPOINT")
	setString(&c.Sentiment.Token, "BOOKRANK_SENTIMENT_TOKEN")

	setString(&c.Model.Kind, "BOOKRANK_MODEL_KIND")
	setString(&c.Model.Path, "BOOKRANK_MODEL_PATH")
	setString(&c.Model.Endpoint, "BOOKRANK_MODEL_ENDPOINT")

	setString(&c.Artifacts.Vectorizer, "BOOKRANK_VECTORIZER_PATH")
	setString(&c.Artifacts.FeatureMeta, "BOOKRANK_FEATURE_META_PATH")
	setString(&c.Pipeline, "BOOKRANK_PIPELINE")

	setInt(&c.Recommend.DefaultLimit, "BOOKRANK_DEFAULT_LIMIT")

	setBool(&c.Tracing.Enabled, "TRACING_ENABLED")
	setString(&c.Tracing.Endpoint, "TRACING_ENDPOINT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
