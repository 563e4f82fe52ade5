// Command bookrank 启动图书推荐 HTTP 服务。
//
//	bookrank -config configs/bookrank.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rushteam/bookrank/catalog"
	"github.com/rushteam/bookrank/config"
	_ "github.com/rushteam/bookrank/config/builders"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/feature"
	"github.com/rushteam/bookrank/model"
	"github.com/rushteam/bookrank/pkg/artifact"
	"github.com/rushteam/bookrank/pkg/logging"
	"github.com/rushteam/bookrank/pkg/tracing"
	"github.com/rushteam/bookrank/recommend"
	"github.com/rushteam/bookrank/sentiment"
	"github.com/rushteam/bookrank/server"
	"github.com/rushteam/bookrank/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("BOOKRANK_CONFIG"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("bookrank exited")
	}
}

func run(ctx context.Context, cfg *config.App) error {
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	cache, err := store.New(cfg.Cache)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	deps, err := loadDeps(ctx, cfg, cache)
	if err != nil {
		return err
	}

	var svc *recommend.Service
	if cfg.Pipeline != "" {
		stages, err := config.BuildStages(cfg.Pipeline, deps)
		if err != nil {
			return err
		}
		svc = recommend.NewWithStages(deps.Catalog, stages, cfg.Recommend)
	} else if svc, err = recommend.New(deps, cfg.Recommend); err != nil {
		return err
	}

	h := server.NewHandler(svc, deps.Extractor, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		Validate:       cfg.Catalog.Validate,
		Ready:          readiness(cache),
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("bookrank listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// loadDeps 启动时一次性加载只读共享资源；任一产物加载失败都直接退出。
func loadDeps(ctx context.Context, cfg *config.App, cache core.Store) (recommend.Deps, error) {
	schema := feature.DefaultSchema
	if cfg.Artifacts.FeatureMeta != "" {
		data, err := artifact.Load(ctx, cfg.Artifacts.FeatureMeta)
		if err != nil {
			return recommend.Deps{}, err
		}
		if schema, err = feature.LoadSchema(data); err != nil {
			return recommend.Deps{}, err
		}
	}

	data, err := artifact.Load(ctx, cfg.Artifacts.Vectorizer)
	if err != nil {
		return recommend.Deps{}, err
	}
	vec, err := feature.LoadVectorizer(data)
	if err != nil {
		return recommend.Deps{}, err
	}

	m, err := model.Load(ctx, cfg.Model, schema.Names)
	if err != nil {
		return recommend.Deps{}, err
	}

	ext, err := sentiment.New(ctx, cfg.Sentiment, cache)
	if err != nil {
		return recommend.Deps{}, err
	}

	var opts []catalog.Option
	if cache != nil {
		opts = append(opts, catalog.WithCache(cache))
	}

	logging.Info().
		Str("schema", schema.Version).
		Int("vocabulary", vec.VocabularySize()).
		Str("model", m.Name()).
		Str("sentiment", ext.Name()).
		Msg("artifacts loaded")

	return recommend.Deps{
		Catalog:    catalog.NewGoogleBooks(cfg.Catalog, opts...),
		Vectorizer: vec,
		Model:      m,
		Extractor:  ext,
		Schema:     schema,
	}, nil
}

func readiness(cache core.Store) func(context.Context) error {
	p, ok := cache.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return p.Ping
}
