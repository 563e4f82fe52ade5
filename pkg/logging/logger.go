// Package logging 提供基于 zerolog 的全局结构化日志。
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("genre", g).Msg("catalog query")
//	logging.Ctx(ctx).Warn().Err(err).Msg("sentiment failed")
//
// 日志链必须以 Msg() 或 Send() 结束，否则不会输出。
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 日志配置。
type Config struct {
	// Level: trace / debug / info / warn / error，默认 info
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`

	// Format: json / console，默认 json
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`

	// Caller 是否输出调用位置
	Caller bool `yaml:"caller"`

	Output io.Writer `yaml:"-"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	Init(DefaultConfig())
}

// Init 初始化全局 logger，可重复调用。
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}

	mu.Lock()
	log = ctx.Logger()
	mu.Unlock()
}

// Logger 返回全局 logger 的副本。
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetOutput 替换输出，主要用于测试。
func SetOutput(w io.Writer) {
	mu.Lock()
	log = log.Output(w)
	mu.Unlock()
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }

type ctxKey struct{}

// WithRequestID 把请求 ID 绑定到 context，后续 Ctx(ctx) 自动带上 request_id 字段。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Logger().With().Str("request_id", requestID).Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// Ctx 返回 context 上绑定的 logger，没有则返回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	l := Logger()
	return &l
}
