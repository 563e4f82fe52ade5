// Package artifact 读取训练产物（模型、向量化器、特征元数据），来源可以是本地文件或 HTTP。
//
//	data, err := artifact.Load(ctx, "models/ranker.json")
//	data, err := artifact.Load(ctx, "https://models.example.com/v1/ranker.json")
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Loader 从某个来源读取产物原始字节。
type Loader interface {
	Load(ctx context.Context, source string) ([]byte, error)
}

// FileLoader 读取本地文件。
type FileLoader struct{}

func (FileLoader) Load(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return data, nil
}

// HTTPLoader 通过 GET 下载。
type HTTPLoader struct {
	Client *http.Client
}

func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download artifact %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download artifact %s: status=%d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact body: %w", err)
	}
	return data, nil
}

// Load 按 source 前缀选择 Loader：http(s):// 走 HTTP，其余按本地路径处理。
func Load(ctx context.Context, source string) ([]byte, error) {
	return loaderFor(source).Load(ctx, source)
}

func loaderFor(source string) Loader {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPLoader(0)
	}
	return FileLoader{}
}
