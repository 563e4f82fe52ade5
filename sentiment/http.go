package sentiment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const maxResponseBytes = 1 << 20

// HTTPExtractor 调用文本分类服务（Hugging Face Inference 风格）：
//
//	POST {"inputs": "..."}  ->  [[{"label": "positive", "score": 0.98}, ...]]
//
// 取分数最高的标签。该接口不返回关键词。
type HTTPExtractor struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

func NewHTTPExtractor(endpoint, token string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPExtractor{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (e *HTTPExtractor) Name() string { return "http" }

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (e *HTTPExtractor) Analyze(ctx context.Context, text string) (*Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errInvalid("empty review")
	}

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, errUnavailable("sentiment request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, errUnavailable("read sentiment response", err)
	}
	if len(data) > maxResponseBytes {
		return nil, errUnavailable(fmt.Sprintf("sentiment response exceeds %d bytes", maxResponseBytes), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errUnavailable(fmt.Sprintf("sentiment service returned status %d", resp.StatusCode), nil)
	}

	best, err := decodeClassifications(data)
	if err != nil {
		return nil, errUnavailable("decode sentiment response", err)
	}
	label := strings.ToUpper(best.Label)
	return &Analysis{
		Label:    label,
		Score:    best.Score,
		Rating:   RatingForLabel(label),
		Keywords: []string{},
	}, nil
}

// decodeClassifications 兼容 [{...}] 与 [[{...}]] 两种返回形态。
func decodeClassifications(data []byte) (classification, error) {
	var nested [][]classification
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 {
		return top(nested[0])
	}
	var flat []classification
	if err := json.Unmarshal(data, &flat); err != nil {
		return classification{}, err
	}
	return top(flat)
}

func top(list []classification) (classification, error) {
	if len(list) == 0 {
		return classification{}, fmt.Errorf("empty classification list")
	}
	best := list[0]
	for _, c := range list[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}
