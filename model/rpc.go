package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/bookrank/core"
)

// RPCModel 是通过 HTTP 调用外部模型服务的 RankModel 实现。
//
// 请求格式（JSON）：
//
//	{"feature_names": ["genreSimilarity", ...], "instances": [[0.5, 0.8, ...], ...]}
//
// 响应格式（JSON），兼容 KServe V1 / TF Serving 的 predictions：
//
//	{"scores": [0.85, 0.72, ...]}
//	{"predictions": [0.85, 0.72, ...]}  或  {"predictions": [[0.85], [0.72], ...]}
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict"
	Client   *http.Client
	columns  []string
}

func NewRPCModel(name, endpoint string, timeout time.Duration, columns []string) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
		columns:  columns,
	}
}

func (m *RPCModel) Name() string           { return m.name }
func (m *RPCModel) FeatureNames() []string { return m.columns }

func (m *RPCModel) PredictBatch(ctx context.Context, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return []float64{}, nil
	}

	body, err := json.Marshal(map[string]any{
		"feature_names": m.columns,
		"instances":     rows,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeUnavailable, "rpc call", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("rpc error: status=%d, body=%s", resp.StatusCode, string(data)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	scores, err := parseScores(data)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(rows) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(rows), len(scores))
	}
	return scores, nil
}

func parseScores(data []byte) ([]float64, error) {
	var result struct {
		Scores      []float64         `json:"scores"`
		Predictions []json.RawMessage `json:"predictions"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Scores != nil {
		return result.Scores, nil
	}
	out := make([]float64, 0, len(result.Predictions))
	for i, raw := range result.Predictions {
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			out = append(out, f)
			continue
		}
		// 单输出模型的 [[score]]
		var arr []float64
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
			return nil, fmt.Errorf("prediction %d: unsupported value %s", i, string(raw))
		}
		out = append(out, arr[0])
	}
	return out, nil
}

var _ RankModel = (*RPCModel)(nil)
