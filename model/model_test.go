package model

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

var columns = []string{
	"genreSimilarity", "normalizedRating", "numAuthors",
	"sentimentRating", "similarityToRead", "similarityToSaved",
}

const pairwiseModel = `{
	"learner": {
		"feature_names": ["genreSimilarity", "normalizedRating", "numAuthors", "sentimentRating", "similarityToRead", "similarityToSaved"],
		"learner_model_param": {"base_score": "[5E-1]", "num_class": "0", "num_feature": "6"},
		"objective": {"name": "rank:pairwise"},
		"gradient_booster": {
			"name": "gbtree",
			"model": {
				"trees": [
					{
						"left_children": [1, -1, -1],
						"right_children": [2, -1, -1],
						"split_indices": [1, 0, 0],
						"split_conditions": [0.5, -0.2, 0.3],
						"default_left": [1, 0, 0],
						"split_type": [0, 0, 0]
					},
					{
						"left_children": [1, -1, -1],
						"right_children": [2, -1, -1],
						"split_indices": [5, 0, 0],
						"split_conditions": [0.7, 0.0, 0.5],
						"default_left": [false, false, false]
					}
				]
			}
		}
	},
	"version": [2, 0, 3]
}`

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestGBTModel_Predict(t *testing.T) {
	m, err := LoadGBTModel([]byte(pairwiseModel))
	if err != nil {
		t.Fatalf("LoadGBTModel() error = %v", err)
	}
	if m.NumTrees() != 2 || m.NumFeatures() != 6 {
		t.Errorf("trees=%d features=%d", m.NumTrees(), m.NumFeatures())
	}
	if strings.Join(m.FeatureNames(), ",") != strings.Join(columns, ",") {
		t.Errorf("FeatureNames() = %v", m.FeatureNames())
	}

	rows := [][]float64{
		{0, 0.8, 1, 0.5, 0, 0.9},        // 右、右
		{0, 0.2, 1, 0.5, 0, 0.1},        // 左、左
		{0, math.NaN(), 1, 0.5, 0, 0.9}, // 缺失走默认左
		{0, 0.5, 1, 0.5, 0, 0.7},        // 等于阈值走右
	}
	want := []float64{1.3, 0.3, 0.8, 1.3}

	got, err := m.PredictBatch(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("row %d score = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := m.PredictBatch(context.Background(), [][]float64{{1, 2}}); err == nil {
		t.Error("short row should fail")
	}
	empty, err := m.PredictBatch(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("PredictBatch(nil) = %v, %v", empty, err)
	}
}

func TestGBTModel_Logistic(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(pairwiseModel), &raw); err != nil {
		t.Fatal(err)
	}
	learner := raw["learner"].(map[string]any)
	learner["objective"] = map[string]any{"name": "binary:logistic"}
	data, _ := json.Marshal(raw)

	m, err := LoadGBTModel(data)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := m.PredictBatch(context.Background(), [][]float64{{0, 0.2, 1, 0.5, 0, 0.1}})
	// margin = logit(0.5) + (-0.2) + 0
	want := 1 / (1 + math.Exp(0.2))
	if !approx(got[0], want) {
		t.Errorf("score = %v, want %v", got[0], want)
	}
}

func TestLoadGBTModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"not json", `{`, "parse"},
		{"no trees", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[]}}}}`, "no trees"},
		{"gblinear", `{"learner":{"gradient_booster":{"name":"gblinear"}}}`, "unsupported booster"},
		{"multiclass", `{"learner":{"learner_model_param":{"num_class":"3"}}}`, "multi-class"},
		{
			"bad children",
			`{"learner":{"gradient_booster":{"model":{"trees":[{"left_children":[0],"right_children":[0],"split_indices":[0],"split_conditions":[0]}]}}}}`,
			"invalid children",
		},
		{
			"categorical",
			`{"learner":{"gradient_booster":{"model":{"trees":[{"left_children":[-1],"right_children":[-1],"split_indices":[0],"split_conditions":[0],"split_type":[1]}]}}}}`,
			"categorical",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGBTModel([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want containing %q", err, tt.msg)
			}
		})
	}
}

func TestLRModel(t *testing.T) {
	m, err := LoadLRModel([]byte(`{"bias": -1, "weights": {"normalizedRating": 2, "genreSimilarity": 1}}`), columns)
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.PredictBatch(context.Background(), [][]float64{{0.5, 0.5, 3, 0.5, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	// z = -1 + 1*0.5 + 2*0.5 = 0.5
	if want := 1 / (1 + math.Exp(-0.5)); !approx(got[0], want) {
		t.Errorf("score = %v, want %v", got[0], want)
	}

	if _, err := LoadLRModel([]byte(`{"weights": {"ctr": 1}}`), columns); err == nil {
		t.Error("unknown weight column should fail")
	}
}

func TestRPCModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FeatureNames []string    `json:"feature_names"`
			Instances    [][]float64 `json:"instances"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.FeatureNames) != 6 {
			http.Error(w, "missing feature names", http.StatusBadRequest)
			return
		}
		scores := make([]float64, len(req.Instances))
		for i, row := range req.Instances {
			scores[i] = row[1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
	defer srv.Close()

	m := NewRPCModel("", srv.URL, 0, columns)
	got, err := m.PredictBatch(context.Background(), [][]float64{{0, 0.4, 0, 0, 0, 0}, {0, 0.9, 0, 0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0.4 || got[1] != 0.9 {
		t.Errorf("scores = %v", got)
	}
}

func TestParseScores(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []float64
	}{
		{"scores", `{"scores": [0.1, 0.2]}`, []float64{0.1, 0.2}},
		{"kserve v1", `{"predictions": [0.3, 0.4]}`, []float64{0.3, 0.4}},
		{"nested", `{"predictions": [[0.5], [0.6]]}`, []float64{0.5, 0.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScores([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := parseScores([]byte(`{"predictions": ["x"]}`)); err == nil {
		t.Error("string prediction should fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.json")
	if err := os.WriteFile(path, []byte(pairwiseModel), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(context.Background(), Config{Kind: "xgboost", Path: path}, columns)
	if err != nil || m.Name() != "xgboost" {
		t.Fatalf("Load(xgboost) = %v, %v", m, err)
	}
	if _, err := Load(context.Background(), Config{Kind: "onnx"}, columns); err == nil {
		t.Error("unknown kind should fail")
	}
}
