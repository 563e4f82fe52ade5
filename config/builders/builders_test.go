package builders

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rushteam/bookrank/config"
	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/feature"
	"github.com/rushteam/bookrank/pipeline"
)

const pipelineYAML = `
pipeline:
  name: books
  nodes:
    - type: filter
      config:
        filters:
          - type: known_item
          - type: blocked
            ids: ["banned"]
          - type: expr
            expr: "book.page_count > 1000"
    - type: filter.dedup
    - type: filter.attach_reviews
    - type: feature.build
      config: {sentiment_concurrency: 2}
    - type: rank.lr
      config:
        bias: 0
        weights: {normalizedRating: 4.0}
    - type: rerank.topn
      config: {n: 2}
`

func TestBuildStages_RunsEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	stages, err := config.BuildStages(path, config.Resources{Schema: feature.DefaultSchema})
	if err != nil {
		t.Fatalf("BuildStages() error = %v", err)
	}
	if len(stages) != 6 {
		t.Fatalf("len(stages) = %d, want 6", len(stages))
	}

	r := func(v float64) *float64 { return &v }
	books := []*core.Book{
		{ID: "known", AverageRating: r(5)},
		{ID: "banned", AverageRating: r(5)},
		{ID: "long", AverageRating: r(5), PageCount: 2000},
		{ID: "a", AverageRating: r(2)},
		{ID: "b", AverageRating: r(4)},
		{ID: "a", AverageRating: r(1)},
		{ID: "c", AverageRating: r(3)},
	}
	items := make([]*core.Item, 0, len(books))
	for _, b := range books {
		items = append(items, core.NewItem(b))
	}
	rctx := core.NewRecommendContext("t", &core.UserProfile{Saved: []core.Book{{ID: "known"}}})

	out, err := pipeline.New(stages...).Run(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := make([]string, 0, len(out))
	for _, it := range out {
		got = append(got, it.ID)
	}
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("got %v, want [b c]", got)
	}
}

func TestBuildStages_UnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte("pipeline:\n  nodes:\n    - type: rerank.diversity\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := config.BuildStages(path, config.Resources{})
	if err == nil || !strings.Contains(err.Error(), "unsupported node type") {
		t.Fatalf("err = %v, want unsupported node type", err)
	}
}

func TestBuilders_Errors(t *testing.T) {
	res := config.Resources{}
	if _, err := BuildModelNode(res, nil); err == nil {
		t.Error("rank.model without a loaded model should fail")
	}
	if _, err := BuildRPCNode(res, map[string]any{}); err == nil {
		t.Error("rank.rpc without endpoint should fail")
	}
	if _, err := BuildLRNode(res, map[string]any{"weights": map[string]any{"bogus": 1.0}}); err == nil {
		t.Error("rank.lr with unknown column should fail")
	}
	if _, err := BuildFilterNode(res, map[string]any{"filters": []any{map[string]any{"type": "nope"}}}); err == nil {
		t.Error("unknown filter type should fail")
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{"filter", "feature.build", "rank.model", "rerank.topn"} {
		found := false
		for _, ty := range types {
			if ty == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%s not registered (have %v)", want, types)
		}
	}
}
