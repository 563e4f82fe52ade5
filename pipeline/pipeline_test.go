package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/bookrank/core"
)

type funcNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindPostProcess }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_RunInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Node {
		return &funcNode{name: name, fn: func(items []*core.Item) ([]*core.Item, error) {
			order = append(order, name)
			return append(items, core.NewItem(&core.Book{ID: name})), nil
		}}
	}

	p := New(mk("a"), nil, mk("b"))
	out, err := p.Run(context.Background(), core.NewRecommendContext("r1", nil), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("order = %v, want [a b]", order)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("unexpected items: %+v", out)
	}
}

func TestPipeline_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	p := New(
		&funcNode{name: "fail", fn: func([]*core.Item) ([]*core.Item, error) { return nil, boom }},
		&funcNode{name: "after", fn: func(items []*core.Item) ([]*core.Item, error) { called = true; return items, nil }},
	)
	_, err := p.Run(context.Background(), core.NewRecommendContext("r1", nil), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if !strings.HasPrefix(err.Error(), "fail:") {
		t.Errorf("error should be prefixed with node name, got %q", err)
	}
	if called {
		t.Error("node after the failing one must not run")
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: test
  nodes:
    - type: noop
    - type: noop
      config:
        tag: x
`))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}

	f := NewNodeFactory()
	var seen []map[string]interface{}
	f.Register("noop", func(c map[string]interface{}) (Node, error) {
		seen = append(seen, c)
		return &funcNode{name: "noop", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})

	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(p.Nodes))
	}
	if seen[0] == nil {
		t.Error("missing config should be passed as empty map")
	}
	if seen[1]["tag"] != "x" {
		t.Errorf("config tag = %v, want x", seen[1]["tag"])
	}
}

func TestConfig_UnknownType(t *testing.T) {
	cfg, _ := ParseYAML([]byte("pipeline:\n  nodes:\n    - type: missing\n"))
	_, err := cfg.BuildPipeline(NewNodeFactory())
	if err == nil || !strings.Contains(err.Error(), "unknown node type") {
		t.Fatalf("err = %v, want unknown node type", err)
	}
}
