package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/utils"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(&core.Book{ID: id}))
	}
	return out
}

func idsOf(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestKnownItemFilter(t *testing.T) {
	rctx := core.NewRecommendContext("r", &core.UserProfile{
		Read:  []core.Book{{ID: "R1"}},
		Saved: []core.Book{{ID: "X1"}},
	})
	n := &FilterNode{Filters: []Filter{&KnownItemFilter{}}}

	in := items("A", "X1", "B", "R1")
	out, err := n.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if got := idsOf(out); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("ids = %v, want [A B]", got)
	}
	if lbl := in[1].Labels["filtered"]; lbl.Source != "filter.known_item" {
		t.Errorf("filtered label = %+v", lbl)
	}
}

type errFilter struct{}

func (errFilter) Name() string { return "filter.err" }
func (errFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, errors.New("boom")
}

func TestFilterNode_ErrorKeepsItem(t *testing.T) {
	n := &FilterNode{Filters: []Filter{errFilter{}}}
	out, _ := n.Process(context.Background(), core.NewRecommendContext("r", nil), items("A"))
	if len(out) != 1 {
		t.Errorf("filter errors must keep the item, got %v", idsOf(out))
	}
}

func TestDedupNode_FirstSeenWins(t *testing.T) {
	a1 := core.NewItem(&core.Book{ID: "A", Title: "first"})
	a1.PutLabel("recall_source", utils.Label{Value: "genre:mystery", Source: "recall"})
	a2 := core.NewItem(&core.Book{ID: "A", Title: "second"})
	a2.PutLabel("recall_source", utils.Label{Value: "genre:thriller", Source: "recall"})
	b := core.NewItem(&core.Book{ID: "B"})

	out, err := (&DedupNode{}).Process(context.Background(), nil, []*core.Item{a1, b, a2})
	if err != nil {
		t.Fatal(err)
	}
	if got := idsOf(out); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("ids = %v", got)
	}
	if out[0].Book.Title != "first" {
		t.Errorf("kept %q, want first occurrence", out[0].Book.Title)
	}
	if v := out[0].Labels["recall_source"].Values(); !reflect.DeepEqual(v, []string{"genre:mystery", "genre:thriller"}) {
		t.Errorf("merged labels = %v", v)
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`book.maturity_rating == "MATURE"`)
	if err != nil {
		t.Fatal(err)
	}
	mature := core.NewItem(&core.Book{ID: "m", MaturityRating: "MATURE"})
	clean := core.NewItem(&core.Book{ID: "c", MaturityRating: "NOT_MATURE"})

	out, _ := (&FilterNode{Filters: []Filter{f}}).Process(context.Background(), nil, []*core.Item{mature, clean})
	if got := idsOf(out); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("ids = %v, want [c]", got)
	}

	if _, err := NewExprFilter(`book.title +`); err == nil {
		t.Error("invalid expression should fail to compile")
	}
}

func TestBlockedFilter(t *testing.T) {
	n := &FilterNode{Filters: []Filter{NewBlockedFilter([]string{"B", ""})}}
	out, _ := n.Process(context.Background(), nil, items("A", "B", "C"))
	if got := idsOf(out); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestAttachReviews(t *testing.T) {
	rctx := core.NewRecommendContext("r", &core.UserProfile{
		Read:  []core.Book{{ID: "A", Review: "loved it"}},
		Saved: []core.Book{{ID: "A", Review: "saved note"}, {ID: "B", Review: "want to read"}},
	})
	own := core.NewItem(&core.Book{ID: "C", Review: "own review"})
	in := append(items("A", "B"), own)

	out, err := (&AttachReviews{}).Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"A": "loved it", "B": "want to read", "C": ""}
	for _, it := range out {
		if it.Book.Review != want[it.ID] {
			t.Errorf("%s review = %q, want %q", it.ID, it.Book.Review, want[it.ID])
		}
	}

	bare := core.NewItem(&core.Book{ID: "D", Review: "caller text"})
	out, _ = (&AttachReviews{}).Process(context.Background(), core.NewRecommendContext("r", nil), []*core.Item{bare})
	if out[0].Book.Review != "" {
		t.Errorf("review without profile entry = %q, want empty", out[0].Book.Review)
	}
}
