package dsl

import (
	"testing"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/pkg/utils"
)

func TestProgram_Eval(t *testing.T) {
	rating := 4.2
	item := core.NewItem(&core.Book{
		ID:             "b1",
		Title:          "Poems",
		Categories:     []string{"Poetry"},
		PageCount:      64,
		AverageRating:  &rating,
		MaturityRating: "NOT_MATURE",
	})
	item.PutLabel("recall_source", utils.Label{Value: "genre:poetry", Source: "recall"})
	rctx := core.NewRecommendContext("r", nil)
	rctx.Genres = []string{"poetry"}

	tests := []struct {
		expr string
		want bool
	}{
		{`book.maturity_rating == "MATURE"`, false},
		{`book.page_count > 0 && book.page_count < 80`, true},
		{`book.categories.exists(c, c.lowerAscii() == "poetry")`, true},
		{`book.has_rating && book.rating >= 4.0`, true},
		{`label.recall_source.value == "genre:poetry"`, true},
		{`"poetry" in genres`, true},
		{`item.id == "b1"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := p.Eval(item, rctx)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{`book.title +`, `book.page_count + 1 == `, `1 + 2`} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) should fail", expr)
		}
	}
}

func TestProgram_MissingLabel(t *testing.T) {
	p, err := Compile(`label.missing.value == "x"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Eval(core.NewItem(&core.Book{ID: "b"}), nil); err == nil {
		t.Error("missing label key should be an eval error")
	}
}
