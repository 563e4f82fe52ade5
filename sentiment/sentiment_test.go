package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rushteam/bookrank/core"
	"github.com/rushteam/bookrank/store"
)

func TestRatingForLabel(t *testing.T) {
	tests := map[string]int{
		"NEGATIVE": 1,
		"neutral":  3,
		"Positive": 5,
		"mixed":    3,
		"":         3,
	}
	for label, want := range tests {
		if got := RatingForLabel(label); got != want {
			t.Errorf("RatingForLabel(%q) = %d, want %d", label, got, want)
		}
	}
}

func TestHTTPExtractor(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		label  string
		rating int
		err    bool
	}{
		{
			name:   "nested",
			body:   `[[{"label":"negative","score":0.1},{"label":"positive","score":0.85},{"label":"neutral","score":0.05}]]`,
			status: http.StatusOK, label: "POSITIVE", rating: 5,
		},
		{
			name:   "flat",
			body:   `[{"label":"NEGATIVE","score":0.9},{"label":"NEUTRAL","score":0.1}]`,
			status: http.StatusOK, label: "NEGATIVE", rating: 1,
		},
		{name: "server error", body: `oops`, status: http.StatusBadGateway, err: true},
		{name: "empty list", body: `[]`, status: http.StatusOK, err: true},
		{name: "oversized", body: "[" + strings.Repeat(" ", maxResponseBytes) + "]", status: http.StatusOK, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer tok" {
					t.Errorf("missing bearer token")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a, err := NewHTTPExtractor(srv.URL, "tok", 0).Analyze(context.Background(), "a review")
			if tt.err {
				if !core.IsUnavailable(err) {
					t.Fatalf("err = %v, want UNAVAILABLE", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if a.Label != tt.label || a.Rating != tt.rating {
				t.Errorf("Analyze() = %+v, want label %s rating %d", a, tt.label, tt.rating)
			}
		})
	}
}

func TestExtractors_RejectEmpty(t *testing.T) {
	for _, e := range []Extractor{&Static{}, NewHTTPExtractor("http://unused", "", 0)} {
		if _, err := e.Analyze(context.Background(), "   "); !core.IsInvalidInput(err) {
			t.Errorf("%s: err = %v, want INVALID_INPUT", e.Name(), err)
		}
	}
}

func TestParseGeminiResult(t *testing.T) {
	a, err := parseGeminiResult(`{"label":"positive","score":0.93,"keywords":["friendship","courage"]}`)
	if err != nil {
		t.Fatal(err)
	}
	want := &Analysis{Label: "POSITIVE", Score: 0.93, Rating: 5, Keywords: []string{"friendship", "courage"}}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("parseGeminiResult() = %+v, want %+v", a, want)
	}

	a, err = parseGeminiResult(`{"label":"NEGATIVE","score":0.7,"keywords":["pacing, plot", " "]}`)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Keywords, []string{"pacing", "plot"}) {
		t.Errorf("keywords = %q, want split and trimmed", a.Keywords)
	}

	if _, err := parseGeminiResult(""); !core.IsUnavailable(err) {
		t.Errorf("empty text err = %v", err)
	}
	if _, err := parseGeminiResult("not json"); !core.IsUnavailable(err) {
		t.Errorf("bad json err = %v", err)
	}
}

func TestStatic(t *testing.T) {
	s := &Static{Ratings: map[string]int{"meh": 2}}
	tests := []struct {
		text   string
		rating int
	}{
		{"I loved this book, amazing characters", 5},
		{"boring and awful", 1},
		{"it was a book", 3},
		{"meh", 2},
	}
	for _, tt := range tests {
		a, err := s.Analyze(context.Background(), tt.text)
		if err != nil {
			t.Fatal(err)
		}
		if a.Rating != tt.rating {
			t.Errorf("Analyze(%q).Rating = %d, want %d", tt.text, a.Rating, tt.rating)
		}
	}
}

type countingExtractor struct {
	calls int32
	err   error
}

func (c *countingExtractor) Name() string { return "counting" }
func (c *countingExtractor) Analyze(context.Context, string) (*Analysis, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.err != nil {
		return nil, c.err
	}
	return &Analysis{Label: LabelPositive, Score: 0.9, Rating: 5}, nil
}

func TestCached(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	next := &countingExtractor{}
	c := NewCached(next, s, 60)

	for i := 0; i < 3; i++ {
		a, err := c.Analyze(context.Background(), "great read")
		if err != nil || a.Rating != 5 {
			t.Fatalf("Analyze() = %+v, %v", a, err)
		}
	}
	if n := atomic.LoadInt32(&next.calls); n != 1 {
		t.Errorf("underlying calls = %d, want 1", n)
	}

	failing := NewCached(&countingExtractor{err: errors.New("down")}, s, 60)
	if _, err := failing.Analyze(context.Background(), "another review"); err == nil {
		t.Error("errors from the wrapped extractor must surface")
	}
}

func TestCached_Prefetch(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	next := &countingExtractor{}
	c := NewCached(next, s, 60)
	if _, err := c.Analyze(ctx, "great read"); err != nil {
		t.Fatal(err)
	}

	got := c.Prefetch(ctx, []string{"great read", "never seen", "great read"})
	if len(got) != 1 || got["great read"] == nil || got["great read"].Rating != 5 {
		t.Errorf("Prefetch() = %v, want one hit for great read", got)
	}
	if n := atomic.LoadInt32(&next.calls); n != 1 {
		t.Errorf("underlying calls = %d, want 1", n)
	}
	if len(c.Prefetch(ctx, nil)) != 0 {
		t.Error("Prefetch(nil) should be empty")
	}
}

func TestNew(t *testing.T) {
	ext, err := New(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ext.Name() != "static" {
		t.Errorf("default provider = %s, want static", ext.Name())
	}

	ext, err = New(context.Background(), Config{Provider: "http", Endpoint: "http://localhost:1", CacheTTL: 60}, store.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	if ext.Name() != "cached_http" {
		t.Errorf("name = %s, want cached_http", ext.Name())
	}

	if _, err := New(context.Background(), Config{Provider: "bogus"}, nil); err == nil {
		t.Error("want error for unknown provider")
	}
}
