package catalog

import (
	"testing"

	"github.com/goccy/go-json"
)

func volumeFromJSON(t *testing.T, raw string) *Volume {
	t.Helper()
	var v Volume
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal volume: %v", err)
	}
	return &v
}

const validVolume = `{
	"id": "v1",
	"volumeInfo": {
		"title": "The Hound of the Baskervilles",
		"authors": ["Arthur Conan Doyle"],
		"publisher": "Penguin",
		"description": "A mystery on the moor.",
		"categories": ["Mystery"],
		"language": "en",
		"averageRating": 4.5,
		"pageCount": 256
	}
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		opts   ValidateOptions
		ok     bool
		reason string
	}{
		{name: "valid", raw: validVolume, ok: true},
		{name: "error marker", raw: `{"id":"e","error":{"code":500},"volumeInfo":{"title":"x"}}`, reason: ReasonError},
		{name: "null error is not a marker", raw: `{"id":"n","error":null}`, reason: ReasonNoInfo},
		{name: "no volume info", raw: `{"id":"x"}`, reason: ReasonNoInfo},
		{name: "not english", raw: `{"id":"x","volumeInfo":{"title":"Le Livre","language":"fr","publisher":"p","description":"d"}}`, reason: ReasonLanguage},
		{name: "empty title", raw: `{"id":"x","volumeInfo":{"title":"   ","language":"en","publisher":"p","description":"d"}}`, reason: ReasonTitle},
		{name: "placeholder title", raw: `{"id":"x","volumeInfo":{"title":" Untitled ","language":"en","publisher":"p","description":"d"}}`, reason: ReasonTitle},
		{name: "error title", raw: `{"id":"x","volumeInfo":{"title":"ERROR","language":"en","publisher":"p","description":"d"}}`, reason: ReasonTitle},
		{name: "no publisher", raw: `{"id":"x","volumeInfo":{"title":"t","language":"en","description":"d"}}`, reason: ReasonNoPublisher},
		{name: "no description", raw: `{"id":"x","volumeInfo":{"title":"t","language":"en","publisher":"p"}}`, reason: ReasonNoDesc},
		{name: "image links optional by default", raw: validVolume, ok: true},
		{name: "legacy image links", raw: validVolume, opts: ValidateOptions{RequireImageLinks: true}, reason: ReasonNoImage},
		{
			name: "legacy image links present",
			raw:  `{"id":"x","volumeInfo":{"title":"t","language":"en","publisher":"p","description":"d","imageLinks":{"thumbnail":"http://img"}}}`,
			opts: ValidateOptions{RequireImageLinks: true},
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Validate(volumeFromJSON(t, tt.raw), tt.opts)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("Validate() = (%v, %q), want (%v, %q)", ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if ok, _ := Validate(nil, ValidateOptions{}); ok {
		t.Error("nil volume must be invalid")
	}
}

func TestNormalize(t *testing.T) {
	b := Normalize(volumeFromJSON(t, validVolume))
	if b.ID != "v1" || b.Title != "The Hound of the Baskervilles" {
		t.Errorf("unexpected book: %+v", b)
	}
	if b.Rating() != 4.5 || b.PageCount != 256 || len(b.Authors) != 1 {
		t.Errorf("unexpected fields: %+v", b)
	}

	sparse := Normalize(volumeFromJSON(t, `{"id":"s","volumeInfo":{"title":"t"}}`))
	if sparse.Authors == nil || sparse.Categories == nil {
		t.Error("missing lists should normalize to empty slices")
	}
	if sparse.AverageRating != nil || sparse.Rating() != 0 {
		t.Error("missing rating should stay absent and read as 0")
	}
}

func TestSearchQuery(t *testing.T) {
	tests := []struct{ kind, text, want string }{
		{"title", "Dune", "intitle:Dune"},
		{"AUTHOR", "Herbert", "inauthor:Herbert"},
		{"isbn", "978-0-441-17271-9", "isbn:9780441172719"},
		{"general", " dune ", "dune"},
		{"", "dune", "dune"},
	}
	for _, tt := range tests {
		if got := SearchQuery(tt.kind, tt.text); got != tt.want {
			t.Errorf("SearchQuery(%q, %q) = %q, want %q", tt.kind, tt.text, got, tt.want)
		}
	}
}
