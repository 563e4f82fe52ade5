package textnorm

import "testing"

func TestSearch(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  Café   Society ", "cafe society"},
		{"Dune: The Complete Collection", "dune the complete collection"},
		{"J.R.R. Tolkien", "j.r.r. tolkien"},
		{"Ben–Hur!", "benhur"},
	}
	for _, tt := range tests {
		if got := Search(tt.in); got != tt.want {
			t.Errorf("Search(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldSet(t *testing.T) {
	set := FoldSet([]string{" Fantasy", "fantasy", "", "Horror "})
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	for _, k := range []string{"fantasy", "horror"} {
		if _, ok := set[k]; !ok {
			t.Errorf("missing %q", k)
		}
	}
}
