package artifact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Load(context.Background(), path)
	if err != nil || string(data) != `{"ok":true}` {
		t.Fatalf("Load() = %q, %v", data, err)
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"remote":true}`))
	}))
	defer srv.Close()

	data, err := Load(context.Background(), srv.URL+"/model.json")
	if err != nil || string(data) != `{"remote":true}` {
		t.Fatalf("Load() = %q, %v", data, err)
	}
	if _, err := Load(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("non-200 should fail")
	}
}
