package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPut(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	u := New(srv.URL, "secret", nil)
	loc, err := u.Put(context.Background(), "intro", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Fatalf("method = %s", gotMethod)
	}
	if !strings.HasPrefix(gotPath, "/intro-") || !strings.HasSuffix(gotPath, ".png") {
		t.Fatalf("object path = %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("auth header = %s", gotAuth)
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("body = %q", gotBody)
	}
	if !strings.HasPrefix(loc, srv.URL) {
		t.Fatalf("returned url = %s", loc)
	}
}

func TestPutUniqueObjectNames(t *testing.T) {
	paths := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths[r.URL.Path] = true
	}))
	defer srv.Close()

	u := New(srv.URL, "", nil)
	for i := 0; i < 3; i++ {
		if _, err := u.Put(context.Background(), "intro", nil); err != nil {
			t.Fatalf("put %d failed: %v", i, err)
		}
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 distinct objects, got %d", len(paths))
	}
}

func TestPutServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	u := New(srv.URL, "", nil)
	if _, err := u.Put(context.Background(), "intro", nil); err == nil {
		t.Fatalf("expected error on 403")
	}
}
