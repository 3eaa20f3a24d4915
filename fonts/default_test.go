package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveExplicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.ttf")
	if err := os.WriteFile(path, []byte{0}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Resolve(path)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != path {
		t.Fatalf("resolved %s, want %s", got, path)
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatalf("expected error for missing font")
	}
}

func TestDefaultForUnknownPlatform(t *testing.T) {
	// plan9 没有候选字体目录，必然落入显式指定的错误分支。
	if _, err := defaultFor("plan9"); err == nil {
		t.Skipf("platform candidate font unexpectedly present")
	}
}
