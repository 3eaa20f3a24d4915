package imageprov_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenfield/cardforge/imageprov"
)

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestProviderGet(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "fire.png", 64, 32)

	p := imageprov.New(dir)
	h, err := p.Get("fire.png")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer h.Close()

	w, ht := h.Size()
	if w != 64 || ht != 32 {
		t.Fatalf("size = %d×%d, want 64×32", w, ht)
	}
	if h.Image() == nil {
		t.Fatalf("image missing")
	}

	// 二次获取命中缓存，图片实例相同。
	h2, err := p.Get("fire.png")
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if h2.Image() != h.Image() {
		t.Fatalf("cache miss on repeated get")
	}
}

func TestProviderMissingFile(t *testing.T) {
	p := imageprov.New(t.TempDir())
	if _, err := p.Get("nope.png"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestProviderAcquire(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "ice.png", 10, 10)

	p := imageprov.New(dir)
	h, err := p.Acquire("ice.png")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer h.Close()
	if w, ht := h.Size(); w != 10 || ht != 10 {
		t.Fatalf("size = %d×%d", w, ht)
	}
}
