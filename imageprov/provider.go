package imageprov

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/wrenfield/cardforge/layout"
)

// Provider 从基准目录按相对路径加载并缓存解码后的图片。
// 同一路径只解码一次，缓存对并发调用安全。
type Provider struct {
	baseDir string

	mu    sync.Mutex
	cache map[string]image.Image
}

// New 创建一个以 baseDir 为根的图片提供方。
func New(baseDir string) *Provider {
	return &Provider{
		baseDir: baseDir,
		cache:   map[string]image.Image{},
	}
}

// Handle 是一次图片借用。当前实现中图片常驻缓存，
// Close 仅用于满足借用协议，不做实际释放。
type Handle struct {
	img image.Image
}

// Image 返回解码后的图片。
func (h *Handle) Image() image.Image { return h.img }

// Size 返回图片的像素宽高。
func (h *Handle) Size() (int, int) {
	b := h.img.Bounds()
	return b.Dx(), b.Dy()
}

// Close implements layout.ImageHandle.
func (h *Handle) Close() error { return nil }

// Get 返回 id 对应的图片句柄，必要时从磁盘解码。
func (p *Provider) Get(id string) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if img, ok := p.cache[id]; ok {
		return &Handle{img: img}, nil
	}

	path := id
	if p.baseDir != "" && !filepath.IsAbs(id) {
		path = filepath.Join(p.baseDir, id)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageprov: 打开 %s 失败: %w", id, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageprov: 解码 %s 失败: %w", id, err)
	}
	p.cache[id] = img
	return &Handle{img: img}, nil
}

// Acquire implements layout.ImageSource.
func (p *Provider) Acquire(id string) (layout.ImageHandle, error) {
	return p.Get(id)
}
