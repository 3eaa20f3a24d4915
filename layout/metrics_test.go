package layout

import (
	"fmt"
	"strings"
)

// 该文件提供测试共用的确定性度量桩：每个字节等宽、行高固定，
// 避免在布局测试中依赖真实字体文件。

type fakeFace struct {
	charW      float64
	lineHeight float64
}

func (f fakeFace) TextWidth(s string) float64 { return f.charW * float64(len(s)) }

func (f fakeFace) LineHeight() float64 { return f.lineHeight }

func (f fakeFace) BBox(text string, spacing float64) Box {
	lines := strings.Split(text, "\n")
	maxW := 0.0
	for _, ln := range lines {
		if w := f.TextWidth(ln); w > maxW {
			maxW = w
		}
	}
	h := float64(len(lines))*f.lineHeight + float64(len(lines)-1)*spacing
	return Box{X1: maxW, Y1: h}
}

// scaledLoader 以字号线性缩放字宽与行高，模拟真实字体的单调度量。
type scaledLoader struct{}

func (scaledLoader) Load(file string, size int) (Face, error) {
	return fakeFace{charW: 0.6 * float64(size), lineHeight: 1.2 * float64(size)}, nil
}

// fixedLoader 无视字号返回固定度量，便于对填充与嵌入做精确断言。
type fixedLoader struct {
	charW      float64
	lineHeight float64
}

func (l fixedLoader) Load(file string, size int) (Face, error) {
	return fakeFace{charW: l.charW, lineHeight: l.lineHeight}, nil
}

// fakeImages 是内存图片源，记录未释放的句柄数以验证受限获取。
type fakeImages struct {
	sizes map[string][2]int
	open  int
}

func (s *fakeImages) Acquire(id string) (ImageHandle, error) {
	wh, ok := s.sizes[id]
	if !ok {
		return nil, fmt.Errorf("image %s not found", id)
	}
	s.open++
	return &fakeHandle{src: s, w: wh[0], h: wh[1]}, nil
}

type fakeHandle struct {
	src  *fakeImages
	w, h int
}

func (h *fakeHandle) Size() (int, int) { return h.w, h.h }

func (h *fakeHandle) Close() error {
	h.src.open--
	return nil
}
