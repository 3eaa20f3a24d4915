package layout

// Face 是布局引擎消费的字形度量能力，由渲染后端实现。
// 所有返回值均为像素。
type Face interface {
	// TextWidth 返回字符串的渲染宽度。
	TextWidth(s string) float64
	// LineHeight 返回单行行高。
	LineHeight() float64
	// BBox 返回多行文本（以 \n 分隔）在给定行间距下的包围盒。
	BBox(multiline string, spacing float64) Box
}

// FontLoader 按字号加载字体面。文件缺失或不可读时返回错误，
// 布局引擎不做字体降级，资源错误原样上抛给调用方。
type FontLoader interface {
	Load(fontFile string, size int) (Face, error)
}

// ImageSource 提供内嵌图片的句柄。Acquire 返回的句柄必须 Close。
type ImageSource interface {
	Acquire(id string) (ImageHandle, error)
}

// ImageHandle 是一次受限获取的图片，仅暴露布局需要的自然尺寸。
type ImageHandle interface {
	Size() (w, h int)
	Close() error
}

// memoFace 在单次布局调用内缓存宽度测量结果。
// 缓存不跨调用共享，保证引擎内部没有调用之间的可变状态。
type memoFace struct {
	Face
	widths map[string]float64
}

func newMemoFace(f Face) *memoFace {
	return &memoFace{Face: f, widths: make(map[string]float64)}
}

func (m *memoFace) TextWidth(s string) float64 {
	if w, ok := m.widths[s]; ok {
		return w
	}
	w := m.Face.TextWidth(s)
	m.widths[s] = w
	return w
}
