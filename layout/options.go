package layout

import "go.uber.org/zap"

// 字号搜索的默认上限与硬下限，与嵌入缩放的默认比例。
const (
	DefaultMaxFontSize    = 32
	MinFontSize           = 8
	DefaultEmbedSizeRatio = 1.0
)

// Options 配置一次布局调用。零值字段按默认值解析：
// MaxFontSize 32、SpacingRatio 0、VAlignment TOP、
// EmbedVOffsetRatio 0、EmbedSizeRatio 1。
// FontFile 必须由调用方给出（默认字体在启动时通过 fonts 包解析一次，
// 布局引擎自身不做平台探测）。
type Options struct {
	MaxFontSize       int
	FontFile          string
	SpacingRatio      float64
	VAlignment        VerticalAlignment
	EmbedVOffsetRatio float64
	EmbedSizeRatio    float64

	// Logger 接收适配失败与行溢出等非致命诊断；为空时静默。
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxFontSize <= 0 {
		o.MaxFontSize = DefaultMaxFontSize
	}
	if o.EmbedSizeRatio == 0 {
		o.EmbedSizeRatio = DefaultEmbedSizeRatio
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
