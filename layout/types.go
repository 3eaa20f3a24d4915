package layout

import (
	"fmt"
	"strings"
)

// VerticalAlignment 控制整块文本在目标区域内的垂直位置。
type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

// String returns the DSL spelling of the alignment.
func (a VerticalAlignment) String() string {
	switch a {
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return "top"
	}
}

// ParseAlignment 将 DSL 中的对齐取值解析为 VerticalAlignment。
func ParseAlignment(s string) (VerticalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return AlignTop, nil
	case "middle", "center":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return AlignTop, fmt.Errorf("layout: 未知的垂直对齐方式 %q", s)
	}
}

// Line 表示折行结果中的一行文本及其在（可能填充过的）文本中的起始偏移。
// Start 让嵌入占位的偏移定位不依赖对显式换行符的累计推算。
type Line struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
}

// EmbedRecord 记录一次内嵌图片替换：替换串在填充文本中的起始偏移、
// 图片 id，以及按填充实际宽度修正后的自然像素尺寸。
type EmbedRecord struct {
	Offset  int    `json:"offset"`
	ImageID string `json:"imageId"`
	W       int    `json:"w"`
	H       int    `json:"h"`
}

// EmbedPlacement 是计算完成的内嵌图片绘制矩形。
type EmbedPlacement struct {
	ImageID string    `json:"imageId"`
	Place   Placement `json:"place"`
}

// FittedResult 是一次布局调用的最终产物：行序列、选定字号与行距、
// 包围盒、垂直偏移以及内嵌图片的绘制矩形。每次渲染调用计算一次，
// 用完即弃，调用之间不做缓存。
type FittedResult struct {
	Lines    []Line           `json:"lines"`
	FontSize int              `json:"fontSize"`
	Spacing  int              `json:"spacing"`
	BBox     Box              `json:"bbox"`
	VOffset  int              `json:"vOffset"`
	Fit      bool             `json:"fit"`
	Embeds   []EmbedPlacement `json:"embeds,omitempty"`
	// EmbedsDropped 记录行溢出兜底时丢弃的嵌入数量（仅降级路径非零）。
	EmbedsDropped int `json:"embedsDropped,omitempty"`

	// Face 是选定字号下的字体面，渲染阶段直接复用，避免重复加载。
	Face Face `json:"-"`
}

// MultilineText 将行序列用显式换行符拼回多行文本。
func (r *FittedResult) MultilineText() string {
	parts := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		parts[i] = ln.Text
	}
	return strings.Join(parts, "\n")
}

func multiline(lines []Line) string {
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = ln.Text
	}
	return strings.Join(parts, "\n")
}
