package layout

// vOffset 计算整块已排版文本在目标区域内的垂直偏移：
// TOP 贴顶，MIDDLE 居中，BOTTOM 贴底。对整个文本块应用一次，
// 嵌入矩形随块一起平移。
func vOffset(a VerticalAlignment, bbox Box, placement Placement) int {
	switch a {
	case AlignMiddle:
		return int((float64(placement.H) - bbox.H()) / 2)
	case AlignBottom:
		return int(float64(placement.H) - bbox.H())
	default:
		return 0
	}
}
