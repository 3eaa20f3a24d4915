package layout

import (
	"errors"

	"go.uber.org/zap"
)

// Engine 把字体加载、字形度量与图片提供方组合成完整的布局流程。
// Engine 不持有跨调用的可变状态，可被多个 goroutine 并发使用，
// 每次 Fit 调用内部的所有缓冲与缓存都独立分配。
type Engine struct {
	Fonts  FontLoader
	Images ImageSource // 仅嵌入布局需要；纯文本布局可为 nil
}

// Fit 从 opts.MaxFontSize 起逐级缩小字号，寻找能放进 placement 的最大字号，
// 返回折行结果、行距、包围盒与嵌入绘制矩形。embeddings 为空时执行纯文本布局。
//
// 每轮迭代都重新加载字体、重算填充与折行：填充宽度取决于行高，
// 行高又取决于字号，无法解析求解，只能整条管线重测。
// 字号降到下限仍不适配时发出非致命诊断并保留最后一次（超出区域的）布局，
// 绝不让一张卡因为文本过长而整体渲染失败。
func (e *Engine) Fit(text string, placement Placement, embeddings map[string]string, opts Options) (*FittedResult, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	size := opts.MaxFontSize
	for {
		raw, err := e.Fonts.Load(opts.FontFile, size)
		if err != nil {
			return nil, err
		}
		face := newMemoFace(raw)
		spacing := int(opts.SpacingRatio * face.LineHeight())

		padded := text
		var records []EmbedRecord
		if len(embeddings) > 0 {
			padded, records, err = padEmbeddings(text, embeddings, face, e.Images)
			if err != nil {
				return nil, err
			}
		}

		lines, err := breakLines(padded, face, float64(placement.W))
		if err != nil {
			if !errors.Is(err, ErrRowOverflow) {
				return nil, err
			}
			if size > MinFontSize {
				// 单行都放不下：按不适配处理，继续缩小字号再试。
				size--
				continue
			}
			return e.overflowFallback(text, records, raw, face, size, spacing, placement, opts), nil
		}

		bbox := face.BBox(multiline(lines), float64(spacing))
		if bbox.FitsIn(placement) {
			return e.finish(lines, records, raw, face, size, spacing, bbox, placement, opts, true), nil
		}
		if size <= MinFontSize {
			log.Warn("failed to fit text in box",
				zap.Int("fontSize", size),
				zap.Int("w", placement.W), zap.Int("h", placement.H),
				zap.Float64("bboxW", bbox.W()), zap.Float64("bboxH", bbox.H()))
			return e.finish(lines, records, raw, face, size, spacing, bbox, placement, opts, false), nil
		}
		size--
	}
}

// finish 组装最终结果：解析垂直偏移，并把嵌入矩形随文本块一起平移。
func (e *Engine) finish(lines []Line, records []EmbedRecord, raw Face, face *memoFace, size, spacing int, bbox Box, placement Placement, opts Options, fit bool) *FittedResult {
	voff := vOffset(opts.VAlignment, bbox, placement)
	embeds := placeEmbeds(lines, records, face, spacing, placement, opts)
	for i := range embeds {
		embeds[i].Place = embeds[i].Place.Move(0, voff)
	}
	return &FittedResult{
		Lines:    lines,
		FontSize: size,
		Spacing:  spacing,
		BBox:     bbox,
		VOffset:  voff,
		Fit:      fit,
		Embeds:   embeds,
		Face:     raw,
	}
}

// overflowFallback 是字号下限处的行溢出兜底：回退到未拆分的原文，
// 丢弃全部嵌入并记录数量。降级发生在下限之前时不会走到这里——
// 外层搜索会先继续缩小字号。
func (e *Engine) overflowFallback(text string, records []EmbedRecord, raw Face, face *memoFace, size, spacing int, placement Placement, opts Options) *FittedResult {
	log := opts.Logger
	log.Warn("unable to fit text a row",
		zap.Int("fontSize", size), zap.Int("w", placement.W))
	if len(records) > 0 {
		log.Warn("embeds dropped by unsplit fallback", zap.Int("count", len(records)))
	}

	bbox := face.BBox(text, float64(spacing))
	return &FittedResult{
		Lines:         []Line{{Text: text, Start: 0}},
		FontSize:      size,
		Spacing:       spacing,
		BBox:          bbox,
		VOffset:       vOffset(opts.VAlignment, bbox, placement),
		Fit:           false,
		EmbedsDropped: len(records),
		Face:          raw,
	}
}
