package layout

import "sort"

// placeEmbeds 按适配完成的行序列为每个嵌入记录计算卡面绘制矩形。
// 记录先按偏移防御性排序；嵌入归属于首个字符区间覆盖其偏移的行。
// 所有值在最后一步才截断为整数像素，避免中间舍入误差累积。
func placeEmbeds(lines []Line, records []EmbedRecord, face Face, spacing int, placement Placement, opts Options) []EmbedPlacement {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]EmbedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	lineHeight := face.LineHeight()
	stride := lineHeight + float64(spacing)

	out := make([]EmbedPlacement, 0, len(sorted))
	for _, rec := range sorted {
		li, local, ok := locateLine(lines, rec.Offset)
		if !ok {
			continue
		}
		natW := float64(rec.W)
		natH := float64(rec.H)
		// 缩放比例留下的空隙均分到两侧；横向修正同样取自然高度，
		// 与原始渲染行为保持一致。
		correction := (natH - natH*opts.EmbedSizeRatio) / 2

		x := float64(placement.X) + face.TextWidth(lines[li].Text[:local]) + correction
		y := float64(placement.Y) + float64(li)*stride + lineHeight*opts.EmbedVOffsetRatio + correction

		out = append(out, EmbedPlacement{
			ImageID: rec.ImageID,
			Place: Placement{
				X: int(x),
				Y: int(y),
				W: int(natW * opts.EmbedSizeRatio),
				H: int(natH * opts.EmbedSizeRatio),
			},
		})
	}
	return out
}

// locateLine 返回首个字符区间覆盖 offset 的行下标与行内偏移。
func locateLine(lines []Line, offset int) (int, int, bool) {
	for i, ln := range lines {
		if offset < ln.Start+len(ln.Text) {
			local := offset - ln.Start
			if local < 0 {
				local = 0
			}
			return i, local, true
		}
	}
	return 0, 0, false
}
