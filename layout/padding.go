package layout

import (
	"fmt"
	"strings"
)

// padEmbeddings 从左到右扫描 text 的空白分隔单词，把与 embeddings
// 键精确匹配（去除首尾空白后整词比较）的触发词替换为一段空格填充串，
// 并记录每个嵌入在填充文本中的偏移与修正后的自然尺寸。
// 不匹配的单词原样拷贝；记录顺序即文本顺序。
func padEmbeddings(text string, embeddings map[string]string, face Face, images ImageSource) (string, []EmbedRecord, error) {
	var (
		out          strings.Builder
		records      []EmbedRecord
		index        int
		lastIndex    int
		totalPadding int
	)

	for index < len(text) {
		next := nextWordIndex(text, index)
		word := text[index:next]
		trimmed := strings.TrimSpace(word)
		if trimmed == "" {
			index = next
			continue
		}
		id, ok := embeddings[trimmed]
		if !ok {
			index = next
			continue
		}

		padding, w, h, err := paddingFor(id, face, images)
		if err != nil {
			return "", nil, err
		}
		// 偏移记录在填充文本中的替换起点，需计入此前替换造成的长度漂移。
		records = append(records, EmbedRecord{
			Offset:  index + totalPadding,
			ImageID: id,
			W:       w,
			H:       h,
		})

		// 只替换触发词本身，词两侧的空白原样保留。
		replacement := strings.Replace(word, trimmed, padding, 1)
		out.WriteString(text[lastIndex:index])
		out.WriteString(replacement)
		lastIndex = next
		totalPadding += len(replacement) - len(word)
		index = next
	}

	out.WriteString(text[lastIndex:])
	return out.String(), records, nil
}

// nextWordIndex 先越过当前单词的非空白部分，再越过其后的空白，
// 返回下一个单词的起点。
func nextWordIndex(text string, start int) int {
	for start < len(text) && !isSpace(text[start]) {
		start++
	}
	for start < len(text) && isSpace(text[start]) {
		start++
	}
	return start
}

// paddingFor 计算某个嵌入的填充串与修正尺寸。
// 填充宽度是不小于（图片宽高比 × 行高）的最小整空格串宽度；
// 由于填充被量化到整空格宽度，再把图片等比缩放到填充实际宽度。
func paddingFor(id string, face Face, images ImageSource) (string, int, int, error) {
	if images == nil {
		return "", 0, 0, fmt.Errorf("layout: 文本包含嵌入触发词但缺少图片提供方")
	}
	handle, err := images.Acquire(id)
	if err != nil {
		return "", 0, 0, fmt.Errorf("layout: 获取嵌入图片 %s 失败: %w", id, err)
	}
	defer handle.Close()

	imgW, imgH := handle.Size()
	if imgW <= 0 || imgH <= 0 {
		return "", 0, 0, fmt.Errorf("layout: 嵌入图片 %s 尺寸非法 (%d×%d)", id, imgW, imgH)
	}

	target := float64(imgW) / float64(imgH) * face.LineHeight()
	padding := " "
	for face.TextWidth(padding) < target {
		padding += " "
	}

	padWidth := face.TextWidth(padding)
	scale := padWidth / float64(imgW)
	return padding, int(float64(imgW) * scale), int(float64(imgH) * scale), nil
}
