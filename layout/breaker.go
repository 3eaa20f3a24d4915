package layout

import (
	"errors"
	"strings"
)

// ErrRowOverflow 表示在当前宽度与字号下，从扫描位置起连一个
// 不可再分的单元都放不进一行。调用方据此决定继续缩小字号或降级。
var ErrRowOverflow = errors.New("layout: unable to fit text a row")

// breakLines 将 text 贪心拆分为宽度不超过 maxWidth 的行序列。
// 显式 \n 总是结束一行，作为分隔符消费、绝不重复渲染；
// 行内容保留词间与行尾空白，保证填充串的偏移在行内保持稳定。
func breakLines(text string, face Face, maxWidth float64) ([]Line, error) {
	var lines []Line
	index := 0
	for index < len(text) {
		end, err := fitLineEnd(text, index, face, maxWidth)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Text: text[index:end], Start: index})
		index = end
		if index < len(text) && text[index] == '\n' {
			index++
		}
	}
	return lines, nil
}

// fitLineEnd 返回从 start 开始、宽度不超过 maxWidth 的行的结束偏移（不含）。
// 候选行以显式换行或文本末尾为上界；超宽时逐个“空白→单词”边界回退。
// 回退到扫描起点仍无法容纳时返回 ErrRowOverflow，而不是空转。
func fitLineEnd(text string, start int, face Face, maxWidth float64) (int, error) {
	limit := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		limit = start + i
	}
	end := limit
	for end > start && face.TextWidth(text[start:end]) > maxWidth {
		end = retreat(text, start, end)
	}
	if end == start && limit > start {
		return 0, ErrRowOverflow
	}
	return end, nil
}

// retreat 将候选结束位置回退一个边界：从右向左先跳过行尾空白，
// 再跳过最后一个单词，停在该单词之前的空白之后。
// 没有可用边界时回退到 start。
func retreat(text string, start, end int) int {
	seen := false
	for i := end - 1; i > start; i-- {
		if isSpace(text[i]) {
			if seen {
				return i + 1
			}
		} else {
			seen = true
		}
	}
	return start
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
