package layout

import (
	"errors"
	"strings"
	"testing"
)

func TestBreakLinesAtWordBoundaries(t *testing.T) {
	face := fakeFace{charW: 10, lineHeight: 10}
	lines, err := breakLines("aaa bbb ccc", face, 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"aaa ", "bbb ccc"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d (%#v)", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i].Text, w)
		}
	}
	if lines[0].Start != 0 || lines[1].Start != 4 {
		t.Fatalf("unexpected start offsets: %#v", lines)
	}
}

func TestBreakLinesHonorsExplicitNewlines(t *testing.T) {
	face := fakeFace{charW: 10, lineHeight: 10}
	lines, err := breakLines("foo\n\nbar", face, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, len(lines))
	for i, ln := range lines {
		got[i] = ln.Text
	}
	if strings.Join(got, "|") != "foo||bar" {
		t.Fatalf("expected foo||bar, got %q", strings.Join(got, "|"))
	}
	// 换行符只作分隔符消费，不进入任何一行的内容。
	for _, ln := range lines {
		if strings.ContainsRune(ln.Text, '\n') {
			t.Fatalf("line %q contains a raw newline", ln.Text)
		}
	}
}

func TestBreakLinesRowOverflow(t *testing.T) {
	face := fakeFace{charW: 10, lineHeight: 10}
	_, err := breakLines("unbreakable", face, 30)
	if !errors.Is(err, ErrRowOverflow) {
		t.Fatalf("expected ErrRowOverflow, got %v", err)
	}
}

// TestBreakLinesNeverSplitsWords 断言：每一行的起点之前必然是空白，
// 即折行边界绝不落在连续非空白串内部。
func TestBreakLinesNeverSplitsWords(t *testing.T) {
	face := fakeFace{charW: 7, lineHeight: 10}
	texts := []string{
		"the quick brown fox jumps over the lazy dog",
		"one\ntwo three four five six seven eight nine ten",
		"a bb ccc dddd eeeee ffffff ggggggg",
	}
	for _, text := range texts {
		for _, width := range []float64{60, 90, 140, 500} {
			lines, err := breakLines(text, face, width)
			if err != nil {
				t.Fatalf("breakLines(%q, %v): %v", text, width, err)
			}
			for i, ln := range lines {
				if i == 0 {
					continue
				}
				if ln.Start == 0 {
					continue
				}
				if prev := text[ln.Start-1]; !isSpace(prev) {
					t.Fatalf("text %q width %v: line %d starts mid-word (prev byte %q)", text, width, i, prev)
				}
			}
		}
	}
}

func TestBreakLinesKeepsTrailingWhitespace(t *testing.T) {
	// 行尾空白必须保留：嵌入占位串的偏移依赖行内容与填充文本逐字节一致。
	face := fakeFace{charW: 10, lineHeight: 10}
	lines, err := breakLines("ab   cd", face, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, ln := range lines {
		total += len(ln.Text)
	}
	if total != len("ab   cd") {
		t.Fatalf("whitespace was lost: lines %#v", lines)
	}
}
