package layout

import (
	"reflect"
	"testing"
)

func TestFitShrinksUntilBoxFits(t *testing.T) {
	e := &Engine{Fonts: scaledLoader{}}
	res, err := e.Fit("The quick brown fox", Placement{X: 0, Y: 0, W: 200, H: 50}, nil, Options{FontFile: "body.ttf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fit {
		t.Fatalf("expected a fitting layout, got %+v", res)
	}
	if res.FontSize > DefaultMaxFontSize || res.FontSize < MinFontSize {
		t.Fatalf("font size %d out of range", res.FontSize)
	}
	if res.BBox.W() > 200 || res.BBox.H() > 50 {
		t.Fatalf("bbox %#v exceeds placement", res.BBox)
	}
	if len(res.Lines) == 0 {
		t.Fatal("no lines produced")
	}
}

// TestFitIdempotent 断言：相同输入的两次调用产生完全相同的结果，
// 引擎不残留任何跨调用状态。
func TestFitIdempotent(t *testing.T) {
	e := &Engine{Fonts: scaledLoader{}}
	opts := Options{FontFile: "body.ttf", SpacingRatio: 0.25, VAlignment: AlignMiddle}
	place := Placement{X: 10, Y: 20, W: 180, H: 90}

	first, err := e.Fit("idempotence is a property worth testing", place, nil, opts)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := e.Fit("idempotence is a property worth testing", place, nil, opts)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

// TestFitMonotonic 采样多组文本与区域，断言适配集按字号向下封闭：
// 若字号 s 适配，则所有更小的字号也适配。
func TestFitMonotonic(t *testing.T) {
	loader := scaledLoader{}
	texts := []string{
		"short",
		"a somewhat longer piece of card text",
		"many many many words that will certainly need wrapping somewhere",
	}
	rects := []Placement{
		{W: 120, H: 40},
		{W: 200, H: 60},
		{W: 300, H: 140},
	}

	fits := func(text string, p Placement, size int) bool {
		face, _ := loader.Load("body.ttf", size)
		lines, err := breakLines(text, face, float64(p.W))
		if err != nil {
			return false
		}
		return face.BBox(multiline(lines), 0).FitsIn(p)
	}

	for _, text := range texts {
		for _, p := range rects {
			fitting := false
			for size := DefaultMaxFontSize; size >= MinFontSize; size-- {
				ok := fits(text, p, size)
				if fitting && !ok {
					t.Fatalf("fit set not downward closed for %q in %+v at size %d", text, p, size)
				}
				if ok {
					fitting = true
				}
			}
		}
	}
}

func TestFitRowOverflowFallsBackToUnsplitText(t *testing.T) {
	e := &Engine{Fonts: scaledLoader{}}
	// 宽度放不下最小字号的单个字符：期待降级为未拆分原文，而不是报错。
	res, err := e.Fit("overflow", Placement{W: 3, H: 100}, nil, Options{FontFile: "body.ttf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fit {
		t.Fatal("degenerate layout must not be reported as fitting")
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "overflow" {
		t.Fatalf("expected unsplit fallback, got %#v", res.Lines)
	}
	if res.FontSize != MinFontSize {
		t.Fatalf("fallback should happen at the floor, got size %d", res.FontSize)
	}
}

func TestFitRowOverflowWithEmbedsReportsDrops(t *testing.T) {
	images := &fakeImages{sizes: map[string][2]int{"fire.png": {64, 64}}}
	e := &Engine{Fonts: scaledLoader{}, Images: images}
	res, err := e.Fit("x [FIRE] y", Placement{W: 3, H: 100},
		map[string]string{"[FIRE]": "fire.png"}, Options{FontFile: "body.ttf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EmbedsDropped != 1 {
		t.Fatalf("expected 1 dropped embed, got %d", res.EmbedsDropped)
	}
	if len(res.Embeds) != 0 {
		t.Fatalf("fallback must not place embeds: %#v", res.Embeds)
	}
}

func TestFitFloorKeepsLastLayout(t *testing.T) {
	e := &Engine{Fonts: scaledLoader{}}
	// 能折行但高度永远超出：区域高度小于最小字号的单行行高。
	res, err := e.Fit("aa bb", Placement{W: 500, H: 5}, nil, Options{FontFile: "body.ttf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fit {
		t.Fatal("expected fit failure")
	}
	if res.FontSize != MinFontSize {
		t.Fatalf("expected floor size %d, got %d", MinFontSize, res.FontSize)
	}
	if len(res.Lines) == 0 {
		t.Fatal("best-effort layout missing lines")
	}
}

func TestFitSpacingFollowsRatio(t *testing.T) {
	e := &Engine{Fonts: scaledLoader{}}
	res, err := e.Fit("hello", Placement{W: 1000, H: 1000}, nil,
		Options{FontFile: "body.ttf", SpacingRatio: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := int(0.5 * res.Face.LineHeight())
	if res.Spacing != want {
		t.Fatalf("spacing = %d, want %d", res.Spacing, want)
	}
}
