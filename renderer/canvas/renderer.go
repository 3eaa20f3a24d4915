package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/wrenfield/cardforge/card"
	"github.com/wrenfield/cardforge/imageprov"
	"github.com/wrenfield/cardforge/layout"
	"github.com/wrenfield/cardforge/renderer"
)

// pxToPt 把像素字号换算为创建字体面所需的点值。
// 画布以 1 单位 = 1 像素建立，栅格化分辨率固定为 DPMM(1)，
// 因此 canvas 内部的毫米单位在这里直接当像素用。
const pxToPt = 72.0 / 25.4

// Renderer 基于 github.com/tdewolff/canvas 把卡面画成 PNG，
// 同时以真实字形度量实现 layout.FontLoader。
type Renderer struct {
	baseDir string
	images  *imageprov.Provider
	logger  *zap.Logger

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.FontLoader = (*Renderer)(nil)
	_ card.Target       = (*cardTarget)(nil)
)

// Options 配置 canvas 渲染器。
type Options struct {
	// BaseDir 用于解析相对字体路径。
	BaseDir string
	// Images 提供卡面图片；嵌入图片与静态图片层共用。
	Images *imageprov.Provider
	Logger *zap.Logger
}

// New 创建 canvas 渲染器。
func New(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		images:       opts.Images,
		logger:       logger,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// fontFace 把 canvas 字体面适配为布局引擎的度量接口。
type fontFace struct {
	face *canvas.FontFace
}

func (f *fontFace) TextWidth(s string) float64 { return f.face.TextWidth(s) }

func (f *fontFace) LineHeight() float64 { return f.face.Metrics().LineHeight }

func (f *fontFace) BBox(multiline string, spacing float64) layout.Box {
	lines := strings.Split(multiline, "\n")
	maxW := 0.0
	for _, line := range lines {
		if w := f.face.TextWidth(line); w > maxW {
			maxW = w
		}
	}
	h := float64(len(lines))*f.LineHeight() + float64(len(lines)-1)*spacing
	return layout.Box{X1: maxW, Y1: h}
}

// Load implements layout.FontLoader. 字号单位为像素。
func (r *Renderer) Load(fontFile string, size int) (layout.Face, error) {
	family, err := r.ensureFontFamily(fontFile)
	if err != nil {
		return nil, err
	}
	face := family.Face(float64(size)*pxToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	return &fontFace{face: face}, nil
}

func (r *Renderer) ensureFontFamily(fontFile string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[fontFile]; ok {
		return family, nil
	}

	path := fontFile
	if r.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", fontFile, err)
	}

	name := strings.TrimSuffix(filepath.Base(fontFile), filepath.Ext(fontFile))
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", fontFile, err)
	}
	r.fontFamilies[fontFile] = family
	return family, nil
}

// RenderCard 把一张卡面渲染为 PNG 字节。
func (r *Renderer) RenderCard(c *card.Card) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("卡面为空")
	}
	if c.W <= 0 || c.H <= 0 {
		return nil, fmt.Errorf("卡面 %s 尺寸非法 (%d×%d)", c.Name, c.W, c.H)
	}

	cnv := canvas.New(float64(c.W), float64(c.H))
	ctx := canvas.NewContext(cnv)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点

	// 白色底。
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(c.W), float64(c.H)))

	target := &cardTarget{r: r, ctx: ctx}
	if err := c.Render(target); err != nil {
		return nil, err
	}

	img := rasterizer.Draw(cnv, canvas.DPMM(1), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// cardTarget 把布局结果落到一张卡面的绘制上下文。
type cardTarget struct {
	r   *Renderer
	ctx *canvas.Context
}

func (t *cardTarget) DrawTextBlock(res *layout.FittedResult, place layout.Placement) error {
	face, ok := res.Face.(*fontFace)
	if !ok || face == nil {
		return fmt.Errorf("布局结果缺少可绘制的字体面")
	}

	metrics := face.face.Metrics()
	stride := metrics.LineHeight + float64(res.Spacing)
	top := float64(place.Y + res.VOffset)

	for i, line := range res.Lines {
		if line.Text == "" {
			continue
		}
		textLine := canvas.NewTextLine(face.face, line.Text, canvas.Left)
		baseline := top + float64(i)*stride + metrics.Ascent
		t.ctx.DrawText(float64(place.X), baseline, textLine)
	}
	return nil
}

func (t *cardTarget) DrawImage(path string, place layout.Placement) error {
	if t.r.images == nil {
		return fmt.Errorf("渲染器缺少图片提供方")
	}
	if place.W <= 0 || place.H <= 0 {
		t.r.logger.Warn("skipping degenerate image placement",
			zap.String("image", path),
			zap.Int("w", place.W),
			zap.Int("h", place.H))
		return nil
	}

	handle, err := t.r.images.Get(path)
	if err != nil {
		return err
	}
	defer handle.Close()

	src := handle.Image()
	scaled := image.NewRGBA(image.Rect(0, 0, place.W, place.H))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	t.ctx.DrawImage(float64(place.X), float64(place.Y), scaled, canvas.DPMM(1))
	return nil
}
