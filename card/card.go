package card

import (
	"fmt"

	"github.com/wrenfield/cardforge/layout"
)

// Target 是卡面绘制后端的能力接口：布局阶段产出几何结果，
// 渲染后端只负责把文本块与图片画到指定矩形。
type Target interface {
	DrawTextBlock(res *layout.FittedResult, place layout.Placement) error
	DrawImage(path string, place layout.Placement) error
}

// Layer 是卡面的一个绘制层。各层按声明顺序依次落到 Target 上。
type Layer interface {
	Render(target Target) error
}

// Card 描述一张待渲染的卡面：像素尺寸与有序的绘制层。
type Card struct {
	Name   string
	W      int
	H      int
	Layers []Layer
}

// Render 依序渲染所有层。任何一层失败即中止并携带层序号返回。
func (c *Card) Render(target Target) error {
	for i, layer := range c.Layers {
		if err := layer.Render(target); err != nil {
			return fmt.Errorf("card %s: layer %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// BasicTextLayer 在指定区域内排布一段纯文本：
// 从字号上限向下搜索直到文本放得下，放不下时按最小字号尽力绘制。
type BasicTextLayer struct {
	Engine *layout.Engine
	Text   string
	Place  layout.Placement
	Opts   layout.Options
}

func (l *BasicTextLayer) Render(target Target) error {
	res, err := l.Engine.Fit(l.Text, l.Place, nil, l.Opts)
	if err != nil {
		return err
	}
	return target.DrawTextBlock(res, l.Place)
}

// EmbeddedImageTextLayer 在纯文本层之上支持行内图片：
// 文本中的触发词被替换为空格填充，图片画入填充腾出的矩形。
type EmbeddedImageTextLayer struct {
	Engine     *layout.Engine
	Text       string
	Place      layout.Placement
	Embeddings map[string]string
	Opts       layout.Options
}

func (l *EmbeddedImageTextLayer) Render(target Target) error {
	res, err := l.Engine.Fit(l.Text, l.Place, l.Embeddings, l.Opts)
	if err != nil {
		return err
	}
	if err := target.DrawTextBlock(res, l.Place); err != nil {
		return err
	}
	for _, emb := range res.Embeds {
		if err := target.DrawImage(emb.ImageID, emb.Place); err != nil {
			return err
		}
	}
	return nil
}

// BasicImageLayer 把一张静态图片画到固定矩形，不参与文本布局。
type BasicImageLayer struct {
	Path  string
	Place layout.Placement
}

func (l *BasicImageLayer) Render(target Target) error {
	return target.DrawImage(l.Path, l.Place)
}
