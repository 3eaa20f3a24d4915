package renderer

import "github.com/wrenfield/cardforge/card"

// Renderer 将一张卡面渲染为最终图像文件的字节，例如 PNG。
type Renderer interface {
	RenderCard(c *card.Card) ([]byte, error)
}
