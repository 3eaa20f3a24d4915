package layout

// 该文件定义布局引擎的几何基础类型，供布局计算、渲染与调试 JSON 共用。

// Placement 描述内容在卡面上的绘制区域（整数像素坐标，左上角为原点）。
// Placement 是不可变值类型：Move 返回平移后的副本，绝不修改原值。
type Placement struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Move 返回按 (dx, dy) 平移后的新 Placement。
func (p Placement) Move(dx, dy int) Placement {
	return Placement{X: p.X + dx, Y: p.Y + dy, W: p.W, H: p.H}
}

// Box 表示一个浮点像素包围盒 (x0,y0,x1,y1)，由字形度量后端产生。
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// W 返回包围盒宽度。
func (b Box) W() float64 { return b.X1 - b.X0 }

// H 返回包围盒高度。
func (b Box) H() float64 { return b.Y1 - b.Y0 }

// FitsIn 判断包围盒的宽高是否都不超过目标区域。
func (b Box) FitsIn(p Placement) bool {
	return b.W() <= float64(p.W) && b.H() <= float64(p.H)
}
