package world

// Position 网格坐标；不做越界裁剪，由渲染端跳过网格外的格子
type Position struct {
	X int
	Y int
}

// Color RGB 颜色，分量取值 [0,1]
type Color struct {
	R, G, B float32
}

var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
)

// Blend 将前景色以 alpha 不透明度叠加到背景色上
func Blend(fg, bg Color, alpha float32) Color {
	return Color{
		R: (1-alpha)*bg.R + alpha*fg.R,
		G: (1-alpha)*bg.G + alpha*fg.G,
		B: (1-alpha)*bg.B + alpha*fg.B,
	}
}

// Renderable 字形与前景/背景色，创建后不再变化
type Renderable struct {
	Glyph rune
	FG    Color
	BG    Color
}

// PlayerGlyph 所有玩家共用的外观
var PlayerGlyph = Renderable{Glyph: '@', FG: White, BG: Black}

// Draw 渲染端的一次绘制调用
type Draw struct {
	X, Y  int
	Glyph rune
	FG    Color
	BG    Color
}

// Frame 一帧的重绘集合：先清空 Vacated 格子，再执行 Draws
type Frame struct {
	Vacated []Position
	Draws   []Draw
}

// Empty 本帧无需重绘
func (f Frame) Empty() bool {
	return len(f.Vacated) == 0 && len(f.Draws) == 0
}
