package render

import (
	"github.com/gdamore/tcell/v2"

	"minispace/world"
)

// Screen 基于 tcell 的渲染端，只重绘每帧变化的格子
type Screen struct {
	s      tcell.Screen
	width  int
	height int
}

// NewScreen 包装已初始化的 tcell.Screen；网格大小来自配置
func NewScreen(s tcell.Screen, width, height int) *Screen {
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{s: s, width: width, height: height}
}

// Draw 先清空被离开的格子，再画脏实体；网格外的坐标直接跳过
func (r *Screen) Draw(f world.Frame) {
	blank := Style(world.White, world.Black)
	for _, p := range f.Vacated {
		if r.inGrid(p.X, p.Y) {
			r.s.SetContent(p.X, p.Y, ' ', nil, blank)
		}
	}
	for _, d := range f.Draws {
		if r.inGrid(d.X, d.Y) {
			r.s.SetContent(d.X, d.Y, d.Glyph, nil, Style(d.FG, d.BG))
		}
	}
	r.s.Show()
}

func (r *Screen) inGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// Style 把实体颜色转换成 tcell 样式
func Style(fg, bg world.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(Color(fg)).Background(Color(bg))
}

// Color 把 [0,1] 浮点 RGB 转换成 24 位色
func Color(c world.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) int32 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return int32(v*255 + 0.5)
	}
}
