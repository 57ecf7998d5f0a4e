package render

import (
	"math/rand"

	"minispace/world"
)

// Star 背景星星
type Star struct {
	Pos    world.Position
	Render world.Renderable
}

// GenerateStars 生成星空背景。
// 每个格子取一个 [-1,1) 的噪声值，落在 (0,0.8) 且以 1/4 概率显示；
// 噪声值同时作为亮度，把白色按该不透明度叠到黑底上。
func GenerateStars(width, height int, rng *rand.Rand) []Star {
	var stars []Star
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := rng.Float32()*2 - 1
			show := rng.Float32()
			if n > 0 && n < 0.8 && show > 0.75 {
				stars = append(stars, Star{
					Pos: world.Position{X: x, Y: y},
					Render: world.Renderable{
						Glyph: '.',
						FG:    world.Blend(world.White, world.Black, n),
						BG:    world.Black,
					},
				})
			}
		}
	}
	return stars
}

// SpawnStars 把星空放进世界，返回数量
func SpawnStars(w *world.World, stars []Star) int {
	for _, s := range stars {
		w.Spawn(s.Pos, s.Render, false)
	}
	return len(stars)
}
