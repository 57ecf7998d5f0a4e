package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"minispace/client"
)

// Keyboard 把 tcell 按键事件转换为每帧可轮询的方向输入。
// 事件读取在独立协程，帧循环通过 Poll 非阻塞取值。
type Keyboard struct {
	s    tcell.Screen
	dirs chan client.Direction
	quit chan struct{}
	once sync.Once
}

// NewKeyboard 启动事件协程；Esc 或 Ctrl-C 触发 Quit
func NewKeyboard(s tcell.Screen) *Keyboard {
	k := &Keyboard{
		s:    s,
		dirs: make(chan client.Direction, 8),
		quit: make(chan struct{}),
	}
	go k.pump()
	return k
}

func (k *Keyboard) pump() {
	for {
		ev := k.s.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// Fini 之后 PollEvent 返回 nil
			return
		case *tcell.EventResize:
			k.s.Sync()
		case *tcell.EventKey:
			if IsQuit(ev) {
				k.once.Do(func() { close(k.quit) })
				continue
			}
			if d := DirectionOf(ev); d != client.DirNone {
				select {
				case k.dirs <- d:
				default:
					// 按键积压时丢弃，避免输入越攒越多
				}
			}
		}
	}
}

// Poll 每帧至多取一个方向
func (k *Keyboard) Poll() client.Direction {
	select {
	case d := <-k.dirs:
		return d
	default:
		return client.DirNone
	}
}

// Quit 用户请求退出
func (k *Keyboard) Quit() <-chan struct{} { return k.quit }

// DirectionOf 方向键映射
func DirectionOf(ev *tcell.EventKey) client.Direction {
	switch ev.Key() {
	case tcell.KeyLeft:
		return client.DirLeft
	case tcell.KeyRight:
		return client.DirRight
	case tcell.KeyUp:
		return client.DirUp
	case tcell.KeyDown:
		return client.DirDown
	default:
		return client.DirNone
	}
}

// IsQuit Esc / Ctrl-C
func IsQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC
}
