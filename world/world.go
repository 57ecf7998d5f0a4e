package world

import "errors"

// LocalID 本地玩家的保留标识
const LocalID = "me"

// ErrAlreadyRegistered 同一标识重复注册
var ErrAlreadyRegistered = errors.New("player already registered")

// Entity 实体句柄；零值表示无效句柄
type Entity uint32

// record 实体记录：组件直接存放在世界里，更新位置即原地改写
type record struct {
	pos    Position
	render Renderable
	player string
	ignore bool // 纯逻辑实体，永不进入重绘集合

	dirty bool
	prev  Position // 上一次渲染时所在格子
}

// World 实体存储与玩家注册表，由帧循环独占，不加锁
type World struct {
	records []record
	players map[string]Entity
}

// New 创建空世界
func New() *World {
	return &World{players: make(map[string]Entity)}
}

// Spawn 创建非玩家实体（如星星）；新实体标记为脏，以便首帧绘制
func (w *World) Spawn(pos Position, r Renderable, ignore bool) Entity {
	w.records = append(w.records, record{pos: pos, render: r, ignore: ignore, dirty: true, prev: pos})
	return Entity(len(w.records))
}

// Register 为玩家创建实体并登记映射。
// 重复注册返回已有句柄与 ErrAlreadyRegistered，已有实体保持不变。
func (w *World) Register(id string, pos Position) (Entity, error) {
	if e, ok := w.players[id]; ok {
		return e, ErrAlreadyRegistered
	}
	e := w.Spawn(pos, PlayerGlyph, false)
	w.records[e-1].player = id
	w.players[id] = e
	return e, nil
}

// Lookup O(1) 查找玩家实体
func (w *World) Lookup(id string) (Entity, bool) {
	e, ok := w.players[id]
	return e, ok
}

func (w *World) get(e Entity) *record {
	if e == 0 || int(e) > len(w.records) {
		return nil
	}
	return &w.records[e-1]
}

// Position 读取实体位置
func (w *World) Position(e Entity) (Position, bool) {
	r := w.get(e)
	if r == nil {
		return Position{}, false
	}
	return r.pos, true
}

// SetPosition 整体覆盖实体位置并标记为脏；句柄无效时返回 false
func (w *World) SetPosition(e Entity, pos Position) bool {
	r := w.get(e)
	if r == nil {
		return false
	}
	r.pos = pos
	r.dirty = true
	return true
}

// Dirty 实体的脏标记
func (w *World) Dirty(e Entity) bool {
	r := w.get(e)
	return r != nil && r.dirty
}

// Player 实体对应的玩家标识（非玩家实体为空）
func (w *World) Player(e Entity) string {
	if r := w.get(e); r != nil {
		return r.player
	}
	return ""
}

// Len 实体总数
func (w *World) Len() int { return len(w.records) }

// Players 已登记玩家数
func (w *World) Players() int { return len(w.players) }

// TakeFrame 消费脏标记，计算本帧的重绘集合。
// 被移动实体离开的格子记入 Vacated；任何落在这些格子上的非 ignore 实体
// 与脏实体一起重绘，每个实体至多出现一次。
func (w *World) TakeFrame() Frame {
	var f Frame
	var vacated map[Position]struct{}
	for i := range w.records {
		r := &w.records[i]
		if r.prev == r.pos {
			continue
		}
		if !r.ignore {
			if vacated == nil {
				vacated = make(map[Position]struct{})
			}
			if _, seen := vacated[r.prev]; !seen {
				vacated[r.prev] = struct{}{}
				f.Vacated = append(f.Vacated, r.prev)
			}
		}
		r.prev = r.pos
	}
	for i := range w.records {
		r := &w.records[i]
		redraw := r.dirty
		if !redraw && vacated != nil {
			_, redraw = vacated[r.pos]
		}
		r.dirty = false
		if !redraw || r.ignore {
			continue
		}
		f.Draws = append(f.Draws, Draw{X: r.pos.X, Y: r.pos.Y, Glyph: r.render.Glyph, FG: r.render.FG, BG: r.render.BG})
	}
	return f
}
