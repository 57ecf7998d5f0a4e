package client

import (
	"errors"

	"minispace/protocol"
	"minispace/world"
)

// Sender 发送端：发后即忘，无送达确认
type Sender interface {
	Send(b []byte) error
}

// Engine 同步引擎：把解码后的服务端事件与本地输入落到世界状态上。
// 世界由帧循环独占，引擎只在帧循环线程内调用，不加锁。
type Engine struct {
	World   *world.World
	out     Sender
	metrics *SyncMetrics
}

// NewEngine 创建引擎；metrics 可为 nil
func NewEngine(w *world.World, out Sender, metrics *SyncMetrics) *Engine {
	if metrics == nil {
		metrics = &SyncMetrics{}
	}
	return &Engine{World: w, out: out, metrics: metrics}
}

// Metrics 引擎使用的指标
func (e *Engine) Metrics() *SyncMetrics { return e.metrics }

// HandleDatagram 解码一个数据报并应用
func (e *Engine) HandleDatagram(b []byte) {
	e.metrics.IncReceived()
	ev, dropped := protocol.Decode(b)
	for _, err := range dropped {
		Log.Debugf("drop entry: %v", err)
	}
	e.metrics.AddDropped(len(dropped))
	e.Apply(ev)
}

// Apply 应用一个服务端事件。
// 花名册只创建、不移动已存在的玩家；位置更新则创建或整体覆盖。
func (e *Engine) Apply(ev protocol.Event) {
	switch ev := ev.(type) {
	case protocol.RosterEvent:
		for _, entry := range ev.Entries {
			if _, ok := e.World.Lookup(entry.ID); ok {
				e.metrics.IncRosterIgnored()
				continue
			}
			e.register(entry)
		}
	case protocol.UpdateEvent:
		if ent, ok := e.World.Lookup(ev.ID); ok {
			e.World.SetPosition(ent, world.Position{X: ev.X, Y: ev.Y})
			e.metrics.IncUpdated()
			return
		}
		// 未知玩家的更新视为迟到的创建
		Log.Debugf("update for unknown player %q, creating", ev.ID)
		e.register(ev.Entry)
	case protocol.NoopEvent:
		if ev.Op == protocol.OpUpdate {
			// 格式错误的更新，已在解码时计入丢弃
			return
		}
		e.metrics.IncUnknownOp()
		Log.Debugf("ignore op %q", ev.Op)
	}
}

func (e *Engine) register(entry protocol.Entry) {
	if _, err := e.World.Register(entry.ID, world.Position{X: entry.X, Y: entry.Y}); err != nil {
		// 调用方已先查过，这里不应发生
		Log.Warnf("register %q: %v", entry.ID, err)
		return
	}
	e.metrics.IncCreated()
	Log.Infof("player joined: id=%s pos=(%d,%d)", entry.ID, entry.X, entry.Y)
}

// ApplyLocalDelta 按位移 (dx,dy) 移动本地玩家；只接受四个方向的单位位移，
// 因为线上只有 ml/mr/mu/md 四条指令能表达它。
func (e *Engine) ApplyLocalDelta(dx, dy int) bool {
	cmd, ok := protocol.MoveCommand(dx, dy)
	if !ok {
		Log.Debugf("no command for local delta (%d,%d)", dx, dy)
		return false
	}
	e.ApplyLocalMove(cmd)
	return true
}

// ApplyLocalMove 本地玩家按指令的位移（cmd.Delta）移动一步并发送该指令。
// 移动与发送一一对应：本地实体不存在时指令照发，保持与现有对端兼容。
func (e *Engine) ApplyLocalMove(cmd protocol.Command) {
	dx, dy, ok := cmd.Delta()
	if !ok {
		return
	}
	e.metrics.IncLocalMove()
	if ent, found := e.World.Lookup(world.LocalID); found {
		pos, _ := e.World.Position(ent)
		pos.X += dx
		pos.Y += dy
		e.World.SetPosition(ent, pos)
	} else {
		e.metrics.IncLocalMissing()
		Log.Warnf("local player %q missing, sending %s anyway", world.LocalID, cmd)
	}
	e.send(cmd)
}

func (e *Engine) send(cmd protocol.Command) {
	if e.out == nil {
		return
	}
	if err := e.out.Send(protocol.Encode(cmd)); err != nil {
		e.metrics.IncSendError()
		if !errors.Is(err, ErrClosed) {
			Log.Debugf("send %s: %v", cmd, err)
		}
		return
	}
	e.metrics.IncSent()
}
