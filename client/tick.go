package client

import (
	"context"
	"sync/atomic"
	"time"

	"minispace/world"
)

const (
	// TicksPerSecond 默认帧率
	TicksPerSecond = 30
)

// Sink 渲染端：每帧接收一次重绘集合
type Sink interface {
	Draw(f world.Frame)
}

// Loop 帧循环：收网络 → 本地输入 → 计算重绘集合，顺序固定
type Loop struct {
	Engine  *Engine
	Channel Channel
	Input   InputSource
	Sink    Sink

	// MaxDatagramsPerTick 每帧最多处理的数据报数，默认 1
	MaxDatagramsPerTick int

	tickSeq atomic.Int64 // 调试接口会跨协程读取
}

// Tick 推进一帧并返回本帧的重绘集合
func (l *Loop) Tick() world.Frame {
	// 1. 网络：先于本地输入，保证远端更新不会被过期的本地计算覆盖
	limit := l.MaxDatagramsPerTick
	if limit <= 0 {
		limit = 1
	}
	if l.Channel != nil {
		for i := 0; i < limit; i++ {
			b, ok := l.Channel.TryReceive()
			if !ok {
				break
			}
			l.Engine.HandleDatagram(b)
		}
	}

	// 2. 本地输入：本帧的移动在本帧渲染中可见
	if l.Input != nil {
		if cmd, ok := l.Input.Poll().Command(); ok {
			l.Engine.ApplyLocalMove(cmd)
		}
	}

	// 3. 重绘集合
	f := l.Engine.World.TakeFrame()
	if l.Sink != nil && !f.Empty() {
		l.Sink.Draw(f)
	}
	l.tickSeq.Add(1)
	return f
}

// Seq 已推进的帧数
func (l *Loop) Seq() int64 { return l.tickSeq.Load() }

// Run 以固定间隔驱动 Tick，直到 ctx 取消
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			l.Tick()
			l.Engine.Metrics().AddTick(time.Since(start).Nanoseconds())
		}
	}
}
