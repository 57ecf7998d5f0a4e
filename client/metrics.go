package client

import (
	"sync/atomic"
)

// SyncMetrics 记录同步引擎运行期的关键指标（用于监控与调试）。
// 帧循环写、调试接口读，因此用原子操作。
type SyncMetrics struct {
	TickCount          int64 // 帧数
	TotalTickNs        int64 // 帧累计耗时（纳秒）
	DatagramsReceived  int64 // 取出并解码的数据报
	QueueFullDiscarded int64 // 接收缓冲满被丢弃的数据报
	EntriesDropped     int64 // 格式错误被丢弃的条目
	UnknownOps         int64 // 未知操作码
	PlayersCreated     int64 // 新登记的玩家（含迟到的创建）
	UpdatesApplied     int64 // 对已存在玩家的位置覆盖
	RosterIgnored      int64 // 花名册中已存在、被忽略的条目
	LocalMoves         int64 // 本地移动输入
	LocalMissing       int64 // 本地实体不存在的移动
	CommandsSent       int64 // 成功发出的指令
	SendErrors         int64 // 发送失败
}

func (m *SyncMetrics) IncReceived()           { atomic.AddInt64(&m.DatagramsReceived, 1) }
func (m *SyncMetrics) IncQueueFullDiscarded() { atomic.AddInt64(&m.QueueFullDiscarded, 1) }
func (m *SyncMetrics) AddDropped(n int)       { atomic.AddInt64(&m.EntriesDropped, int64(n)) }
func (m *SyncMetrics) IncUnknownOp()          { atomic.AddInt64(&m.UnknownOps, 1) }
func (m *SyncMetrics) IncCreated()            { atomic.AddInt64(&m.PlayersCreated, 1) }
func (m *SyncMetrics) IncUpdated()            { atomic.AddInt64(&m.UpdatesApplied, 1) }
func (m *SyncMetrics) IncRosterIgnored()      { atomic.AddInt64(&m.RosterIgnored, 1) }
func (m *SyncMetrics) IncLocalMove()          { atomic.AddInt64(&m.LocalMoves, 1) }
func (m *SyncMetrics) IncLocalMissing()       { atomic.AddInt64(&m.LocalMissing, 1) }
func (m *SyncMetrics) IncSent()               { atomic.AddInt64(&m.CommandsSent, 1) }
func (m *SyncMetrics) IncSendError()          { atomic.AddInt64(&m.SendErrors, 1) }
func (m *SyncMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *SyncMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":           tick,
		"avg_tick_ms":          avgMs,
		"datagrams_received":   atomic.LoadInt64(&m.DatagramsReceived),
		"queue_full_discarded": atomic.LoadInt64(&m.QueueFullDiscarded),
		"entries_dropped":      atomic.LoadInt64(&m.EntriesDropped),
		"unknown_ops":          atomic.LoadInt64(&m.UnknownOps),
		"players_created":      atomic.LoadInt64(&m.PlayersCreated),
		"updates_applied":      atomic.LoadInt64(&m.UpdatesApplied),
		"roster_ignored":       atomic.LoadInt64(&m.RosterIgnored),
		"local_moves":          atomic.LoadInt64(&m.LocalMoves),
		"local_missing":        atomic.LoadInt64(&m.LocalMissing),
		"commands_sent":        atomic.LoadInt64(&m.CommandsSent),
		"send_errors":          atomic.LoadInt64(&m.SendErrors),
	}
}
