package protocol

// 服务端 → 客户端的操作码（"<op>:<payload>" 中的 op）
const (
	OpRoster = "c" // 花名册：当前所有玩家及其位置
	OpUpdate = "u" // 单个玩家的位置更新
)

// 线协议分隔符（无转义规则，ID 中不得出现这些字符）
const (
	OpSep    = ":"
	EntrySep = ";"
	FieldSep = ","
)

// Command 客户端 → 服务端的指令（定长文本，无载荷、无确认、无序号）
type Command string

const (
	CmdConnect   Command = "connect"
	CmdMoveLeft  Command = "ml"
	CmdMoveRight Command = "mr"
	CmdMoveUp    Command = "mu"
	CmdMoveDown  Command = "md"
)

// Delta 返回移动指令对应的单位位移；非移动指令返回 ok=false
func (c Command) Delta() (dx, dy int, ok bool) {
	switch c {
	case CmdMoveLeft:
		return -1, 0, true
	case CmdMoveRight:
		return 1, 0, true
	case CmdMoveUp:
		return 0, -1, true
	case CmdMoveDown:
		return 0, 1, true
	default:
		return 0, 0, false
	}
}

// MoveCommand 单位位移对应的移动指令，是 Delta 的逆映射
func MoveCommand(dx, dy int) (Command, bool) {
	switch {
	case dx == -1 && dy == 0:
		return CmdMoveLeft, true
	case dx == 1 && dy == 0:
		return CmdMoveRight, true
	case dx == 0 && dy == -1:
		return CmdMoveUp, true
	case dx == 0 && dy == 1:
		return CmdMoveDown, true
	default:
		return "", false
	}
}

// Entry 一条 "<id>,<x>,<y>" 记录
type Entry struct {
	ID string
	X  int
	Y  int
}

// Event 解码后的服务端事件（RosterEvent / UpdateEvent / NoopEvent 之一）
type Event interface {
	event()
}

// RosterEvent 花名册事件，保持线上的条目顺序
type RosterEvent struct {
	Entries []Entry
}

// UpdateEvent 单个玩家的位置覆盖
type UpdateEvent struct {
	Entry
}

// NoopEvent 未知操作码或无法识别的报文，应用时不做任何事
type NoopEvent struct {
	Op string
}

func (RosterEvent) event() {}
func (UpdateEvent) event() {}
func (NoopEvent) event()   {}
