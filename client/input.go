package client

import "minispace/protocol"

// Direction 本帧采样到的方向键
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Command 方向对应的移动指令
func (d Direction) Command() (protocol.Command, bool) {
	switch d {
	case DirUp:
		return protocol.CmdMoveUp, true
	case DirDown:
		return protocol.CmdMoveDown, true
	case DirLeft:
		return protocol.CmdMoveLeft, true
	case DirRight:
		return protocol.CmdMoveRight, true
	default:
		return "", false
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// InputSource 输入源：非阻塞轮询，每帧至多一个方向
type InputSource interface {
	Poll() Direction
}
