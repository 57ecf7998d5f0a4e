package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed 条目字段数不对或坐标不是整数
var ErrMalformed = errors.New("malformed entry")

// Decode 解析一个服务端数据报。
// 缺少 ':' 的报文得到 Op 为空的 NoopEvent。
// 格式错误的条目被丢弃，对应错误收集在 dropped 中，仅用于观测；
// 整批处理不会因此中断。未知操作码得到 NoopEvent。
func Decode(b []byte) (ev Event, dropped []error) {
	op, payload, found := strings.Cut(string(b), OpSep)
	if !found {
		// 没有操作码分隔符，整条视为未知报文
		return NoopEvent{}, nil
	}
	switch op {
	case OpRoster:
		roster := RosterEvent{}
		for _, raw := range strings.Split(payload, EntrySep) {
			if raw == "" {
				// 结尾多余的 ';'
				continue
			}
			e, err := ParseEntry(raw)
			if err != nil {
				dropped = append(dropped, err)
				continue
			}
			roster.Entries = append(roster.Entries, e)
		}
		return roster, dropped
	case OpUpdate:
		e, err := ParseEntry(payload)
		if err != nil {
			return NoopEvent{Op: op}, []error{err}
		}
		return UpdateEvent{Entry: e}, nil
	default:
		return NoopEvent{Op: op}, nil
	}
}

// ParseEntry 解析 "<id>,<x>,<y>"
func ParseEntry(s string) (Entry, error) {
	fields := strings.Split(s, FieldSep)
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w %q: want 3 fields, got %d", ErrMalformed, s, len(fields))
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, fmt.Errorf("%w %q: x: %v", ErrMalformed, s, err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return Entry{}, fmt.Errorf("%w %q: y: %v", ErrMalformed, s, err)
	}
	return Entry{ID: fields[0], X: x, Y: y}, nil
}

// Encode 编码客户端指令，确定性且无转义
func Encode(c Command) []byte {
	return []byte(c)
}

// EncodeRoster 服务端侧：编码花名册报文
func EncodeRoster(entries []Entry) []byte {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.String())
	}
	return []byte(OpRoster + OpSep + strings.Join(parts, EntrySep))
}

// EncodeUpdate 服务端侧：编码单条位置更新
func EncodeUpdate(e Entry) []byte {
	return []byte(OpUpdate + OpSep + e.String())
}

func (e Entry) String() string {
	return e.ID + FieldSep + strconv.Itoa(e.X) + FieldSep + strconv.Itoa(e.Y)
}
