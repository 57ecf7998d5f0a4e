package client

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"syscall"

	"minispace/protocol"
)

// ErrClosed 通道已关闭
var ErrClosed = errors.New("channel closed")

// Channel 不可靠数据报通道：非阻塞接收、发后即忘发送
type Channel interface {
	Sender
	// TryReceive 取出一个待处理的数据报；没有数据时立即返回 false
	TryReceive() ([]byte, bool)
	Close() error
}

const (
	recvQueueSize = 256
	maxDatagram   = 64 * 1024
)

// inbox 读泵写入、帧循环非阻塞读取的有界队列
type inbox struct {
	ch      chan []byte
	metrics *SyncMetrics
}

func newInbox(metrics *SyncMetrics) inbox {
	if metrics == nil {
		metrics = &SyncMetrics{}
	}
	return inbox{ch: make(chan []byte, recvQueueSize), metrics: metrics}
}

// push 非阻塞入队，满则丢弃（不可靠通道本身就允许丢包）
func (q inbox) push(b []byte) {
	select {
	case q.ch <- b:
	default:
		q.metrics.IncQueueFullDiscarded()
		Log.Debugf("receive queue full, dropping %d bytes", len(b))
	}
}

func (q inbox) TryReceive() ([]byte, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
		return nil, false
	}
}

// UDPChannel 基于已连接 UDP socket 的通道
type UDPChannel struct {
	inbox
	conn      *net.UDPConn
	closeOnce sync.Once
	done      chan struct{}
}

// DialUDP 绑定本地任意端口并连接到服务端地址
func DialUDP(addr string, metrics *SyncMetrics) (*UDPChannel, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}
	c := &UDPChannel{inbox: newInbox(metrics), conn: conn, done: make(chan struct{})}
	go c.readPump()
	return c, nil
}

// readPump 独立协程，把收到的数据报压入队列
func (c *UDPChannel) readPump() {
	buf := make([]byte, maxDatagram)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			// 已连接 UDP 上对端端口不可达会返回 ECONNREFUSED，属于瞬时错误
			if errors.Is(err, syscall.ECONNREFUSED) {
				continue
			}
			if !errors.Is(err, net.ErrClosed) {
				Log.Warnf("udp read: %v", err)
			}
			return
		}
		b := make([]byte, n)
		copy(b, buf[:n])
		c.push(b)
	}
}

func (c *UDPChannel) Send(b []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	_, err := c.conn.Write(b)
	return err
}

func (c *UDPChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// LocalAddr 本地绑定地址
func (c *UDPChannel) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// Dial 按地址选择传输：ws:// 或 wss:// 走 WebSocket，其余走 UDP。
// 建立后发送一次 connect 指令，这是唯一的建连信号。
func Dial(addr string, metrics *SyncMetrics) (Channel, error) {
	var (
		ch  Channel
		err error
	)
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		ch, err = DialWS(addr, metrics)
	} else {
		ch, err = DialUDP(addr, metrics)
	}
	if err != nil {
		return nil, err
	}
	if err := ch.Send(protocol.Encode(protocol.CmdConnect)); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("send connect: %w", err)
	}
	return ch, nil
}
