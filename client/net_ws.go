package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrSendQueueFull 发送队列已满，指令被丢弃
var ErrSendQueueFull = errors.New("send queue full")

// WSChannel 以 WebSocket 文本帧承载数据报的通道。
// 每帧对应一个数据报；依旧按不可靠通道对待，队列满时丢弃。
type WSChannel struct {
	inbox
	ws   *websocket.Conn
	mu   sync.Mutex
	send chan []byte
}

// DialWS 连接到 ws:// 或 wss:// 服务端，启动读写协程
func DialWS(url string, metrics *SyncMetrics) (*WSChannel, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial ws %s: %w", url, err)
	}
	c := &WSChannel{
		inbox: newInbox(metrics),
		ws:    ws,
		send:  make(chan []byte, 64),
	}
	// 把通道交给写协程，Close 置空字段不会影响它
	go c.writePump(c.send)
	go c.readPump()
	return c, nil
}

// Send 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *WSChannel) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.send == nil {
		return ErrClosed
	}
	select {
	case c.send <- b:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close 关闭发送队列与底层连接
func (c *WSChannel) Close() error {
	c.mu.Lock()
	if c.send != nil {
		// 关闭发送通道以结束写协程
		close(c.send)
		c.send = nil
	}
	c.mu.Unlock()
	return c.ws.Close()
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *WSChannel) writePump(send <-chan []byte) {
	for msg := range send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			Log.Debugf("ws write: %v", err)
			return
		}
	}
}

// readPump 读取服务端消息，压入接收队列
func (c *WSChannel) readPump() {
	c.ws.SetReadLimit(maxDatagram)
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				Log.Debugf("ws read: %v", err)
			}
			return
		}
		c.push(payload)
	}
}
