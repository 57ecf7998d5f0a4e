package client

import (
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitReceive(t *testing.T, ch Channel) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b, ok := ch.TryReceive(); ok {
			return b
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no datagram received")
	return nil
}

func TestUDPChannelRoundTrip(t *testing.T) {
	srv, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer srv.Close()

	ch, err := Dial(srv.LocalAddr().String(), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	if _, ok := ch.TryReceive(); ok {
		t.Fatalf("TryReceive should not block or return data yet")
	}

	buf := make([]byte, 64)
	_ = srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, from, err := srv.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	if string(buf[:n]) != "connect" {
		t.Fatalf("first datagram = %q, want connect", buf[:n])
	}

	if _, err := srv.WriteToUDP([]byte("u:alice,6,5"), from); err != nil {
		t.Fatalf("server write: %v", err)
	}
	if got := string(waitReceive(t, ch)); got != "u:alice,6,5" {
		t.Fatalf("received %q", got)
	}

	if err := ch.Send([]byte("mr")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	n, _, err = srv.ReadFromUDP(buf)
	if err != nil || string(buf[:n]) != "mr" {
		t.Fatalf("server read = %q, %v", buf[:n], err)
	}
}

func TestUDPChannelSendAfterClose(t *testing.T) {
	srv, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer srv.Close()
	ch, err := DialUDP(srv.LocalAddr().String(), nil)
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ch.Send([]byte("ml")); err != ErrClosed {
		t.Fatalf("Send after close = %v, want ErrClosed", err)
	}
	_ = ch.Close()
}

func TestInboxDropsWhenFull(t *testing.T) {
	m := &SyncMetrics{}
	q := newInbox(m)
	for i := 0; i < recvQueueSize+3; i++ {
		q.push([]byte("u:a,1,1"))
	}
	if m.QueueFullDiscarded != 3 {
		t.Fatalf("discarded = %d, want 3", m.QueueFullDiscarded)
	}
	n := 0
	for {
		if _, ok := q.TryReceive(); !ok {
			break
		}
		n++
	}
	if n != recvQueueSize {
		t.Fatalf("drained %d, want %d", n, recvQueueSize)
	}
}

func TestWSChannelRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			got <- string(msg)
			if string(msg) == "connect" {
				_ = ws.WriteMessage(websocket.TextMessage, []byte("c:alice,5,5;bob,2,9"))
			}
		}
	}))
	defer srv.Close()

	ch, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	if first := <-got; first != "connect" {
		t.Fatalf("first message = %q", first)
	}
	if b := string(waitReceive(t, ch)); b != "c:alice,5,5;bob,2,9" {
		t.Fatalf("received %q", b)
	}
	if err := ch.Send([]byte("mu")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case m := <-got:
		if m != "mu" {
			t.Fatalf("server got %q", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never got mu")
	}
}

func TestWSChannelSendAfterClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ch, err := DialWS("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("DialWS: %v", err)
	}
	_ = ch.Close()
	if err := ch.Send([]byte("ml")); err != ErrClosed {
		t.Fatalf("Send after close = %v, want ErrClosed", err)
	}
}

func writePumps() int {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return strings.Count(string(buf[:n]), "(*WSChannel).writePump")
}

func TestWSChannelCloseRightAfterDialStopsWriter(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	for i := 0; i < 50; i++ {
		ch, err := DialWS(url, nil)
		if err != nil {
			t.Fatalf("DialWS: %v", err)
		}
		_ = ch.Close()
	}

	deadline := time.Now().Add(2 * time.Second)
	for writePumps() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d writePump goroutines still running after Close", writePumps())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
