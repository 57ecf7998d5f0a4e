package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeRoster(t *testing.T) {
	ev, dropped := Decode([]byte("c:alice,5,5;bob,2,9"))
	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
	roster, ok := ev.(RosterEvent)
	if !ok {
		t.Fatalf("event = %T, want RosterEvent", ev)
	}
	want := []Entry{{ID: "alice", X: 5, Y: 5}, {ID: "bob", X: 2, Y: 9}}
	if !reflect.DeepEqual(roster.Entries, want) {
		t.Fatalf("entries = %+v, want %+v", roster.Entries, want)
	}
}

func TestDecodeRosterDropsMalformedEntries(t *testing.T) {
	ev, dropped := Decode([]byte("c:bad,1;x,2,3"))
	roster, ok := ev.(RosterEvent)
	if !ok {
		t.Fatalf("event = %T, want RosterEvent", ev)
	}
	if len(roster.Entries) != 1 || roster.Entries[0] != (Entry{ID: "x", X: 2, Y: 3}) {
		t.Fatalf("entries = %+v", roster.Entries)
	}
	if len(dropped) != 1 || !errors.Is(dropped[0], ErrMalformed) {
		t.Fatalf("dropped = %v, want one ErrMalformed", dropped)
	}
}

func TestDecodeRosterNonIntegerCoordinate(t *testing.T) {
	ev, dropped := Decode([]byte("c:a,one,2;b,3,4;c,5,"))
	roster := ev.(RosterEvent)
	if len(roster.Entries) != 1 || roster.Entries[0].ID != "b" {
		t.Fatalf("entries = %+v", roster.Entries)
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped = %d, want 2", len(dropped))
	}
}

func TestDecodeRosterTrailingSeparator(t *testing.T) {
	ev, dropped := Decode([]byte("c:a,1,2;"))
	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
	if n := len(ev.(RosterEvent).Entries); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}

func TestDecodeUpdate(t *testing.T) {
	ev, dropped := Decode([]byte("u:alice,6,-5"))
	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
	up, ok := ev.(UpdateEvent)
	if !ok {
		t.Fatalf("event = %T, want UpdateEvent", ev)
	}
	if up.Entry != (Entry{ID: "alice", X: 6, Y: -5}) {
		t.Fatalf("entry = %+v", up.Entry)
	}
}

func TestDecodeMalformedUpdateIsNoop(t *testing.T) {
	ev, dropped := Decode([]byte("u:alice,6"))
	if _, ok := ev.(NoopEvent); !ok {
		t.Fatalf("event = %T, want NoopEvent", ev)
	}
	if len(dropped) != 1 || !errors.Is(dropped[0], ErrMalformed) {
		t.Fatalf("dropped = %v", dropped)
	}
}

func TestDecodeUnknownOp(t *testing.T) {
	cases := []string{"z:whatever", "connect", "", "x:"}
	for _, in := range cases {
		ev, dropped := Decode([]byte(in))
		if _, ok := ev.(NoopEvent); !ok {
			t.Fatalf("Decode(%q) = %T, want NoopEvent", in, ev)
		}
		if len(dropped) != 0 {
			t.Fatalf("Decode(%q) dropped = %v", in, dropped)
		}
	}
}

func TestEncodeCommands(t *testing.T) {
	cases := map[Command]string{
		CmdMoveLeft:  "ml",
		CmdMoveRight: "mr",
		CmdMoveUp:    "mu",
		CmdMoveDown:  "md",
		CmdConnect:   "connect",
	}
	for c, want := range cases {
		if got := string(Encode(c)); got != want {
			t.Fatalf("Encode(%v) = %q, want %q", c, got, want)
		}
	}
}

func TestCommandDelta(t *testing.T) {
	cases := []struct {
		cmd    Command
		dx, dy int
	}{
		{CmdMoveLeft, -1, 0},
		{CmdMoveRight, 1, 0},
		{CmdMoveUp, 0, -1},
		{CmdMoveDown, 0, 1},
	}
	for _, c := range cases {
		dx, dy, ok := c.cmd.Delta()
		if !ok || dx != c.dx || dy != c.dy {
			t.Fatalf("%s.Delta() = (%d,%d,%v), want (%d,%d,true)", c.cmd, dx, dy, ok, c.dx, c.dy)
		}
	}
	if _, _, ok := CmdConnect.Delta(); ok {
		t.Fatalf("connect must not carry a delta")
	}
}

func TestServerEncodersDecodeBack(t *testing.T) {
	entries := []Entry{{ID: "a", X: 1, Y: 2}, {ID: "b", X: 3, Y: 4}}
	if got := string(EncodeRoster(entries)); got != "c:a,1,2;b,3,4" {
		t.Fatalf("EncodeRoster = %q", got)
	}
	if got := string(EncodeUpdate(entries[1])); got != "u:b,3,4" {
		t.Fatalf("EncodeUpdate = %q", got)
	}
}

func TestDecodeWithoutSeparatorHasEmptyOp(t *testing.T) {
	for _, in := range []string{"u", "c", "connect", ""} {
		ev, dropped := Decode([]byte(in))
		noop, ok := ev.(NoopEvent)
		if !ok || noop.Op != "" || len(dropped) != 0 {
			t.Fatalf("Decode(%q) = %#v, %v", in, ev, dropped)
		}
	}
}

func TestMoveCommandInvertsDelta(t *testing.T) {
	for _, c := range []Command{CmdMoveLeft, CmdMoveRight, CmdMoveUp, CmdMoveDown} {
		dx, dy, _ := c.Delta()
		if got, ok := MoveCommand(dx, dy); !ok || got != c {
			t.Fatalf("MoveCommand(%d,%d) = %q,%v, want %q", dx, dy, got, ok, c)
		}
	}
	for _, d := range [][2]int{{0, 0}, {2, 0}, {1, 1}} {
		if _, ok := MoveCommand(d[0], d[1]); ok {
			t.Fatalf("MoveCommand(%d,%d) should fail", d[0], d[1])
		}
	}
}
