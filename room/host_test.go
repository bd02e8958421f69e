package room

import (
	"errors"
	"math"
	"testing"
	"time"

	"polypong/game"
	"polypong/protocol"
)

type fakeConn struct {
	sendCh chan protocol.Message
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan protocol.Message, 256)}
}

func (f *fakeConn) Send(m protocol.Message) error {
	f.sendCh <- m
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

// drain returns everything sent so far without waiting.
func (f *fakeConn) drain() []protocol.Message {
	var out []protocol.Message
	for {
		select {
		case m := <-f.sendCh:
			out = append(out, m)
		default:
			return out
		}
	}
}

func joinAll(t *testing.T, h *Host, n int) []*fakeConn {
	t.Helper()
	conns := make([]*fakeConn, 0, n)
	for i := 0; i < n; i++ {
		fc := newFakeConn()
		reply := make(chan JoinResult, 1)
		h.handleCommand(Join{Conn: fc, Reply: reply})
		res := <-reply
		if res.Err != nil {
			t.Fatalf("join %d: %v", i, res.Err)
		}
		if res.Seat != game.Seat(i+1) {
			t.Fatalf("join %d got seat %v, want %v", i, res.Seat, game.Seat(i+1))
		}
		conns = append(conns, fc)
	}
	return conns
}

// startedHost returns a host with all three clients assigned and the game on.
func startedHost(t *testing.T) (*Host, []*fakeConn) {
	t.Helper()
	h := NewHost(Options{Rand: game.NewRand(1)})
	conns := joinAll(t, h, 3)
	for s := game.SeatRight; s <= game.SeatLeft; s++ {
		h.handleCommand(Received{Seat: s, Msg: protocol.Ready{}})
	}
	for _, fc := range conns {
		fc.drain()
	}
	return h, conns
}

func TestHostAssignsSeatsAndStarts(t *testing.T) {
	h := NewHost(Options{Rand: game.NewRand(1)})
	conns := joinAll(t, h, 3)

	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Ready{}})
	got := conns[0].drain()
	if len(got) != 2 || got[0] != (protocol.Assignment{Seat: game.SeatRight}) {
		t.Fatalf("seat 1 after ready = %#v", got)
	}
	if got[1] != (protocol.Flash{Text: "Waiting for 2 player(s)..."}) {
		t.Fatalf("seat 1 flash = %#v", got[1])
	}
	for i := 1; i < 3; i++ {
		got := conns[i].drain()
		if len(got) != 1 || got[0] != (protocol.Flash{Text: "Waiting for 2 player(s)..."}) {
			t.Fatalf("seat %d should only see the flash, got %#v", i+1, got)
		}
	}

	h.handleCommand(Received{Seat: game.SeatBottom, Msg: protocol.Ready{}})
	got = conns[1].drain()
	if len(got) != 2 || got[0] != (protocol.Assignment{Seat: game.SeatBottom}) {
		t.Fatalf("seat 2 after ready = %#v", got)
	}
	conns[0].drain()
	conns[2].drain()
	if h.phase != PhaseLobby {
		t.Fatalf("phase = %v before the last seat readies", h.phase)
	}

	h.handleCommand(Received{Seat: game.SeatLeft, Msg: protocol.Ready{}})
	got = conns[2].drain()
	if len(got) != 2 || got[0] != (protocol.Assignment{Seat: game.SeatLeft}) || got[1] != (protocol.Start{}) {
		t.Fatalf("seat 3 after ready = %#v", got)
	}
	for i := 0; i < 2; i++ {
		got := conns[i].drain()
		if len(got) != 1 || got[0] != (protocol.Start{}) {
			t.Fatalf("seat %d should see start, got %#v", i+1, got)
		}
	}

	if h.phase != PhaseActive || h.state != StateActive {
		t.Fatalf("phase=%v state=%v, want active/active", h.phase, h.state)
	}
	b := h.arena.Ball
	if b.DX == 0 || b.DY == 0 {
		t.Fatalf("heading has a zero component: (%f,%f)", b.DX, b.DY)
	}
	if mag := b.DX*b.DX + b.DY*b.DY; math.Abs(mag-game.BallSpeed*game.BallSpeed) > 1e-9 {
		t.Fatalf("heading magnitude^2 = %f, want %f", mag, game.BallSpeed*game.BallSpeed)
	}
}

func TestHostStartsOnLastReadyInAnyOrder(t *testing.T) {
	h := NewHost(Options{Rand: game.NewRand(5)})
	conns := joinAll(t, h, 3)
	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClient(Options{})
		clients[i].handleCommand(Connected{Conn: newFakeConn()})
	}

	started := make([]bool, 3)
	deliver := func() {
		for i, fc := range conns {
			for _, m := range fc.drain() {
				switch m.(type) {
				case protocol.Start:
					started[i] = true
				case protocol.Flash:
					if started[i] {
						t.Fatalf("seat %d got %#v after start", i+1, m)
					}
				}
				clients[i].handleCommand(Received{Seat: game.SeatTop, Msg: m})
			}
		}
	}

	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Ready{}})
	deliver()
	h.handleCommand(Received{Seat: game.SeatLeft, Msg: protocol.Ready{}})
	deliver()
	if h.phase != PhaseLobby {
		t.Fatalf("game started with seat 2 still unassigned")
	}
	if h.flash != "Waiting for 1 player(s)..." {
		t.Fatalf("flash = %q", h.flash)
	}

	h.handleCommand(Received{Seat: game.SeatBottom, Msg: protocol.Ready{}})
	deliver()
	if h.phase != PhaseActive || h.flash != "" {
		t.Fatalf("phase=%v flash=%q after the last ready", h.phase, h.flash)
	}
	for i, c := range clients {
		if !started[i] || c.state != StateActive || c.self != game.Seat(i+1) {
			t.Fatalf("client %d: started=%v state=%v self=%v", i+1, started[i], c.state, c.self)
		}
	}

	// A repeated ready mid-game changes nothing.
	h.handleCommand(Received{Seat: game.SeatBottom, Msg: protocol.Ready{}})
	h.tick()
	deliver()
	if h.flash != "" {
		t.Fatalf("flash = %q mid-game", h.flash)
	}
	for i, c := range clients {
		if c.arena.Ball.X != h.arena.Ball.X || c.arena.Ball.Y != h.arena.Ball.Y {
			t.Fatalf("client %d ball = (%f,%f), host (%f,%f)", i+1,
				c.arena.Ball.X, c.arena.Ball.Y, h.arena.Ball.X, h.arena.Ball.Y)
		}
	}
}

func TestHostEvictsFourthConnection(t *testing.T) {
	h := NewHost(Options{})
	joinAll(t, h, 3)

	extra := newFakeConn()
	reply := make(chan JoinResult, 1)
	h.handleCommand(Join{Conn: extra, Reply: reply})
	res := <-reply
	if !errors.Is(res.Err, ErrSeatUnavailable) || res.Seat != game.NoSeat {
		t.Fatalf("fourth join = %+v, want ErrSeatUnavailable", res)
	}
	if !extra.closed {
		t.Fatalf("evicted connection was not closed")
	}
	if msgs := extra.drain(); len(msgs) != 0 {
		t.Fatalf("evicted connection was sent %#v", msgs)
	}
	if h.seats.Taken() != game.NumSeats {
		t.Fatalf("taken = %d after eviction", h.seats.Taken())
	}
}

func TestHostDuplicateReadyIgnored(t *testing.T) {
	h := NewHost(Options{})
	conns := joinAll(t, h, 1)

	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Ready{}})
	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Ready{}})

	assignments := 0
	for _, m := range conns[0].drain() {
		if _, ok := m.(protocol.Assignment); ok {
			assignments++
		}
	}
	if assignments != 1 {
		t.Fatalf("assignments sent = %d, want 1", assignments)
	}
}

func TestHostDoesNotSimulateInLobby(t *testing.T) {
	h := NewHost(Options{})
	conns := joinAll(t, h, 2)
	h.arena.Ball.DX, h.arena.Ball.DY = 3, 3

	h.tick()
	if h.arena.Ball.X != game.BallCenterX || h.arena.Ball.Y != game.BallCenterY {
		t.Fatalf("ball moved in the lobby")
	}
	for _, fc := range conns {
		if msgs := fc.drain(); len(msgs) != 0 {
			t.Fatalf("lobby tick sent %#v", msgs)
		}
	}
}

func TestHostSnapshotsExcludeRecipient(t *testing.T) {
	h, conns := startedHost(t)
	start := h.arena.Ball

	h.tick()

	for i, fc := range conns {
		self := game.Seat(i + 1)
		msgs := fc.drain()
		if len(msgs) != 1 {
			t.Fatalf("seat %v got %d messages, want 1 snapshot", self, len(msgs))
		}
		st, ok := msgs[0].(protocol.State)
		if !ok {
			t.Fatalf("seat %v got %T, want state", self, msgs[0])
		}
		if st.BallX != start.X+start.DX || st.BallY != start.Y+start.DY {
			t.Fatalf("snapshot ball = (%f,%f)", st.BallX, st.BallY)
		}
		if len(st.Others) != h.seats.Taken() {
			t.Fatalf("seat %v snapshot has %d entries, want %d", self, len(st.Others), h.seats.Taken())
		}
		hasHost := false
		for _, o := range st.Others {
			if o.Seat == self {
				t.Fatalf("seat %v snapshot contains its own paddle", self)
			}
			if o.Seat == game.SeatTop {
				hasHost = true
			}
			p := h.arena.Paddles[o.Seat]
			if o.X != p.X || o.Y != p.Y {
				t.Fatalf("seat %v: entry %+v does not match paddle %+v", self, o, p)
			}
		}
		if !hasHost {
			t.Fatalf("seat %v snapshot is missing the host paddle", self)
		}
	}
}

func TestHostWallHitBroadcastsPoint(t *testing.T) {
	h, conns := startedHost(t)
	h.arena.Ball = game.Ball{X: h.arena.Paddles[game.SeatLeft].X + 1, Y: 100, DX: -game.BallSpeed}
	h.arena.LastPaddle = game.SeatBottom

	h.tick()

	if h.arena.Scores[game.SeatBottom] != 1 {
		t.Fatalf("scores = %v", h.arena.Scores)
	}
	for i, fc := range conns {
		msgs := fc.drain()
		if len(msgs) != 2 {
			t.Fatalf("seat %d got %#v", i+1, msgs)
		}
		if msgs[0] != (protocol.PointTo{Seat: game.SeatBottom}) {
			t.Fatalf("seat %d first message = %#v, want pointTo bottom", i+1, msgs[0])
		}
		st, ok := msgs[1].(protocol.State)
		if !ok || st.BallX != game.BallCenterX || st.BallY != game.BallCenterY {
			t.Fatalf("seat %d snapshot after reset = %#v", i+1, msgs[1])
		}
	}
	if h.arena.LastPaddle != game.NoSeat {
		t.Fatalf("lastPaddle = %v after wall hit", h.arena.LastPaddle)
	}
}

func TestHostAppliesClientMoves(t *testing.T) {
	h := NewHost(Options{})
	joinAll(t, h, 2)

	h.handleCommand(Received{Seat: game.SeatBottom, Msg: protocol.Move{Axis: game.AxisX, Value: 10}})
	if h.arena.Paddles[game.SeatBottom].X == 10 {
		t.Fatalf("move from an unassigned seat was applied")
	}

	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Ready{}})
	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Move{Axis: game.AxisY, Value: 300}})
	if h.arena.Paddles[game.SeatRight].Y != 300 {
		t.Fatalf("seat 1 y = %f, want 300", h.arena.Paddles[game.SeatRight].Y)
	}

	x := h.arena.Paddles[game.SeatRight].X
	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Move{Axis: game.AxisX, Value: 1}})
	if h.arena.Paddles[game.SeatRight].X != x {
		t.Fatalf("off-axis move was applied")
	}

	// Later moves win, whatever order they arrive in.
	h.handleCommand(Received{Seat: game.SeatRight, Msg: protocol.Move{Axis: game.AxisY, Value: 100}})
	if h.arena.Paddles[game.SeatRight].Y != 100 {
		t.Fatalf("seat 1 y = %f, want 100", h.arena.Paddles[game.SeatRight].Y)
	}
}

func TestHostLocalInputMovesSeatZero(t *testing.T) {
	h := NewHost(Options{})
	x := h.arena.Paddles[game.SeatTop].X

	h.handleCommand(Input{Dir: game.DirRight})
	if got := h.arena.Paddles[game.SeatTop].X; got != x+game.PaddleSpeed {
		t.Fatalf("x = %f, want %f", got, x+game.PaddleSpeed)
	}
	h.handleCommand(Input{Dir: game.DirUp})
	h.handleCommand(Input{Dir: game.DirLeft})
	if got := h.arena.Paddles[game.SeatTop]; got.X != x || got.Y != game.PaddleOffset {
		t.Fatalf("paddle = %+v", got)
	}
}

func TestHostLoopBroadcastsSnapshots(t *testing.T) {
	h := NewHost(Options{TickHz: 100, Rand: game.NewRand(3)})
	go h.Run()
	defer h.Stop()

	conns := make([]*fakeConn, 3)
	for i := range conns {
		conns[i] = newFakeConn()
		seat, err := h.Join(conns[i])
		if err != nil || seat != game.Seat(i+1) {
			t.Fatalf("join %d = %v, %v", i, seat, err)
		}
		h.Inbox <- Received{Seat: seat, Msg: protocol.Ready{}}
	}

	timeout := time.After(time.Second)
	for {
		select {
		case m := <-conns[1].sendCh:
			if st, ok := m.(protocol.State); ok {
				for _, o := range st.Others {
					if o.Seat == game.SeatBottom {
						t.Fatalf("seat 2 received its own paddle")
					}
				}
				v, err := h.View()
				if err != nil {
					t.Fatalf("view: %v", err)
				}
				if v.Phase != PhaseActive {
					t.Fatalf("phase = %v while snapshots flow", v.Phase)
				}
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for a snapshot")
		}
	}
}

func TestHostStoppedJoinFails(t *testing.T) {
	h := NewHost(Options{})
	h.Stop()
	if _, err := h.Join(newFakeConn()); !errors.Is(err, ErrStopped) {
		t.Fatalf("join after stop = %v, want ErrStopped", err)
	}
}
