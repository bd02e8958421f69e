package room

import (
	"fmt"
	"time"

	"polypong/game"
	"polypong/protocol"
)

// Host is the authoritative peer. It owns seat 0, the ball and the scores,
// and runs the simulation once every seat is filled.
type Host struct {
	loop

	state RoleState
	phase Phase
	code  string
	flash string
	arena game.Arena
	seats *Registry
	rng   game.Rand
}

func NewHost(opts Options) *Host {
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRand(uint64(time.Now().UnixNano()))
	}
	return &Host{
		loop:  newLoop(opts),
		state: StateUninitialized,
		phase: PhaseLobby,
		flash: LobbyFlash,
		arena: game.NewArena(),
		seats: NewRegistry(),
		rng:   rng,
	}
}

func (h *Host) Run() {
	h.advance(StateSeeking)
	h.run(h.handleCommand, h.tick)
}

// Join admits c synchronously, returning its seat or ErrSeatUnavailable.
func (h *Host) Join(c Conn) (game.Seat, error) {
	reply := make(chan JoinResult, 1)
	if !h.post(Join{Conn: c, Reply: reply}) {
		return game.NoSeat, ErrStopped
	}
	select {
	case res := <-reply:
		return res.Seat, res.Err
	case <-h.quit:
		return game.NoSeat, ErrStopped
	}
}

// Attach admits c and, if it got a seat, starts feeding its messages into
// the loop. Messages from one connection keep their order; messages from
// different connections interleave as they arrive.
func (h *Host) Attach(c PeerConn) (game.Seat, error) {
	seat, err := h.Join(c)
	if err != nil {
		return seat, err
	}
	go func() {
		err := c.Serve(func(m protocol.Message) {
			h.post(Received{Seat: seat, Msg: m})
		})
		h.log.Debugf("Seat %v stopped receiving: %v", seat, err)
	}()
	return seat, nil
}

// Opened records the rendezvous code handed out by the broker.
func (h *Host) Opened(code string) {
	h.post(Opened{Code: code})
}

func (h *Host) Input(dir game.Direction) {
	h.post(Input{Dir: dir})
}

func (h *Host) View() (View, error) {
	return h.view()
}

func (h *Host) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		seat, err := h.seats.Admit(c.Conn)
		if err != nil {
			h.log.Warnf("Too many players, evicting connection: %v", err)
		} else {
			h.log.Infof("Seat %v taken (%d/%d)", seat, h.seats.Taken(), game.NumSeats)
			h.advance(StateSeated)
		}
		if c.Reply != nil {
			c.Reply <- JoinResult{Seat: seat, Err: err}
		}
	case Received:
		h.handleMessage(c.Seat, c.Msg)
	case Opened:
		h.code = c.Code
		h.advance(StateSeeking)
		h.log.Infof("Game ID: %s", c.Code)
	case Input:
		h.handleInput(c.Dir)
	case viewRequest:
		c.reply <- h.snapshotView()
	default:
		h.log.Debugf("Unknown command %T", cmd)
	}
}

func (h *Host) handleMessage(seat game.Seat, msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Ready:
		h.handleReady(seat)
	case protocol.Move:
		h.handleMove(seat, m)
	case nil:
		h.log.Debugf("Nil message from seat %v", seat)
	default:
		h.log.Debugf("Ignoring %s from seat %v", msg.Kind(), seat)
	}
}

func (h *Host) handleReady(seat game.Seat) {
	if !h.seats.MarkReady(seat) {
		h.log.Debugf("Ignoring ready from seat %v", seat)
		return
	}
	h.send(seat, protocol.Assignment{Seat: seat})
	if h.phase == PhaseActive {
		return
	}

	// Readies from different connections can arrive in any order; the
	// game starts on the last one, whichever seat that is.
	waiting := game.NumSeats - 1 - h.seats.ReadyCount()
	if waiting == 0 {
		h.broadcast(protocol.Start{})
		game.RandomizeHeading(&h.arena.Ball, h.rng)
		h.flash = ""
		h.phase = PhaseActive
		h.advance(StateActive)
		h.log.Infof("All seats filled, game on")
		return
	}

	h.flash = fmt.Sprintf("Waiting for %d player(s)...", waiting)
	h.broadcast(protocol.Flash{Text: h.flash})
}

// handleMove applies a client's paddle position, last write wins.
func (h *Host) handleMove(seat game.Seat, m protocol.Move) {
	if !h.seats.Ready(seat) {
		h.log.Debugf("Ignoring move from unassigned seat %v", seat)
		return
	}
	if m.Axis != seat.Axis() {
		h.log.Debugf("Ignoring %v move from seat %v", m.Axis, seat)
		return
	}
	h.arena.MovePaddle(seat, m.Value)
}

func (h *Host) handleInput(dir game.Direction) {
	if dir.Axis() != game.SeatTop.Axis() {
		return
	}
	h.arena.MovePaddle(game.SeatTop, h.arena.PaddleCoord(game.SeatTop)+dir.Delta())
}

func (h *Host) tick() {
	if h.phase == PhaseActive {
		res := game.Step(&h.arena, h.seats.Taken(), h.rng)
		if res.PointTo != game.NoSeat {
			h.log.Debugf("Point to seat %v", res.PointTo)
			h.broadcast(protocol.PointTo{Seat: res.PointTo})
		}
		for _, s := range h.seats.Clients() {
			h.send(s, h.buildSnapshot(s))
		}
	}
	h.draw(h.snapshotView())
}

// buildSnapshot lists every occupied seat except the recipient's, then the
// host's paddle once more at the end.
func (h *Host) buildSnapshot(recipient game.Seat) protocol.State {
	taken := h.seats.Taken()
	others := make([]protocol.PaddlePosition, 0, taken)
	for s := game.SeatTop; int(s) < taken; s++ {
		if s == recipient {
			continue
		}
		p := h.arena.Paddles[s]
		others = append(others, protocol.PaddlePosition{Seat: s, X: p.X, Y: p.Y})
	}
	top := h.arena.Paddles[game.SeatTop]
	others = append(others, protocol.PaddlePosition{Seat: game.SeatTop, X: top.X, Y: top.Y})

	return protocol.State{
		BallX:  h.arena.Ball.X,
		BallY:  h.arena.Ball.Y,
		Others: others,
	}
}

// send is fire-and-forget; a failed send is only logged.
func (h *Host) send(seat game.Seat, m protocol.Message) {
	c, ok := h.seats.Conn(seat)
	if !ok {
		return
	}
	if err := c.Send(m); err != nil {
		h.log.Debugf("Send %s to seat %v failed: %v", m.Kind(), seat, err)
	}
}

func (h *Host) broadcast(m protocol.Message) {
	for _, s := range h.seats.Clients() {
		h.send(s, m)
	}
}

func (h *Host) advance(to RoleState) {
	if to <= h.state {
		return
	}
	h.log.Debugf("Host %v -> %v", h.state, to)
	h.state = to
}

func (h *Host) snapshotView() View {
	return View{
		Role:  RoleHost,
		State: h.state,
		Phase: h.phase,
		Seat:  game.SeatTop,
		Code:  h.code,
		Flash: h.flash,
		Arena: h.arena,
	}
}
