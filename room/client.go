package room

import (
	"polypong/game"
	"polypong/protocol"
)

// Client is a non-host peer. It owns its own paddle and nothing else; the
// ball, the other paddles and the scores are whatever the host last said.
type Client struct {
	loop

	state RoleState
	phase Phase
	self  game.Seat
	conn  Conn
	flash string
	arena game.Arena
}

func NewClient(opts Options) *Client {
	return &Client{
		loop:  newLoop(opts),
		state: StateUninitialized,
		phase: PhaseLobby,
		self:  game.NoSeat,
		flash: LobbyFlash,
		arena: game.NewArena(),
	}
}

func (c *Client) Run() {
	c.advance(StateSeeking)
	c.run(c.handleCommand, c.tick)
}

// Attach hands the open connection to the host over to the loop, which
// asks for a seat, and starts feeding the host's messages in.
func (c *Client) Attach(conn PeerConn) {
	if !c.post(Connected{Conn: conn}) {
		return
	}
	go func() {
		err := conn.Serve(func(m protocol.Message) {
			c.post(Received{Seat: game.SeatTop, Msg: m})
		})
		c.log.Debugf("Host connection stopped receiving: %v", err)
	}()
}

func (c *Client) Input(dir game.Direction) {
	c.post(Input{Dir: dir})
}

func (c *Client) View() (View, error) {
	return c.view()
}

func (c *Client) handleCommand(cmd any) {
	switch m := cmd.(type) {
	case Connected:
		c.conn = m.Conn
		c.advance(StateSeeking)
		c.send(protocol.Ready{})
	case Received:
		c.handleMessage(m.Msg)
	case Input:
		c.handleInput(m.Dir)
	case viewRequest:
		m.reply <- c.snapshotView()
	default:
		c.log.Debugf("Unknown command %T", cmd)
	}
}

func (c *Client) handleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Assignment:
		if c.state != StateSeeking || m.Seat == game.SeatTop {
			c.log.Debugf("Ignoring assignment to %v while %v", m.Seat, c.state)
			return
		}
		c.self = m.Seat
		c.advance(StateSeated)
		c.log.Infof("Connected! Seated at %v, moving along %v", m.Seat, m.Seat.Axis())
	case protocol.Flash:
		c.flash = m.Text
	case protocol.Start:
		if c.state != StateSeated {
			c.log.Debugf("Ignoring start while %v", c.state)
			return
		}
		c.phase = PhaseActive
		c.flash = ""
		c.advance(StateActive)
		c.log.Infof("Game on")
	case protocol.State:
		if c.state != StateActive {
			c.log.Debugf("Ignoring snapshot while %v", c.state)
			return
		}
		c.apply(m)
	case protocol.PointTo:
		if !m.Seat.Valid() {
			return
		}
		c.arena.Scores[m.Seat]++
	case nil:
		c.log.Debugf("Nil message from host")
	default:
		c.log.Debugf("Ignoring %s from host", msg.Kind())
	}
}

// apply overwrites the ball and the other paddles wholesale. The own seat
// is skipped even if the host were to send it, so local input stays
// authoritative.
func (c *Client) apply(st protocol.State) {
	c.arena.Ball.X = st.BallX
	c.arena.Ball.Y = st.BallY
	for _, o := range st.Others {
		if o.Seat == c.self || !o.Seat.Valid() {
			continue
		}
		c.arena.Paddles[o.Seat] = game.Paddle{X: o.X, Y: o.Y}
	}
}

// handleInput moves the own paddle first, then tells the host. Nothing
// waits for an acknowledgement.
func (c *Client) handleInput(dir game.Direction) {
	if c.state < StateSeated || !c.self.Valid() {
		return
	}
	axis := c.self.Axis()
	if dir.Axis() != axis {
		return
	}
	v := c.arena.PaddleCoord(c.self) + dir.Delta()
	c.arena.MovePaddle(c.self, v)
	c.send(protocol.Move{Axis: axis, Value: v})
}

func (c *Client) tick() {
	c.draw(c.snapshotView())
}

func (c *Client) send(m protocol.Message) {
	if c.conn == nil {
		return
	}
	if err := c.conn.Send(m); err != nil {
		c.log.Debugf("Send %s to host failed: %v", m.Kind(), err)
	}
}

func (c *Client) advance(to RoleState) {
	if to <= c.state {
		return
	}
	c.log.Debugf("Client %v -> %v", c.state, to)
	c.state = to
}

func (c *Client) snapshotView() View {
	return View{
		Role:  RoleClient,
		State: c.state,
		Phase: c.phase,
		Seat:  c.self,
		Flash: c.flash,
		Arena: c.arena,
	}
}
