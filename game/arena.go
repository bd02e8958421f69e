package game

// Internal truth of the shared simulation. On the host it is authoritative;
// on a client it is a view the network keeps overwriting.

type Rect struct {
	X, Y, W, H float64
}

// Overlaps is a strict axis-aligned bounding box test; touching edges do
// not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

type Paddle struct {
	X, Y float64
}

type Ball struct {
	X, Y   float64
	DX, DY float64
}

func (b Ball) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: BallSize, H: BallSize}
}

type Arena struct {
	Paddles [NumSeats]Paddle
	Ball    Ball
	Scores  [NumSeats]int

	// LastPaddle is the seat that most recently touched the ball, or NoSeat.
	LastPaddle Seat
}

func NewArena() Arena {
	return Arena{
		Paddles: [NumSeats]Paddle{
			SeatTop:    {X: (BoardWidth - PaddleLong) / 2, Y: PaddleOffset},
			SeatRight:  {X: BoardWidth - (PaddleOffset + PaddleShort), Y: (BoardHeight - PaddleLong) / 2},
			SeatBottom: {X: (BoardWidth - PaddleLong) / 2, Y: BoardHeight - (PaddleOffset + PaddleShort)},
			SeatLeft:   {X: PaddleOffset, Y: (BoardHeight - PaddleLong) / 2},
		},
		Ball:       Ball{X: BallCenterX, Y: BallCenterY},
		LastPaddle: NoSeat,
	}
}

const (
	BallCenterX = (BoardWidth - BallSize) / 2
	BallCenterY = (BoardHeight - BallSize) / 2
)

// PaddleRect returns the bounding box of a seat's paddle. Horizontal
// paddles are long in x, vertical ones long in y.
func (a *Arena) PaddleRect(s Seat) Rect {
	p := a.Paddles[s]
	if s.Axis() == AxisX {
		return Rect{X: p.X, Y: p.Y, W: PaddleLong, H: PaddleShort}
	}
	return Rect{X: p.X, Y: p.Y, W: PaddleShort, H: PaddleLong}
}

// MovePaddle sets the coordinate of seat s along its axis. The other
// coordinate is fixed by the board layout and never changes.
func (a *Arena) MovePaddle(s Seat, value float64) {
	if s.Axis() == AxisX {
		a.Paddles[s].X = value
		return
	}
	a.Paddles[s].Y = value
}

// PaddleCoord is the coordinate of seat s along its axis.
func (a *Arena) PaddleCoord(s Seat) float64 {
	if s.Axis() == AxisX {
		return a.Paddles[s].X
	}
	return a.Paddles[s].Y
}

// ResetBall puts the ball back at the exact board center. Heading is left
// to the caller.
func (a *Arena) ResetBall() {
	a.Ball.X = BallCenterX
	a.Ball.Y = BallCenterY
}
