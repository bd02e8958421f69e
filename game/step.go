package game

// StepResult reports what happened during one simulation tick.
type StepResult struct {
	Collided Seat // paddle that reflected the ball, or NoSeat
	WallHit  bool // ball went out and was reset to center
	PointTo  Seat // seat awarded a point by the wall hit, or NoSeat
}

// Step advances the authoritative simulation by one tick. Only the first
// taken seats are tested for collisions; the host is seat 0 so taken
// counts it.
func Step(a *Arena, taken int, r Rand) StepResult {
	res := StepResult{Collided: NoSeat, PointTo: NoSeat}
	if taken > NumSeats {
		taken = NumSeats
	}

	a.Ball.X += a.Ball.DX
	a.Ball.Y += a.Ball.DY

	// One collision per tick, first match in seat order wins.
	ball := a.Ball.Rect()
	for s := SeatTop; int(s) < taken; s++ {
		if !a.PaddleRect(s).Overlaps(ball) {
			continue
		}
		if s.Axis() == AxisX {
			a.Ball.DY = -a.Ball.DY
		} else {
			a.Ball.DX = -a.Ball.DX
		}
		a.LastPaddle = s
		res.Collided = s
		break
	}

	if !a.outOfBounds() {
		return res
	}
	res.WallHit = true
	if a.LastPaddle != NoSeat {
		a.Scores[a.LastPaddle]++
		res.PointTo = a.LastPaddle
	}
	a.ResetBall()
	RandomizeHeading(&a.Ball, r)
	a.LastPaddle = NoSeat
	return res
}

// outOfBounds uses the outer edge of each paddle, never the inner one the
// collision test sees, so a ball still touching a paddle is not a wall hit.
func (a *Arena) outOfBounds() bool {
	b := a.Ball
	return b.Y < a.Paddles[SeatTop].Y ||
		b.X+BallSize > a.Paddles[SeatRight].X+PaddleShort ||
		b.Y+BallSize > a.Paddles[SeatBottom].Y+PaddleShort ||
		b.X < a.Paddles[SeatLeft].X
}
