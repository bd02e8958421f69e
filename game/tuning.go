package game

const (
	BoardWidth  = 1024.0
	BoardHeight = 576.0

	BallSize  = 15.0
	BallSpeed = 3.0 // distance per tick, no delta-time scaling

	PaddleOffset = 45.0  // gap between a paddle's outer edge and the board edge
	PaddleLong   = 125.0 // along the paddle's axis of movement
	PaddleShort  = 20.0
	PaddleSpeed  = BallSpeed * 2 // per input event

	HeadingDegrees = 365 // headings are drawn from [0, HeadingDegrees)
)
