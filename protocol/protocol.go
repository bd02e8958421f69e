package protocol

// Wire keys. A payload's kind is decided by which of these keys it carries,
// there is no type tag on the wire.
const (
	KeyReady      = "ready"
	KeyAssignment = "paddleAssignment"
	KeyFlash      = "flash"
	KeyStart      = "start"
	KeyBallX      = "bx"
	KeyBallY      = "by"
	KeyOthers     = "others"
	KeySeat       = "assignedPaddle"
	KeyX          = "x"
	KeyY          = "y"
	KeyPointTo    = "pointTo"
)

const (
	DefaultTickHz        = 60
	DefaultSerialization = "json"

	// SerializationParam is the query parameter a client dials with to pick
	// the wire serialization of its connection.
	SerializationParam = "serialization"
)
