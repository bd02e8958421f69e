package game

import (
	"fmt"
	"strings"
)

// Seat is one of the four fixed paddle identities around the arena.
type Seat int8

const (
	SeatTop Seat = iota // always the host
	SeatRight
	SeatBottom
	SeatLeft

	// NoSeat marks "no paddle", e.g. a ball nobody has touched since reset.
	NoSeat Seat = -1
)

const NumSeats = 4

func (s Seat) Valid() bool {
	return s >= SeatTop && s <= SeatLeft
}

// Axis is the single axis a seat's paddle moves along. Seats 0 and 2 slide
// horizontally, seats 1 and 3 vertically.
func (s Seat) Axis() Axis {
	if s%2 == 0 {
		return AxisX
	}
	return AxisY
}

func (s Seat) String() string {
	switch s {
	case SeatTop:
		return "top"
	case SeatRight:
		return "right"
	case SeatBottom:
		return "bottom"
	case SeatLeft:
		return "left"
	case NoSeat:
		return "none"
	}
	return fmt.Sprintf("seat(%d)", int8(s))
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Direction is a discrete input event.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) Axis() Axis {
	if d == DirLeft || d == DirRight {
		return AxisX
	}
	return AxisY
}

// Delta is the signed paddle displacement for one input event, in board
// coordinates (y grows downwards).
func (d Direction) Delta() float64 {
	if d == DirLeft || d == DirUp {
		return -PaddleSpeed
	}
	return PaddleSpeed
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func ParseDirection(s string) (Direction, error) {
	switch strings.TrimPrefix(strings.ToLower(s), "arrow") {
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
