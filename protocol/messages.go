package protocol

import "polypong/game"

type Kind string

const (
	KindReady      Kind = "ready"
	KindAssignment Kind = "assignment"
	KindFlash      Kind = "flash"
	KindStart      Kind = "start"
	KindState      Kind = "state"
	KindPointTo    Kind = "pointTo"
	KindMove       Kind = "move"
)

// Message is the closed set of things peers say to each other. Switch on
// the concrete type; every kind below implements it and nothing else can.
type Message interface {
	Kind() Kind
	message()
}

// client -> host

// Ready asks the host for a seat assignment.
type Ready struct{}

// Move carries the sender's new paddle coordinate on its single axis.
type Move struct {
	Axis  game.Axis
	Value float64
}

// host -> client

type Assignment struct {
	Seat game.Seat
}

// Flash is lobby status text.
type Flash struct {
	Text string
}

type Start struct{}

// State is a per-tick snapshot personalised for one client.
type State struct {
	BallX, BallY float64
	Others       []PaddlePosition
}

type PaddlePosition struct {
	Seat game.Seat
	X, Y float64
}

type PointTo struct {
	Seat game.Seat
}

func (Ready) Kind() Kind      { return KindReady }
func (Move) Kind() Kind       { return KindMove }
func (Assignment) Kind() Kind { return KindAssignment }
func (Flash) Kind() Kind      { return KindFlash }
func (Start) Kind() Kind      { return KindStart }
func (State) Kind() Kind      { return KindState }
func (PointTo) Kind() Kind    { return KindPointTo }

func (Ready) message()      {}
func (Move) message()       {}
func (Assignment) message() {}
func (Flash) message()      {}
func (Start) message()      {}
func (State) message()      {}
func (PointTo) message()    {}
