package room

import (
	"polypong/game"
	"polypong/protocol"
)

// Conn is the send side of a transport handle.
type Conn interface {
	Send(protocol.Message) error
	Close() error
}

// PeerConn is a transport handle that can also deliver what it receives.
// Serve blocks, calling handle for each inbound message in arrival order.
type PeerConn interface {
	Conn
	Serve(handle func(protocol.Message)) error
}

// Commands processed one at a time by a coordinator's loop.

// Join: host side, issued once per inbound connection.
type Join struct {
	Conn  Conn
	Reply chan<- JoinResult
}

type JoinResult struct {
	Seat game.Seat
	Err  error
}

// Connected: client side, the connection to the host is open.
type Connected struct {
	Conn Conn
}

// Received: a decoded message from a peer. On the host Seat is the sender's
// seat; on a client it is always the host's.
type Received struct {
	Seat game.Seat
	Msg  protocol.Message
}

// Opened: host side, the broker handed out a rendezvous code.
type Opened struct {
	Code string
}

// Input: a local input event.
type Input struct {
	Dir game.Direction
}

type viewRequest struct {
	reply chan<- View
}
