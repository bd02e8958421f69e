package room

import "polypong/game"

// LobbyFlash is shown before any assignment has happened.
const LobbyFlash = "Waiting for 3 players..."

// View is everything a renderer needs for one frame.
type View struct {
	Role  Role
	State RoleState
	Phase Phase
	Seat  game.Seat // own seat, NoSeat until assigned
	Code  string    // rendezvous code, host only
	Flash string
	Arena game.Arena
}

// Renderer is the advance-and-draw collaborator, called once per tick from
// the coordinator's loop. It must not block.
type Renderer interface {
	Draw(View)
}
