package room

type Role uint8

const (
	RoleHost Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "client"
}

// RoleState is a peer's lifecycle. It only ever moves forward.
type RoleState uint8

const (
	StateUninitialized RoleState = iota
	StateSeeking                 // broker handshake or assignment pending
	StateSeated                  // client has a seat; host has at least one occupied
	StateActive                  // session running for the rest of the process
)

func (s RoleState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSeeking:
		return "seeking"
	case StateSeated:
		return "seated"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Phase is the session-wide phase. Lobby becomes Active exactly once.
type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseActive
)

func (p Phase) String() string {
	if p == PhaseLobby {
		return "lobby"
	}
	return "active"
}
