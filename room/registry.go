package room

import "polypong/game"

type seatSlot struct {
	conn  Conn
	ready bool // assignment already sent
}

// Registry tracks the four seats on the host. Seat 0 is the host itself and
// never has a connection; seats 1..3 fill in arrival order and are never
// vacated.
type Registry struct {
	slots [game.NumSeats]seatSlot
	taken int
	ready int
}

func NewRegistry() *Registry {
	return &Registry{taken: 1}
}

// Admit seats c in the next empty seat. When none is left the connection is
// closed without a word and ErrSeatUnavailable is returned.
func (r *Registry) Admit(c Conn) (game.Seat, error) {
	if r.taken >= game.NumSeats {
		_ = c.Close()
		return game.NoSeat, ErrSeatUnavailable
	}
	s := game.Seat(r.taken)
	r.slots[s].conn = c
	r.taken++
	return s, nil
}

// Taken counts occupied seats, the host included.
func (r *Registry) Taken() int {
	return r.taken
}

func (r *Registry) occupied(s game.Seat) bool {
	return s.Valid() && int(s) < r.taken
}

func (r *Registry) Conn(s game.Seat) (Conn, bool) {
	if s == game.SeatTop || !r.occupied(s) {
		return nil, false
	}
	return r.slots[s].conn, true
}

// Clients lists occupied client seats in seat order.
func (r *Registry) Clients() []game.Seat {
	out := make([]game.Seat, 0, r.taken-1)
	for s := game.SeatRight; int(s) < r.taken; s++ {
		out = append(out, s)
	}
	return out
}

// MarkReady records that seat s has been assigned. It reports false when
// the seat is not occupied or was already assigned.
func (r *Registry) MarkReady(s game.Seat) bool {
	if s == game.SeatTop || !r.occupied(s) || r.slots[s].ready {
		return false
	}
	r.slots[s].ready = true
	r.ready++
	return true
}

// ReadyCount counts client seats that have been assigned.
func (r *Registry) ReadyCount() int {
	return r.ready
}

func (r *Registry) Ready(s game.Seat) bool {
	return s != game.SeatTop && r.occupied(s) && r.slots[s].ready
}
