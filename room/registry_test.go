package room

import (
	"errors"
	"testing"

	"polypong/game"
)

func TestRegistryAdmitsInArrivalOrder(t *testing.T) {
	r := NewRegistry()
	if r.Taken() != 1 {
		t.Fatalf("fresh registry taken = %d, want 1 (the host)", r.Taken())
	}
	for want := game.SeatRight; want <= game.SeatLeft; want++ {
		got, err := r.Admit(newFakeConn())
		if err != nil || got != want {
			t.Fatalf("admit = %v, %v; want %v", got, err, want)
		}
	}

	extra := newFakeConn()
	got, err := r.Admit(extra)
	if !errors.Is(err, ErrSeatUnavailable) || got != game.NoSeat {
		t.Fatalf("fourth admit = %v, %v", got, err)
	}
	if !extra.closed {
		t.Fatalf("rejected connection left open")
	}
	if r.Taken() != game.NumSeats {
		t.Fatalf("taken = %d after rejection", r.Taken())
	}
	if seats := r.Clients(); len(seats) != 3 || seats[0] != game.SeatRight || seats[2] != game.SeatLeft {
		t.Fatalf("clients = %v", seats)
	}
}

func TestRegistryHostSeatHasNoConn(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Conn(game.SeatTop); ok {
		t.Fatalf("host seat has a connection")
	}
	if _, ok := r.Conn(game.SeatRight); ok {
		t.Fatalf("empty seat has a connection")
	}
	if r.MarkReady(game.SeatTop) || r.MarkReady(game.SeatRight) {
		t.Fatalf("marked an unoccupied or host seat ready")
	}
}

func TestRegistryReadyOnce(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Admit(newFakeConn())
	if r.Ready(s) {
		t.Fatalf("seat ready before MarkReady")
	}
	if !r.MarkReady(s) {
		t.Fatalf("first MarkReady failed")
	}
	if r.MarkReady(s) {
		t.Fatalf("second MarkReady succeeded")
	}
	if !r.Ready(s) {
		t.Fatalf("seat not ready after MarkReady")
	}
	if r.ReadyCount() != 1 {
		t.Fatalf("ready count = %d, want 1", r.ReadyCount())
	}
}
