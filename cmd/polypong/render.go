package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"polypong/game"
	"polypong/room"
)

const (
	boardCols = 64
	boardRows = 24
)

// textRenderer draws the board as characters, scaled down from the arena.
// Unchanged views are not redrawn.
type textRenderer struct {
	mu   sync.Mutex
	out  io.Writer
	last room.View
	init bool
}

func newTextRenderer(out io.Writer) *textRenderer {
	return &textRenderer{out: out}
}

func (r *textRenderer) Draw(v room.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.init && v == r.last {
		return
	}
	r.last, r.init = v, true
	_, _ = io.WriteString(r.out, "\033[H\033[2J"+renderView(v))
}

func renderView(v room.View) string {
	var grid [boardRows][boardCols]byte
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	fill := func(rect game.Rect, c byte) {
		x0, x1 := col(rect.X), col(rect.X+rect.W)
		y0, y1 := row(rect.Y), row(rect.Y+rect.H)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				grid[y][x] = c
			}
		}
	}
	for s := game.SeatTop; s <= game.SeatLeft; s++ {
		c := byte('#')
		if s == v.Seat {
			c = '@'
		}
		fill(v.Arena.PaddleRect(s), c)
	}
	fill(v.Arena.Ball.Rect(), 'o')

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  seat:%v  phase:%s", v.Role, v.State, v.Seat, v.Phase)
	if v.Code != "" {
		fmt.Fprintf(&b, "  code:%s", v.Code)
	}
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "scores  top:%d right:%d bottom:%d left:%d\r\n",
		v.Arena.Scores[game.SeatTop], v.Arena.Scores[game.SeatRight],
		v.Arena.Scores[game.SeatBottom], v.Arena.Scores[game.SeatLeft])
	if v.Flash != "" {
		b.WriteString(v.Flash)
	}
	b.WriteString("\r\n+" + strings.Repeat("-", boardCols) + "+\r\n")
	for y := range grid {
		b.WriteByte('|')
		b.Write(grid[y][:])
		b.WriteString("|\r\n")
	}
	b.WriteString("+" + strings.Repeat("-", boardCols) + "+\r\n")
	b.WriteString("arrows move, q quits\r\n")
	return b.String()
}

func col(x float64) int {
	return clamp(int(math.Floor(x*boardCols/game.BoardWidth)), boardCols-1)
}

func row(y float64) int {
	return clamp(int(math.Floor(y*boardRows/game.BoardHeight)), boardRows-1)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
