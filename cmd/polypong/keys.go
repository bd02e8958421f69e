package main

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"polypong/game"
)

var errQuit = errors.New("quit")

type keyEvent struct {
	dir  game.Direction
	quit bool
}

// keyDecoder turns raw terminal bytes into arrow-key directions. It keeps
// state across reads since an escape sequence may be split.
type keyDecoder struct {
	state int
}

const (
	keyIdle = iota
	keyEsc
	keyCSI
)

func (d *keyDecoder) feed(b byte) (keyEvent, bool) {
	switch d.state {
	case keyEsc:
		if b == '[' || b == 'O' {
			d.state = keyCSI
			return keyEvent{}, false
		}
		d.state = keyIdle
	case keyCSI:
		d.state = keyIdle
		switch b {
		case 'A':
			return keyEvent{dir: game.DirUp}, true
		case 'B':
			return keyEvent{dir: game.DirDown}, true
		case 'C':
			return keyEvent{dir: game.DirRight}, true
		case 'D':
			return keyEvent{dir: game.DirLeft}, true
		}
		return keyEvent{}, false
	}

	switch b {
	case 0x1b:
		d.state = keyEsc
	case 'q', 'Q', 0x03, 0x04: // q, ctrl-c, ctrl-d
		return keyEvent{quit: true}, true
	}
	return keyEvent{}, false
}

// readKeys streams key events from r until it fails. It never returns on
// its own while r blocks, so it runs outside the errgroup.
func readKeys(r io.Reader, out chan<- keyEvent) {
	var d keyDecoder
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if ev, ok := d.feed(b); ok {
				out <- ev
			}
		}
		if err != nil {
			out <- keyEvent{quit: true}
			return
		}
	}
}

// startKeys puts in into raw mode and streams its arrow keys. When in is
// not a terminal there is nothing to read, and the returned channel is nil
// so the session runs until it is signalled.
func startKeys(in *os.File) (<-chan keyEvent, func(), error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, func() {}, nil
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	keys := make(chan keyEvent, 16)
	go readKeys(in, keys)
	return keys, func() { _ = term.Restore(fd, prev) }, nil
}

// inputLoop feeds arrow keys to input until the user quits or ctx ends.
func inputLoop(ctx context.Context, keys <-chan keyEvent, input func(game.Direction)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-keys:
			if ev.quit {
				return errQuit
			}
			input(ev.dir)
		}
	}
}
