package room

import (
	"sync"
	"time"

	"github.com/decred/slog"

	"polypong/game"
	"polypong/protocol"
)

type Options struct {
	TickHz   int
	Log      slog.Logger
	Renderer Renderer
	Rand     game.Rand // host only; seeded from the clock when nil
}

// loop is the single ordered event queue both roles are built on: transport
// events, local input and timer ticks are handled one at a time, each to
// completion.
type loop struct {
	Inbox    chan any
	tickHz   int
	quit     chan struct{}
	stopOnce sync.Once
	log      slog.Logger
	renderer Renderer
}

func newLoop(opts Options) loop {
	tickHz := opts.TickHz
	if tickHz <= 0 {
		tickHz = protocol.DefaultTickHz
	}
	log := opts.Log
	if log == nil {
		log = slog.Disabled
	}
	return loop{
		Inbox:    make(chan any, 256),
		tickHz:   tickHz,
		quit:     make(chan struct{}),
		log:      log,
		renderer: opts.Renderer,
	}
}

func (l *loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

// post enqueues cmd, giving up once the loop is stopped.
func (l *loop) post(cmd any) bool {
	select {
	case l.Inbox <- cmd:
		return true
	case <-l.quit:
		return false
	}
}

func (l *loop) run(handle func(any), tick func()) {
	ticker := time.NewTicker(time.Second / time.Duration(l.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case cmd := <-l.Inbox:
			handle(cmd)
		case <-ticker.C:
			tick()
		}
	}
}

func (l *loop) draw(v View) {
	if l.renderer != nil {
		l.renderer.Draw(v)
	}
}

// view asks the loop for a copy of its view.
func (l *loop) view() (View, error) {
	reply := make(chan View, 1)
	if !l.post(viewRequest{reply: reply}) {
		return View{}, ErrStopped
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.quit:
		return View{}, ErrStopped
	}
}
