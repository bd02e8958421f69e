package network

import (
	"context"
	"net/http"
	"sync"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"polypong/protocol"
)

// Listener is the host's side of the transport. Mount it on an http.Server;
// every upgraded connection is handed out through Accept in arrival order.
type Listener struct {
	upgrader websocket.Upgrader
	log      slog.Logger
	conns    chan *Conn

	closeOnce sync.Once
	closed    chan struct{}
}

func NewListener(log slog.Logger) *Listener {
	if log == nil {
		log = slog.Disabled
	}
	return &Listener{
		upgrader: websocket.Upgrader{
			// Peers dial from terminals, not browsers.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:    log,
		conns:  make(chan *Conn, 8),
		closed: make(chan struct{}),
	}
}

// ServeHTTP upgrades the request. The serialization is picked from the
// query string and defaults to json.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := protocol.SerializationByName(r.URL.Query().Get(protocol.SerializationParam))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.log.Debugf("Upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	c := newConn(ws, protocol.NewCodec(s), l.log)
	l.log.Debugf("Peer %s connected (%s)", c.RemoteAddr(), s.Name())

	select {
	case l.conns <- c:
	case <-l.closed:
		c.Close()
	case <-r.Context().Done():
		c.Close()
	}
}

// Accept returns the next connected peer.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.closed:
		return nil, ErrListenerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Listener) Close() error {
	l.closeOnce.Do(func() { close(l.closed) })
	return nil
}
