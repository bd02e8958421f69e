package network

import (
	"context"
	"fmt"
	"net/url"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"polypong/protocol"
)

// Dial opens a websocket to a host at addr, asking for serialization s.
func Dial(ctx context.Context, addr string, s protocol.Serialization, log slog.Logger) (*Conn, error) {
	if s == nil {
		s = protocol.JSON
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad address %q: %v", ErrTransport, addr, err)
	}
	q := u.Query()
	q.Set(protocol.SerializationParam, s.Name())
	u.RawQuery = q.Encode()

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: dial %s: %v (%s)", ErrTransport, addr, err, resp.Status)
		}
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransport, addr, err)
	}
	return newConn(ws, protocol.NewCodec(s), log), nil
}
