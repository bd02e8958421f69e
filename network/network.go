package network

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"polypong/protocol"
)

var (
	// ErrTransport marks dial, upgrade and read/write failures.
	ErrTransport      = errors.New("transport failure")
	ErrListenerClosed = errors.New("listener closed")
)

const (
	readLimit    = 1 << 20 // 1MB
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// Conn is one websocket connection carrying protocol messages in a single
// serialization. Send and Close are safe for concurrent use; Serve must
// only be called once.
type Conn struct {
	ws    *websocket.Conn
	codec protocol.Codec
	log   slog.Logger

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, codec protocol.Codec, log slog.Logger) *Conn {
	if log == nil {
		log = slog.Disabled
	}
	c := &Conn{
		ws:    ws,
		codec: codec,
		log:   log,
		done:  make(chan struct{}),
	}

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.pingLoop()
	return c
}

func (c *Conn) Serialization() protocol.Serialization {
	return c.codec.Serialization()
}

func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Send encodes and writes m. Nothing is retried.
func (c *Conn) Send(m protocol.Message) error {
	b, err := c.codec.Encode(m)
	if err != nil {
		return err
	}
	frame := websocket.TextMessage
	if c.codec.Serialization().Binary() {
		frame = websocket.BinaryMessage
	}
	return c.write(frame, b)
}

func (c *Conn) write(frame int, b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return fmt.Errorf("%w: connection closed", ErrTransport)
	default:
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(frame, b); err != nil {
		return fmt.Errorf("%w: write: %v", ErrTransport, err)
	}
	return nil
}

// Serve reads frames until the connection fails or is closed, calling
// handle for every message that decodes. Malformed frames are dropped.
func (c *Conn) Serve(handle func(protocol.Message)) error {
	defer c.Close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			return fmt.Errorf("%w: read: %v", ErrTransport, err)
		}
		msg, err := c.codec.Decode(data)
		if err != nil {
			c.log.Debugf("Dropping frame from %s: %v", c.RemoteAddr(), err)
			continue
		}
		handle(msg)
	}
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		close(c.done)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.log.Debugf("Ping to %s failed: %v", c.RemoteAddr(), err)
				return
			}
		case <-c.done:
			return
		}
	}
}
