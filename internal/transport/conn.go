// Package transport adapts a WebSocket connection into a rooms.Connection.
//
// Both gorilla/websocket and hertz-contrib/websocket connections satisfy
// Socket, so the Hertz and net/http fronts share the same pumps.
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"duet/internal/rooms"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Socket is the subset of a WebSocket connection the pumps use.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Sink receives connection lifecycle events and inbound messages.
type Sink interface {
	Connect(conn rooms.Connection)
	Deliver(conn rooms.Connection, data []byte)
	Disconnect(conn rooms.Connection)
}

// CloseCheck reports whether err is a close the peer did not announce.
type CloseCheck func(err error, expectedCodes ...int) bool

type Conn struct {
	id         string
	sock       Socket
	sink       Sink
	unexpected CloseCheck
	send       chan []byte
	closed     chan struct{}
	closeOnce  sync.Once
	log        zerolog.Logger
}

func NewConn(id string, sock Socket, sink Sink, unexpected CloseCheck, log zerolog.Logger) *Conn {
	if unexpected == nil {
		unexpected = websocket.IsUnexpectedCloseError
	}
	return &Conn{
		id:         id,
		sock:       sock,
		sink:       sink,
		unexpected: unexpected,
		send:       make(chan []byte, sendBuffer),
		closed:     make(chan struct{}),
		log:        log.With().Str("conn", id).Logger(),
	}
}

func (c *Conn) ID() string { return c.id }

// Send queues data for the write pump without blocking.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.sock.Close()
	})
	return err
}

// Serve registers the connection and pumps messages until it closes. It
// blocks, which the Hertz upgrader callback requires.
func (c *Conn) Serve() {
	c.sink.Connect(c)
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.sink.Disconnect(c)
		_ = c.Close()
	}()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			if c.unexpected(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Warn().Err(err).Msg("read error")
			}
			return
		}
		c.sink.Deliver(c, data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
