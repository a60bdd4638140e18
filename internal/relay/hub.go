package relay

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"duet/internal/protocol"
	"duet/internal/rooms"
)

var ErrHubStopped = errors.New("hub stopped")

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
)

type event struct {
	kind eventKind
	conn rooms.Connection
	data []byte
}

// Hub funnels every transport event through one goroutine so room and game
// state is only ever touched by Run.
type Hub struct {
	router   *Router
	registry *rooms.Registry
	events   chan event
	stats    chan chan protocol.Stats
	done     chan struct{}
	log      zerolog.Logger
}

func NewHub(registry *rooms.Registry, log zerolog.Logger) *Hub {
	return &Hub{
		router:   NewRouter(registry, log),
		registry: registry,
		events:   make(chan event, 256),
		stats:    make(chan chan protocol.Stats),
		done:     make(chan struct{}),
		log:      log,
	}
}

// Run processes events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info().Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("hub stopped")
			return
		case ev := <-h.events:
			h.handle(ev)
		case reply := <-h.stats:
			nRooms, nConns, nGames := h.registry.Stats()
			reply <- protocol.Stats{Rooms: nRooms, Connections: nConns, Games: nGames}
		}
	}
}

func (h *Hub) handle(ev event) {
	switch ev.kind {
	case eventConnect:
		h.router.Connected(ev.conn)
	case eventMessage:
		h.router.Route(ev.conn, ev.data)
	case eventDisconnect:
		h.router.Disconnected(ev.conn)
	}
}

// Connect, Deliver and Disconnect share one queue, so a connection's
// messages are handled in order and always before its disconnect.
func (h *Hub) Connect(conn rooms.Connection) {
	h.enqueue(event{kind: eventConnect, conn: conn})
}

func (h *Hub) Deliver(conn rooms.Connection, data []byte) {
	h.enqueue(event{kind: eventMessage, conn: conn, data: data})
}

func (h *Hub) Disconnect(conn rooms.Connection) {
	h.enqueue(event{kind: eventDisconnect, conn: conn})
}

func (h *Hub) enqueue(ev event) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

// Stats asks the loop for a registry summary.
func (h *Hub) Stats(ctx context.Context) (protocol.Stats, error) {
	reply := make(chan protocol.Stats, 1)
	select {
	case h.stats <- reply:
	case <-h.done:
		return protocol.Stats{}, ErrHubStopped
	case <-ctx.Done():
		return protocol.Stats{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return protocol.Stats{}, ctx.Err()
	}
}
