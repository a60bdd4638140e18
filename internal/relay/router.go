// Package relay routes client messages between the members of a room and
// drives the room's word game.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"duet/internal/game"
	"duet/internal/protocol"
	"duet/internal/rooms"
	"duet/internal/transport"
)

// Router is not safe for concurrent use. Hub serializes every call.
type Router struct {
	registry *rooms.Registry
	log      zerolog.Logger
}

func NewRouter(registry *rooms.Registry, log zerolog.Logger) *Router {
	return &Router{registry: registry, log: log}
}

// Connected starts tracking a freshly accepted connection.
func (r *Router) Connected(conn rooms.Connection) {
	r.registry.Track(conn)
	r.log.Debug().Str("conn", conn.ID()).Msg("connection accepted")
}

// Disconnected evicts conn. A member left alone gets a fresh game.
func (r *Router) Disconnected(conn rooms.Connection) {
	room, survivor := r.registry.Evict(conn)
	if room == nil {
		r.log.Debug().Str("conn", conn.ID()).Msg("unassigned connection closed")
		return
	}
	r.log.Info().Str("conn", conn.ID()).Str("room", room.ID()).Int("members", room.Size()).Msg("member left")
	if survivor != nil {
		r.sendTo(survivor, r.gameState(room.Game()))
	}
}

// Route dispatches one raw client message.
func (r *Router) Route(conn rooms.Connection, data []byte) {
	var in protocol.Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		r.log.Warn().Err(err).Str("conn", conn.ID()).Msg("invalid message")
		return
	}

	if in.Type == protocol.TypeClientReady {
		r.join(conn, data)
		return
	}

	room, ok := r.registry.RoomOf(conn)
	if !ok {
		r.log.Debug().Str("conn", conn.ID()).Str("type", in.Type).Msg("message before client_ready dropped")
		return
	}

	switch in.Type {
	case protocol.TypeOffer, protocol.TypeAnswer, protocol.TypeCandidate, protocol.TypeEndCall:
		r.forward(room.ID(), conn, data)
	case protocol.TypeChatMessage:
		r.chat(room, conn, data)
	case protocol.TypeYouTubeSync:
		r.relaySync(conn, data)
	case protocol.TypeGuessMove, protocol.TypeGuessHint, protocol.TypeGuessRestart:
		r.play(room, conn, in.Type, data)
	default:
		r.log.Debug().Str("conn", conn.ID()).Str("type", in.Type).Msg("unknown message type")
	}
}

func (r *Router) join(conn rooms.Connection, data []byte) {
	var ready protocol.ClientReady
	if err := json.Unmarshal(data, &ready); err != nil {
		r.log.Warn().Err(err).Str("conn", conn.ID()).Msg("invalid client_ready")
		return
	}

	room, full, err := r.registry.Admit(conn, ready.RoomID, ready.Username)
	switch {
	case errors.Is(err, rooms.ErrRoomFull):
		r.log.Info().Str("conn", conn.ID()).Str("room", room.ID()).Msg("join rejected, room full")
		r.sendTo(conn, protocol.ErrorMessage{
			Type:    protocol.TypeError,
			Code:    protocol.CodeRoomFull,
			Message: fmt.Sprintf("room %q already has %d members", room.ID(), rooms.Capacity),
		})
		return
	case errors.Is(err, rooms.ErrInvalidRoomID):
		r.sendTo(conn, protocol.ErrorMessage{
			Type:    protocol.TypeError,
			Code:    protocol.CodeInvalidRoomID,
			Message: err.Error(),
		})
		return
	case err != nil:
		r.log.Debug().Err(err).Str("conn", conn.ID()).Msg("client_ready ignored")
		return
	}

	r.log.Info().Str("conn", conn.ID()).Str("room", room.ID()).Str("username", ready.Username).
		Int("members", room.Size()).Msg("member joined")
	r.sendTo(conn, protocol.ClientJoined{
		Type:    protocol.TypeClientJoined,
		RoomID:  room.ID(),
		Message: fmt.Sprintf("Joined room %s.", room.ID()),
	})
	if !full {
		return
	}

	// the earlier member starts the call
	members := room.Members()
	r.sendTo(members[0], protocol.PeerConnected{Type: protocol.TypePeerConnected})
	r.broadcast(members, r.gameState(room.Game()))
}

func (r *Router) forward(roomID string, conn rooms.Connection, data []byte) {
	peers := r.registry.PeersOf(conn)
	if len(peers) == 0 {
		r.log.Debug().Str("conn", conn.ID()).Str("room", roomID).Msg("no peer, negotiation dropped")
		return
	}
	r.deliver(peers, data)
}

func (r *Router) chat(room *rooms.Room, conn rooms.Connection, data []byte) {
	var msg protocol.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.log.Warn().Err(err).Str("conn", conn.ID()).Msg("invalid chat_message")
		return
	}
	r.deliver(room.Members(), data)
}

func (r *Router) play(room *rooms.Room, conn rooms.Connection, kind string, data []byte) {
	g := room.Game()
	if g == nil {
		r.log.Debug().Str("conn", conn.ID()).Str("room", room.ID()).Msg("no game yet")
		return
	}

	var err error
	switch kind {
	case protocol.TypeGuessMove:
		var move protocol.GuessMove
		if err = json.Unmarshal(data, &move); err != nil {
			r.log.Warn().Err(err).Str("conn", conn.ID()).Msg("invalid guess_game_move")
			return
		}
		err = g.Guess(move.Guess)
	case protocol.TypeGuessHint:
		err = g.RequestHint()
	case protocol.TypeGuessRestart:
		g.Restart()
	}
	if err != nil {
		r.log.Debug().Err(err).Str("conn", conn.ID()).Str("type", kind).Msg("move rejected")
		return
	}
	r.broadcast(room.Members(), r.gameState(g))
}

func (r *Router) gameState(g *game.Game) protocol.GameStateMessage {
	return protocol.GameStateMessage{Type: protocol.TypeGuessState, GameState: g.Snapshot()}
}

func (r *Router) sendTo(conn rooms.Connection, msg any) {
	r.broadcast([]rooms.Connection{conn}, msg)
}

func (r *Router) broadcast(conns []rooms.Connection, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Msg("marshal outbound message")
		return
	}
	r.deliver(conns, data)
}

// deliver never blocks. A receiver that cannot keep up is closed; its
// transport then reports the disconnect.
func (r *Router) deliver(conns []rooms.Connection, data []byte) {
	for _, c := range conns {
		err := c.Send(data)
		switch {
		case err == nil:
		case errors.Is(err, transport.ErrSendBufferFull):
			r.log.Warn().Str("conn", c.ID()).Msg("send buffer full, closing connection")
			_ = c.Close()
		default:
			r.log.Debug().Err(err).Str("conn", c.ID()).Msg("send dropped")
		}
	}
}
