package rooms

import "duet/internal/game"

// Capacity is the number of members a room can hold.
const Capacity = 2

// Connection is one party's live transport channel.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

type Member struct {
	Conn     Connection
	Username string
	room     *Room
}

// Room pairs up to two members. Its game exists once the room has been full.
type Room struct {
	id      string
	members []*Member
	game    *game.Game
}

func (r *Room) ID() string { return r.id }

func (r *Room) Size() int { return len(r.members) }

// Game returns nil until the room has reached Capacity.
func (r *Room) Game() *game.Game { return r.game }

// Members returns the connections in join order.
func (r *Room) Members() []Connection {
	conns := make([]Connection, len(r.members))
	for i, m := range r.members {
		conns[i] = m.Conn
	}
	return conns
}

// Others returns every member except conn.
func (r *Room) Others(conn Connection) []Connection {
	conns := make([]Connection, 0, len(r.members))
	for _, m := range r.members {
		if m.Conn.ID() != conn.ID() {
			conns = append(conns, m.Conn)
		}
	}
	return conns
}

func (r *Room) remove(id string) {
	for i, m := range r.members {
		if m.Conn.ID() == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}
