// Package rooms tracks live connections and pairs them into two-member rooms.
//
// A Registry is not safe for concurrent use; it is owned by the dispatch loop.
package rooms

import (
	"errors"
	"strings"

	"duet/internal/game"
)

const (
	DefaultRoomID = "default"
	maxRoomIDLen  = 64
)

var (
	ErrRoomFull          = errors.New("room is full")
	ErrUnknownConnection = errors.New("connection not tracked")
	ErrAlreadyAdmitted   = errors.New("connection already in a room")
	ErrInvalidRoomID     = errors.New("invalid room id")
)

// GameFactory builds the game for a room that just became full.
type GameFactory func() *game.Game

type Registry struct {
	rooms   map[string]*Room
	members map[string]*Member
	newGame GameFactory
}

func NewRegistry(newGame GameFactory) *Registry {
	if newGame == nil {
		newGame = func() *game.Game { return game.New(nil, nil) }
	}
	return &Registry{
		rooms:   make(map[string]*Room),
		members: make(map[string]*Member),
		newGame: newGame,
	}
}

// Track records a connection that has not picked a room yet.
func (r *Registry) Track(conn Connection) {
	if _, ok := r.members[conn.ID()]; ok {
		return
	}
	r.members[conn.ID()] = &Member{Conn: conn}
}

// Admit puts conn into roomID, creating the room when needed. ready is true
// when this admission filled the room; its game has been initialized then.
func (r *Registry) Admit(conn Connection, roomID, username string) (room *Room, ready bool, err error) {
	member, ok := r.members[conn.ID()]
	if !ok {
		return nil, false, ErrUnknownConnection
	}
	if member.room != nil {
		return member.room, false, ErrAlreadyAdmitted
	}
	roomID = NormalizeRoomID(roomID)
	if len(roomID) > maxRoomIDLen {
		return nil, false, ErrInvalidRoomID
	}

	room, ok = r.rooms[roomID]
	if ok && room.Size() >= Capacity {
		return room, false, ErrRoomFull
	}
	if !ok {
		room = &Room{id: roomID}
		r.rooms[roomID] = room
	}

	member.Username = username
	member.room = room
	room.members = append(room.members, member)

	if room.Size() == Capacity {
		room.game = r.newGame()
		return room, true, nil
	}
	return room, false, nil
}

// RoomOf returns the room conn was admitted to.
func (r *Registry) RoomOf(conn Connection) (*Room, bool) {
	member, ok := r.members[conn.ID()]
	if !ok || member.room == nil {
		return nil, false
	}
	return member.room, true
}

// PeersOf returns the other member of conn's room, if any.
func (r *Registry) PeersOf(conn Connection) []Connection {
	room, ok := r.RoomOf(conn)
	if !ok {
		return nil
	}
	return room.Others(conn)
}

// Member returns the bookkeeping entry for conn.
func (r *Registry) Member(conn Connection) (*Member, bool) {
	m, ok := r.members[conn.ID()]
	return m, ok
}

// Evict forgets conn. When one member is left behind its game is replaced
// and that member is returned as survivor. Empty rooms are deleted.
func (r *Registry) Evict(conn Connection) (room *Room, survivor Connection) {
	member, ok := r.members[conn.ID()]
	if !ok {
		return nil, nil
	}
	delete(r.members, conn.ID())

	room = member.room
	if room == nil {
		return nil, nil
	}
	member.room = nil
	room.remove(conn.ID())

	switch room.Size() {
	case 0:
		delete(r.rooms, room.id)
	case 1:
		room.game = r.newGame()
		survivor = room.members[0].Conn
	}
	return room, survivor
}

// Stats reports rooms, tracked connections and rooms holding a game.
func (r *Registry) Stats() (rooms, connections, games int) {
	for _, room := range r.rooms {
		if room.game != nil {
			games++
		}
	}
	return len(r.rooms), len(r.members), games
}

// NormalizeRoomID trims whitespace and maps a blank id to DefaultRoomID.
func NormalizeRoomID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultRoomID
	}
	return id
}
