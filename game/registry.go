// game/registry.go
package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/wordchain/gameserver/models"
)

// Registry 는 모든 활성 방을 보관한다. 방 인스턴스의 소유자는 레지스트리뿐이다.
type Registry struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create builds a room with a fresh unique id, registers it and returns it.
func (g *Registry) Create(name string, maxPlayers, botCount int) *Room {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	room := NewRoom(uuid.New().String(), name, maxPlayers, botCount)
	g.rooms[room.ID] = room
	return room
}

func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	room, exists := g.rooms[roomID]
	return room, exists
}

// Remove drops the room from the registry. Rooms are reclaimed when their
// last human session disconnects; bots never hold a room open.
func (g *Registry) Remove(roomID string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	delete(g.rooms, roomID)
}

// List returns a snapshot of all rooms. Callers must not assume it reflects
// mutations made after the snapshot is taken.
func (g *Registry) List() []*Room {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Summaries returns the listing view of every room.
func (g *Registry) Summaries() []models.RoomSummary {
	rooms := g.List()
	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	return summaries
}

// Count returns the number of active rooms.
func (g *Registry) Count() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.rooms)
}
