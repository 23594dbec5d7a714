package session

import (
	"sync"

	"coderoom/internal/models"
)

// Participant is one connection's membership record within a room.
type Participant struct {
	Client   *Client
	Username string
	RoomID   string
}

// Registry tracks which connections belong to which room. Room
// membership is derived from the participant map; a room with no
// participants simply stops being enumerable.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]*Participant // keyed by socket ID
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[string]*Participant)}
}

// Join records membership for the client's connection. A repeat join by
// the same connection overwrites the previous mapping.
func (r *Registry) Join(c *Client, roomID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[c.ID] = &Participant{Client: c, Username: username, RoomID: roomID}
}

// Members enumerates the current participants of a room. Order is not
// significant.
func (r *Registry) Members(roomID string) []models.ClientInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]models.ClientInfo, 0)
	for id, p := range r.participants {
		if p.RoomID == roomID {
			members = append(members, models.ClientInfo{SocketID: id, Username: p.Username})
		}
	}
	return members
}

func (r *Registry) Lookup(socketID string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[socketID]
	return p, ok
}

// Remove deletes the mapping and returns the removed participant so the
// caller can notify the former room.
func (r *Registry) Remove(socketID string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[socketID]
	if ok {
		delete(r.participants, socketID)
	}
	return p, ok
}

func (r *Registry) clientsIn(roomID, exceptID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0)
	for id, p := range r.participants {
		if p.RoomID != roomID || id == exceptID {
			continue
		}
		clients = append(clients, p.Client)
	}
	return clients
}
