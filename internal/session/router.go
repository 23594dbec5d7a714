package session

import "coderoom/internal/models"

// Router delivers named events to connected clients. Delivery is
// fire-and-forget and at-most-once: a recipient that disconnects between
// enumeration and send simply misses the event.
type Router struct {
	registry *Registry
}

func NewRouter(reg *Registry) *Router {
	return &Router{registry: reg}
}

func (rt *Router) ToConnection(socketID, event string, data any) {
	p, ok := rt.registry.Lookup(socketID)
	if !ok {
		return
	}
	p.Client.Send(models.WSFrame{Type: event, Data: data})
}

func (rt *Router) ToRoom(roomID, event string, data any) {
	for _, c := range rt.registry.clientsIn(roomID, "") {
		c.Send(models.WSFrame{Type: event, Data: data})
	}
}

func (rt *Router) ToRoomExceptSender(roomID, senderID, event string, data any) {
	for _, c := range rt.registry.clientsIn(roomID, senderID) {
		c.Send(models.WSFrame{Type: event, Data: data})
	}
}
