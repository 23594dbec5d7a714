package session

import (
	"context"
	"time"

	"coderoom/internal/metrics"
	"coderoom/internal/models"
	"coderoom/internal/utils"
)

// Dispatcher runs a submitted program and reports a structured result.
type Dispatcher interface {
	Dispatch(ctx context.Context, req models.RunRequest) models.RunResult
}

// EventPublisher mirrors room lifecycle events onto an external feed.
type EventPublisher interface {
	PublishRoomEvent(ctx context.Context, evt models.RoomEvent) error
}

// Coordinator wires inbound room events to the registry, the broadcast
// router, and the execution dispatcher. Each connection's read loop
// calls it serially; the registry mutex covers interleaving across
// connections.
type Coordinator struct {
	log      *utils.Logger
	registry *Registry
	router   *Router
	exec     Dispatcher
	events   EventPublisher // optional; nil disables publishing
}

func NewCoordinator(log *utils.Logger, registry *Registry, router *Router, exec Dispatcher, events EventPublisher) *Coordinator {
	return &Coordinator{
		log:      log,
		registry: registry,
		router:   router,
		exec:     exec,
		events:   events,
	}
}

// HandleJoin registers the participant and delivers the joined event,
// carrying the full membership list, to every room member including the
// joiner itself.
func (co *Coordinator) HandleJoin(c *Client, p models.JoinPayload) {
	co.registry.Join(c, p.RoomID, p.Username)
	payload := models.JoinedPayload{
		Clients:  co.registry.Members(p.RoomID),
		Username: p.Username,
		SocketID: c.ID,
	}
	co.router.ToRoomExceptSender(p.RoomID, c.ID, models.EventJoined, payload)
	co.router.ToConnection(c.ID, models.EventJoined, payload)

	metrics.RoomJoined()
	co.publish(models.RoomEvent{RoomID: p.RoomID, Event: models.EventJoined, SocketID: c.ID, Username: p.Username})
	co.log.Info("participant joined", "room", p.RoomID, "socket", c.ID, "username", p.Username)
}

// HandleCodeChange relays a document edit room-wide, never back to the
// sender. The server holds no canonical document; the last event applied
// by each recipient wins.
func (co *Coordinator) HandleCodeChange(c *Client, p models.CodeChangePayload) {
	co.router.ToRoomExceptSender(p.RoomID, c.ID, models.EventCodeChange, models.CodeChangePayload{Code: p.Code})
}

// HandleSyncCode relays a document snapshot to exactly one connection as
// a code-change event. The emitting peer chooses the source text; the
// server does not judge it.
func (co *Coordinator) HandleSyncCode(_ *Client, p models.SyncCodePayload) {
	co.router.ToConnection(p.SocketID, models.EventCodeChange, models.CodeChangePayload{Code: p.Code})
}

// HandleRunCode dispatches the execution asynchronously and broadcasts
// the result to the whole room, sender included. Concurrent requests in
// one room race independently through their own workspaces; results
// arrive in completion order.
func (co *Coordinator) HandleRunCode(c *Client, req models.RunRequest) {
	co.log.Info("run requested", "room", req.RoomID, "socket", c.ID, "language", string(req.Language), "bytes", len(req.Code))
	go func() {
		result := co.exec.Dispatch(context.Background(), req)
		co.router.ToRoom(req.RoomID, models.EventCodeOutput, result)
		co.publish(models.RoomEvent{RoomID: req.RoomID, Event: models.EventCodeOutput, SocketID: c.ID, Detail: string(result.Type)})
	}()
}

// HandleDisconnect removes the participant and notifies only its former
// room. A connection that never joined is a no-op.
func (co *Coordinator) HandleDisconnect(c *Client) {
	p, ok := co.registry.Remove(c.ID)
	if !ok {
		return
	}
	co.router.ToRoom(p.RoomID, models.EventDisconnected, models.DisconnectedPayload{SocketID: c.ID, Username: p.Username})
	co.publish(models.RoomEvent{RoomID: p.RoomID, Event: models.EventDisconnected, SocketID: c.ID, Username: p.Username})
	co.log.Info("participant left", "room", p.RoomID, "socket", c.ID, "username", p.Username)
}

func (co *Coordinator) publish(evt models.RoomEvent) {
	if co.events == nil {
		return
	}
	evt.At = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := co.events.PublishRoomEvent(ctx, evt); err != nil {
		co.log.Warn("room event publish failed", "room", evt.RoomID, "event", evt.Event, "error", err.Error())
	}
}
