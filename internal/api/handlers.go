package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"coderoom/internal/metrics"
	"coderoom/internal/models"
	"coderoom/internal/session"
	"coderoom/internal/utils"
)

// LanguageSource enumerates the languages the dispatcher accepts.
type LanguageSource interface {
	Languages() []models.Language
}

type Handlers struct {
	log       *utils.Logger
	coord     *session.Coordinator
	languages LanguageSource
}

func NewHandlers(log *utils.Logger, coord *session.Coordinator, languages LanguageSource) *Handlers {
	return &Handlers{log: log, coord: coord, languages: languages}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) ListLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.languages.Languages())
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// RoomWS is the duplex event channel, one connection per participant.
// The read loop processes each frame to completion before the next, so
// membership mutations from one connection never interleave.
func (h *Handlers) RoomWS(w http.ResponseWriter, r *http.Request) {
	if utils.AuthEnabled() {
		if _, err := utils.ValidateRoomToken(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := session.NewClient(conn)
	metrics.ConnectionOpened()
	defer metrics.ConnectionClosed()
	defer h.coord.HandleDisconnect(client)

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		h.handleFrame(client, frame)
	}
}

// handleFrame validates the tagged payload and hands it to the
// coordinator. Malformed payloads are rejected with an error frame;
// they never reach the coordination logic.
func (h *Handlers) handleFrame(client *session.Client, frame models.Frame) {
	switch frame.Type {
	case models.EventJoin:
		p, err := frame.DecodeJoin()
		if err != nil {
			client.Send(errFrame("malformed join"))
			return
		}
		h.coord.HandleJoin(client, p)

	case models.EventCodeChange:
		p, err := frame.DecodeCodeChange()
		if err != nil {
			client.Send(errFrame("malformed code-change"))
			return
		}
		h.coord.HandleCodeChange(client, p)

	case models.EventSyncCode:
		p, err := frame.DecodeSyncCode()
		if err != nil {
			client.Send(errFrame("malformed sync-code"))
			return
		}
		h.coord.HandleSyncCode(client, p)

	case models.EventRunCode:
		req, err := frame.DecodeRunCode()
		if err != nil {
			client.Send(errFrame("malformed run-code"))
			return
		}
		h.coord.HandleRunCode(client, req)

	default:
		client.Send(errFrame("unknown_type"))
	}
}

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: "error", Data: msg} }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
