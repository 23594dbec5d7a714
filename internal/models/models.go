package models

import (
	"encoding/json"
	"errors"
	"time"
)

type Language string

const (
	LangCPP Language = "cpp"
)

// Event names shared with clients over the websocket.
const (
	EventJoin         = "join"
	EventJoined       = "joined"
	EventCodeChange   = "code-change"
	EventSyncCode     = "sync-code"
	EventDisconnected = "disconnected"
	EventRunCode      = "run-code"
	EventCodeOutput   = "code-output"
)

// Frame is one inbound websocket message. Data stays raw until the
// event-specific decoder has validated it.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WSFrame is one outbound websocket message.
type WSFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var ErrMalformedPayload = errors.New("malformed payload")

type JoinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (f Frame) DecodeJoin() (JoinPayload, error) {
	var p JoinPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return JoinPayload{}, ErrMalformedPayload
	}
	if p.RoomID == "" || p.Username == "" {
		return JoinPayload{}, ErrMalformedPayload
	}
	return p, nil
}

// ClientInfo identifies one participant in membership listings.
type ClientInfo struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

// JoinedPayload carries the full membership list plus the new joiner's
// identity to every member of the room.
type JoinedPayload struct {
	Clients  []ClientInfo `json:"clients"`
	Username string       `json:"username"`
	SocketID string       `json:"socketId"`
}

type CodeChangePayload struct {
	RoomID string `json:"roomId,omitempty"`
	Code   string `json:"code"`
}

func (f Frame) DecodeCodeChange() (CodeChangePayload, error) {
	var p CodeChangePayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return CodeChangePayload{}, ErrMalformedPayload
	}
	// An empty code buffer is a legitimate edit; only the room is required.
	if p.RoomID == "" {
		return CodeChangePayload{}, ErrMalformedPayload
	}
	return p, nil
}

// SyncCodePayload is the one-shot document hand-off toward a single
// connection, keyed by its socket ID.
type SyncCodePayload struct {
	SocketID string `json:"socketId"`
	Code     string `json:"code"`
}

func (f Frame) DecodeSyncCode() (SyncCodePayload, error) {
	var p SyncCodePayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return SyncCodePayload{}, ErrMalformedPayload
	}
	if p.SocketID == "" {
		return SyncCodePayload{}, ErrMalformedPayload
	}
	return p, nil
}

type DisconnectedPayload struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

// RunRequest asks for one execution of the given source in a room's
// execution context.
type RunRequest struct {
	RoomID   string   `json:"roomId"`
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

func (f Frame) DecodeRunCode() (RunRequest, error) {
	var p RunRequest
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return RunRequest{}, ErrMalformedPayload
	}
	if p.RoomID == "" || p.Language == "" {
		return RunRequest{}, ErrMalformedPayload
	}
	return p, nil
}

// ResultKind classifies the outcome of one execution attempt.
type ResultKind string

const (
	ResultExecution           ResultKind = "execution-result"
	ResultCompilationError    ResultKind = "compilation-error"
	ResultRuntimeError        ResultKind = "runtime-error"
	ResultUnsupportedLanguage ResultKind = "unsupported-language"
	ResultServerError         ResultKind = "server-error"
)

// RunResult is broadcast to the whole room as the code-output event.
type RunResult struct {
	Output  string     `json:"output"`
	Error   string     `json:"error"`
	Success bool       `json:"success"`
	Type    ResultKind `json:"type"`
}

// RoomEvent is the lifecycle record published to the external event feed.
type RoomEvent struct {
	RoomID   string    `json:"roomId"`
	Event    string    `json:"event"`
	SocketID string    `json:"socketId,omitempty"`
	Username string    `json:"username,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}
