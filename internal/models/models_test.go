package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func frame(t *testing.T, typ, data string) Frame {
	t.Helper()
	return Frame{Type: typ, Data: json.RawMessage(data)}
}

func TestDecodeJoin(t *testing.T) {
	p, err := frame(t, EventJoin, `{"roomId":"r1","username":"alice"}`).DecodeJoin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RoomID != "r1" || p.Username != "alice" {
		t.Fatalf("unexpected payload: %#v", p)
	}
}

func TestDecodeJoinRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{"roomId":"r1"}`,
		`{"username":"alice"}`,
		`{}`,
		`"not an object"`,
		`{broken`,
	}
	for _, data := range cases {
		if _, err := frame(t, EventJoin, data).DecodeJoin(); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("expected malformed payload for %s, got %v", data, err)
		}
	}
}

func TestDecodeCodeChangeAllowsEmptyCode(t *testing.T) {
	p, err := frame(t, EventCodeChange, `{"roomId":"r1","code":""}`).DecodeCodeChange()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RoomID != "r1" || p.Code != "" {
		t.Fatalf("unexpected payload: %#v", p)
	}
}

func TestDecodeCodeChangeRequiresRoom(t *testing.T) {
	if _, err := frame(t, EventCodeChange, `{"code":"x"}`).DecodeCodeChange(); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
}

func TestDecodeSyncCodeRequiresSocketID(t *testing.T) {
	p, err := frame(t, EventSyncCode, `{"socketId":"s1","code":"int main(){}"}`).DecodeSyncCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SocketID != "s1" {
		t.Fatalf("unexpected payload: %#v", p)
	}
	if _, err := frame(t, EventSyncCode, `{"code":"x"}`).DecodeSyncCode(); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
}

func TestDecodeRunCode(t *testing.T) {
	req, err := frame(t, EventRunCode, `{"roomId":"r1","code":"int main(){}","language":"cpp"}`).DecodeRunCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Language != LangCPP || req.RoomID != "r1" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if _, err := frame(t, EventRunCode, `{"roomId":"r1","code":"x"}`).DecodeRunCode(); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload without language, got %v", err)
	}
}
