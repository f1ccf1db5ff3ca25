package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(hub *Hub, id string, userID uint, name string, workspaceID uint) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		UserName:    name,
		WorkspaceID: workspaceID,
		hub:         hub,
		send:        make(chan []byte, sendBuffer),
	}
}

func recvFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case raw := <-c.send:
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func expectSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PresenceEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	bob := newTestClient(hub, "c2", 2, "Bob", 10)
	eve := newTestClient(hub, "c3", 3, "Eve", 20)

	hub.register <- alice
	hub.register <- bob

	frame := recvFrame(t, alice)
	if frame.Event != "user_online" {
		t.Errorf("event = %s, want user_online", frame.Event)
	}
	if frame.Data["userName"] != "Bob" {
		t.Errorf("userName = %v, want Bob", frame.Data["userName"])
	}
	expectSilent(t, bob)

	hub.register <- eve
	expectSilent(t, alice)
	expectSilent(t, bob)

	hub.unregister <- bob
	frame = recvFrame(t, alice)
	if frame.Event != "user_offline" || frame.Data["userName"] != "Bob" {
		t.Errorf("got %s/%v, want user_offline for Bob", frame.Event, frame.Data["userName"])
	}
	expectSilent(t, eve)
}

func TestHub_EmitToWorkspace(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	eve := newTestClient(hub, "c3", 3, "Eve", 20)
	hub.register <- alice
	hub.register <- eve

	hub.EmitToWorkspace(10, "task_updated", map[string]any{"taskId": 5})

	frame := recvFrame(t, alice)
	if frame.Event != "task_updated" || frame.Data["taskId"] != float64(5) {
		t.Errorf("got %s/%v", frame.Event, frame.Data)
	}
	expectSilent(t, eve)
}

func TestHub_EmitToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	bob := newTestClient(hub, "c2", 2, "Bob", 10)
	hub.register <- alice
	hub.register <- bob
	recvFrame(t, alice) // user_online for Bob

	hub.EmitToUser(2, "invitation_accepted", map[string]any{"email": "new@x.dev"})

	frame := recvFrame(t, bob)
	if frame.Event != "invitation_accepted" {
		t.Errorf("event = %s", frame.Event)
	}
	expectSilent(t, alice)
}

func TestRelay_AttributesSender(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	bob := newTestClient(hub, "c2", 2, "Bob", 10)
	hub.register <- alice
	hub.register <- bob
	recvFrame(t, alice) // user_online for Bob

	alice.relay(Frame{Event: "deal_stage_changed", Data: map[string]any{"dealId": 9}})

	frame := recvFrame(t, bob)
	if frame.Event != "deal_stage_changed" {
		t.Errorf("event = %s", frame.Event)
	}
	if frame.Data["changedBy"] != "Alice" {
		t.Errorf("changedBy = %v, want Alice", frame.Data["changedBy"])
	}
	expectSilent(t, alice) // sender is excluded from the rebroadcast
}

func TestRelay_TypingBecomesUserTyping(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	bob := newTestClient(hub, "c2", 2, "Bob", 10)
	hub.register <- alice
	hub.register <- bob
	recvFrame(t, alice)

	alice.relay(Frame{Event: "typing", Data: map[string]any{"context": "deal-9"}})

	frame := recvFrame(t, bob)
	if frame.Event != "user_typing" {
		t.Errorf("event = %s, want user_typing", frame.Event)
	}
	if frame.Data["userId"] != float64(1) || frame.Data["userName"] != "Alice" {
		t.Errorf("data = %v", frame.Data)
	}
	if frame.Data["context"] != "deal-9" {
		t.Errorf("context = %v", frame.Data["context"])
	}
}

func TestRelay_DropsUnknownEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "c1", 1, "Alice", 10)
	bob := newTestClient(hub, "c2", 2, "Bob", 10)
	hub.register <- alice
	hub.register <- bob
	recvFrame(t, alice)

	alice.relay(Frame{Event: "rm_rf_slash", Data: map[string]any{"x": 1}})

	expectSilent(t, bob)
}
