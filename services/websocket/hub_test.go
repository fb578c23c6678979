package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(h *Hub, teacherID uint) *Client {
	return &Client{
		hub:       h,
		send:      make(chan []byte, 8),
		teacherID: teacherID,
	}
}

func TestSendToTeacherIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient(hub, 1)
	c2 := newTestClient(hub, 1)
	c3 := newTestClient(hub, 2)

	hub.register <- c1
	hub.register <- c2
	hub.register <- c3

	waitFor(t, func() bool { return hub.SessionCount() == 3 })

	hub.SendToTeacher(1, Event{Type: "notification", Data: map[string]string{"title": "Quiz due"}})

	for _, c := range []*Client{c1, c2} {
		select {
		case raw := <-c.send:
			var ev Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				t.Fatalf("invalid event payload: %v", err)
			}
			if ev.Type != "notification" {
				t.Errorf("event type = %q, want %q", ev.Type, "notification")
			}
		case <-time.After(time.Second):
			t.Fatal("teacher 1 session did not receive the event")
		}
	}

	select {
	case <-c3.send:
		t.Fatal("teacher 2 session received an event addressed to teacher 1")
	default:
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, 7)
	hub.register <- c
	waitFor(t, func() bool { return hub.SessionCount() == 1 })

	hub.unregister <- c
	waitFor(t, func() bool { return hub.SessionCount() == 0 })

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed after unregister")
	}
}

func TestSendToTeacherDropsSlowSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte), teacherID: 3}
	hub.register <- slow
	waitFor(t, func() bool { return hub.SessionCount() == 1 })

	// Unbuffered send channel with no reader: the session must be evicted
	// rather than blocking the hub.
	hub.SendToTeacher(3, Event{Type: "notification"})

	if n := hub.SessionCount(); n != 0 {
		t.Errorf("SessionCount() = %d after evicting slow session, want 0", n)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
