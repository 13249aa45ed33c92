package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHub_RunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(ctx)

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("цикл хаба должен завершиться при отмене контекста")
	}
}

func TestHub_BroadcastToUser_Payload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	client := &Client{userID: userID, send: make(chan []byte, 1)}
	hub.Register(client)

	if err := hub.BroadcastToUser(userID, "exchange_requested", map[string]int{"price": 5}); err != nil {
		t.Fatalf("BroadcastToUser() error = %v", err)
	}

	select {
	case raw := <-client.send:
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("сообщение должно быть валидным JSON: %v", err)
		}
		if msg.Type != "exchange_requested" {
			t.Errorf("type = %q, ожидалось exchange_requested", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("сообщение должно дойти до клиента")
	}
}
