package services

import (
	"testing"
	"time"

	"inventario-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsPublishedEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{UserID: 1, Send: make(chan WSMessage, 4), Hub: hub}
	hub.register <- client
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("device.saved", DeviceEvent{Kind: models.DeviceTypeMonitor, ID: 3})

	select {
	case msg := <-client.Send:
		assert.Equal(t, "device.saved", msg.Type)
		assert.Equal(t, DeviceEvent{Kind: models.DeviceTypeMonitor, ID: 3}, msg.Payload)
	case <-time.After(time.Second):
		require.Fail(t, "event was not delivered")
	}

	hub.unregister <- client
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubPublishDoesNotBlock(t *testing.T) {
	// Хаб не запущен, очередь переполняется
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish("import.progress", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
