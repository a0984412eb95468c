package observer

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nstehr/vimy/supply-core/rules"
	"github.com/nstehr/vimy/supply-core/supply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ supply.Recorder = (*Hub)(nil)

func TestHubBroadcastsDecisions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Record(supply.Decision{Tick: 42, Verdict: rules.Build, Strategy: supply.StrategySuperPylon, Placed: true})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got supply.Decision
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, 42, got.Tick)
	assert.Equal(t, supply.StrategySuperPylon, got.Strategy)
	assert.True(t, got.Placed)
}

func TestHubForgetsClosedViewers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRecordWithoutViewersDoesNotBlock(t *testing.T) {
	hub := NewHub() // Run never started
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			hub.Record(supply.Decision{Tick: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked")
	}
}
