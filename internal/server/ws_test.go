package server

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
	"github.com/haruki-inoue-314/santa-viewer/internal/publisher"
)

func TestWebsocketReceivesBroadcastFrames(t *testing.T) {
	s, ts := newTestServer()
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	frame := publisher.Frame{
		Timestamp:   time.Unix(1, 0).UTC(),
		JourneyTime: 1005_000,
		Position:    journey.Coordinate{10, 0},
		Visited:     1,
		TrailPoints: 1,
		LastStop:    "a",
	}
	// registration happens just after the handshake; wait for it before
	// broadcasting
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)
	s.Broadcast(frame)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got publisher.Frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, frame.JourneyTime, got.JourneyTime)
	assert.Equal(t, frame.Position, got.Position)
	assert.Equal(t, "a", got.LastStop)
}
