package ws

import (
	"chatlens/internal/model"
	"chatlens/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusServer(t *testing.T, hub *Hub, sessionID string) string {
	t.Helper()
	h := NewHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID != "" {
			r = r.WithContext(middleware.WithSessionID(r.Context(), sessionID))
		}
		h.ServeStatus(w, r)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHub_PublishReachesOnlyOwnSession(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial(newStatusServer(t, hub, "s1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount("s1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("s2", &model.StatusEvent{Type: model.EventUploadFailed, UploadID: "other"})
	hub.Publish("s1", &model.StatusEvent{Type: model.EventUploadStarted, UploadID: "u1", FileName: "chat.txt"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev model.StatusEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, model.EventUploadStarted, ev.Type)
	assert.Equal(t, "u1", ev.UploadID)
	assert.Equal(t, "chat.txt", ev.FileName)
}

func TestHub_UnregisterOnClientClose(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial(newStatusServer(t, hub, "s1"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ConnectionCount("s1") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RequiresSession(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, resp, err := websocket.DefaultDialer.Dial(newStatusServer(t, hub, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishWithoutListenersDoesNotBlock(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	for i := 0; i < 1000; i++ {
		hub.Publish("nobody", &model.StatusEvent{Type: model.EventUploadCompleted})
	}
}
