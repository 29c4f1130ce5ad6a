package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/config"
)

func newTestServer(t *testing.T) (*app.Room, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		Mode:       "release",
		StaticPath: t.TempDir(),
		ReadLimit:  4096,
		PingPeriod: 54 * time.Second,
		SendBuffer: 8,
		Secret:     "test-secret",
	}
	room := app.NewRoom(app.NewRegistry(), app.NewTypingTracker(), app.NewHub())
	srv := httptest.NewServer(SetupRouter(context.Background(), cfg, room))
	t.Cleanup(srv.Close)
	return room, srv
}

func dialChat(t *testing.T, srv *httptest.Server, cookie string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/chat"
	header := http.Header{}
	header.Set("Cookie", cookie)
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// Two tabs of one browser share the ct cookie but must live as separate
// sessions: closing an unjoined second tab must not tear down the first
// tab's registration.
func TestRouter_TabCloseDoesNotEvictSiblingSession(t *testing.T) {
	room, srv := newTestServer(t)

	tabA := dialChat(t, srv, "ct=shared-token")
	require.NoError(t, tabA.WriteMessage(websocket.TextMessage, []byte(`{"type":"join","data":"alice"}`)))
	require.Equal(t, "userJoined", readEvent(t, tabA)["type"])
	require.Equal(t, "onlineUsers", readEvent(t, tabA)["type"])

	tabB := dialChat(t, srv, "ct=shared-token")
	// Round-trip a ping so the handler has attached the connection
	// before we slam it shut.
	require.NoError(t, tabB.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	require.Equal(t, "pong", readEvent(t, tabB)["type"])
	require.NoError(t, tabB.Close())

	require.Never(t, func() bool {
		return len(room.MembersSnapshot()) != 1
	}, 500*time.Millisecond, 25*time.Millisecond)

	members := room.MembersSnapshot()
	require.Len(t, members, 1)
	require.Equal(t, "alice", members[0].Username)
}

func TestRouter_TabsShareCookieButJoinSeparately(t *testing.T) {
	room, srv := newTestServer(t)

	tabA := dialChat(t, srv, "ct=shared-token")
	require.NoError(t, tabA.WriteMessage(websocket.TextMessage, []byte(`{"type":"join","data":"alice"}`)))
	require.Equal(t, "userJoined", readEvent(t, tabA)["type"])
	require.Equal(t, "onlineUsers", readEvent(t, tabA)["type"])

	tabB := dialChat(t, srv, "ct=shared-token")
	require.NoError(t, tabB.WriteMessage(websocket.TextMessage, []byte(`{"type":"join","data":"alice"}`)))
	require.Equal(t, "userJoined", readEvent(t, tabB)["type"])

	roster := readEvent(t, tabB)
	require.Equal(t, "onlineUsers", roster["type"])
	require.Len(t, roster["users"], 2)

	require.Len(t, room.MembersSnapshot(), 2)
}
