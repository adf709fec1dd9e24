package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"companygrow/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *jwt.HMACService, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil)
	go hub.Run(ctx)

	tokens := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	srv := httptest.NewServer(NewServer("", NewHandler(hub, tokens, nil)).Handler)
	t.Cleanup(srv.Close)
	return hub, tokens, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + token
	return websocket.DefaultDialer.Dial(u, nil)
}

func TestHub_DeliversOnlyToTargetUser(t *testing.T) {
	hub, tokens, srv := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	aliceTok, err := tokens.GenerateAccessToken(jwt.Principal{UserID: alice})
	require.NoError(t, err)
	bobTok, err := tokens.GenerateAccessToken(jwt.Principal{UserID: bob})
	require.NoError(t, err)

	aliceConn, _, err := dial(t, srv, aliceTok)
	require.NoError(t, err)
	defer aliceConn.Close()
	bobConn, _, err := dial(t, srv, bobTok)
	require.NoError(t, err)
	defer bobConn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount(alice) == 1 && hub.ClientCount(bob) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Notify(alice, "badge_earned", map[string]string{"title": "Blue"})

	require.NoError(t, aliceConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := aliceConn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, "badge_earned", evt.Type)
	assert.Equal(t, "Blue", evt.Payload["title"])

	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = bobConn.ReadMessage()
	assert.Error(t, err)
}

func TestHandler_RejectsMissingOrRefreshToken(t *testing.T) {
	_, tokens, srv := startHub(t)

	_, resp, err := dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	refresh, err := tokens.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, resp, err = dial(t, srv, refresh)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, tokens, srv := startHub(t)
	id := uuid.New()
	tok, err := tokens.GenerateAccessToken(jwt.Principal{UserID: id})
	require.NoError(t, err)

	conn, _, err := dial(t, srv, tok)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(id) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.Notify(uuid.New(), "x", nil)
	assert.Zero(t, h.ClientCount(uuid.New()))
}
