package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duet/internal/game"
	"duet/internal/protocol"
	"duet/internal/relay"
	"duet/internal/rooms"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>duet</h1>"), 0o644))

	registry := rooms.NewRegistry(func() *game.Game {
		return game.New(game.FixedWord("DOG"), nil)
	})
	hub := relay.NewHub(registry, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(NewServer(hub, dir, zerolog.Nop()).Router())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func read(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var in protocol.Inbound
	require.NoError(t, json.Unmarshal(data, &in))
	return in.Type, data
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStaticAssets(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "duet")
}

func TestTwoPartySession(t *testing.T) {
	ts := newTestServer(t)
	alice := dial(t, ts)
	bob := dial(t, ts)

	send(t, alice, `{"type":"client_ready","username":"alice","roomId":"abc"}`)
	kind, _ := read(t, alice)
	assert.Equal(t, protocol.TypeClientJoined, kind)

	send(t, bob, `{"type":"client_ready","username":"bob","roomId":"abc"}`)
	kind, _ = read(t, bob)
	assert.Equal(t, protocol.TypeClientJoined, kind)
	kind, _ = read(t, bob)
	assert.Equal(t, protocol.TypeGuessState, kind)

	kind, _ = read(t, alice)
	assert.Equal(t, protocol.TypePeerConnected, kind)
	kind, data := read(t, alice)
	require.Equal(t, protocol.TypeGuessState, kind)
	var state protocol.GameStateMessage
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, game.MaxTurns, state.TurnsLeft)

	offer := `{"type":"offer","offer":{"type":"offer","sdp":"v=0"},"roomId":"abc"}`
	send(t, alice, offer)
	kind, data = read(t, bob)
	assert.Equal(t, protocol.TypeOffer, kind)
	assert.Equal(t, offer, string(data))

	send(t, bob, `{"type":"guess_game_move","guess":"o"}`)
	for _, c := range []*websocket.Conn{alice, bob} {
		_, data = read(t, c)
		require.NoError(t, json.Unmarshal(data, &state))
		assert.Equal(t, []string{"_", "O", "_"}, state.DisplayWord)
	}

	// a third party is turned away
	carol := dial(t, ts)
	send(t, carol, `{"type":"client_ready","username":"carol","roomId":"abc"}`)
	kind, data = read(t, carol)
	require.Equal(t, protocol.TypeError, kind)
	var rejected protocol.ErrorMessage
	require.NoError(t, json.Unmarshal(data, &rejected))
	assert.Equal(t, protocol.CodeRoomFull, rejected.Code)

	// alice leaves, bob gets a fresh game
	require.NoError(t, alice.Close())
	kind, data = read(t, bob)
	require.Equal(t, protocol.TypeGuessState, kind)
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Empty(t, state.GuessedLetters)
	assert.Equal(t, game.MaxTurns, state.TurnsLeft)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	alice := dial(t, ts)
	send(t, alice, `{"type":"client_ready","username":"alice","roomId":"abc"}`)
	read(t, alice)

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats protocol.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, protocol.Stats{Rooms: 1, Connections: 1, Games: 0}, stats)
}
