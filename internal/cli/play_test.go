package cli

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullscows/internal/api"
	"bullscows/internal/factory"
	"bullscows/internal/testutil"
)

func TestActionPayloadsCarryRoomCode(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"join_room", joinRoomMsg{RoomID: "ABCDE", Name: "Bob"}, `{"room_id":"ABCDE","name":"Bob"}`},
		{"submit_secret", submitSecretMsg{RoomID: "ABCDE", Secret: "1234"}, `{"room_id":"ABCDE","secret":"1234"}`},
		{"submit_guess", submitGuessMsg{RoomID: "ABCDE", Guess: "5678"}, `{"room_id":"ABCDE","guess":"5678"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestRenderRecordsCreatedRoomCode(t *testing.T) {
	s := &session{name: "Alice"}

	done, _, err := s.render(wsEvent{
		Event: "room_created",
		Data:  json.RawMessage(`{"room_id":"ABCDE"}`),
	})
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "ABCDE", s.room)
}

// startPlayServer runs a full server for session-level tests
func startPlayServer(t *testing.T) *httptest.Server {
	t.Helper()

	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
		Hub:      app.Hub,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dialSession(t *testing.T, serverURL, name string) *session {
	t.Helper()

	s, err := newSession(&Config{ServerURL: serverURL}, name)
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s
}

// waitFor drains the session's event channel until the named event arrives
func waitFor(t *testing.T, s *session, event string) json.RawMessage {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-s.events:
			if ev.Event == event {
				return ev.Data
			}
		case err := <-s.errs:
			t.Fatalf("connection lost waiting for %s: %v", event, err)
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

// A full game using only the session's own actions: the payloads here
// are byte-for-byte what the interactive loop sends.
func TestSessionPlaysFullGame(t *testing.T) {
	server := startPlayServer(t)

	alice := dialSession(t, server.URL, "Alice")
	bob := dialSession(t, server.URL, "Bob")

	// Alice creates; the created event carries the room code
	require.NoError(t, alice.createRoom())
	var created struct {
		RoomID string `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(waitFor(t, alice, "room_created"), &created))
	require.NotEmpty(t, created.RoomID)
	alice.room = created.RoomID

	// Bob joins with the shared code
	require.NoError(t, bob.joinRoom(created.RoomID))
	waitFor(t, bob, "room_update")

	// Secrets are accepted, not bounced for a missing room
	require.NoError(t, alice.submitSecret("1234"))
	waitFor(t, alice, "secret_saved")

	require.NoError(t, bob.submitSecret("5678"))
	waitFor(t, bob, "secret_saved")
	waitFor(t, alice, "your_turn")
	waitFor(t, bob, "wait_turn")

	// Alice misses, Bob misses, Alice wins
	require.NoError(t, alice.submitGuess("5679"))
	waitFor(t, bob, "your_turn")

	require.NoError(t, bob.submitGuess("4321"))
	waitFor(t, alice, "your_turn")

	require.NoError(t, alice.submitGuess("5678"))

	var over struct {
		Winner         string `json:"winner"`
		YourSecret     string `json:"your_secret"`
		OpponentSecret string `json:"opponent_secret"`
	}
	require.NoError(t, json.Unmarshal(waitFor(t, alice, "game_over"), &over))
	assert.Equal(t, "Alice", over.Winner)
	assert.Equal(t, "1234", over.YourSecret)
	assert.Equal(t, "5678", over.OpponentSecret)

	require.NoError(t, json.Unmarshal(waitFor(t, bob, "game_over"), &over))
	assert.Equal(t, "Alice", over.Winner)
	assert.Equal(t, "5678", over.YourSecret)
}
