package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullscows/internal/api"
	"bullscows/internal/factory"
	"bullscows/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "bnc-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bnc")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
		Hub:      app.Hub,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// wsPlayer is a scripted websocket participant for driving game state
type wsPlayer struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialPlayer(t *testing.T, serverURL string) *wsPlayer {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &wsPlayer{t: t, conn: conn}
}

func (p *wsPlayer) send(action string, data any) {
	p.t.Helper()
	require.NoError(p.t, p.conn.WriteJSON(map[string]any{"action": action, "data": data}))
}

// waitFor reads events until the named one arrives
func (p *wsPlayer) waitFor(event string) json.RawMessage {
	p.t.Helper()

	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(p.t, p.conn.ReadJSON(&env))
		if env.Event == event {
			return env.Data
		}
	}
}

// Response types for JSON parsing

type roomResponse struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Players []struct {
		DisplayName string `json:"display_name"`
		HasSecret   bool   `json:"has_secret"`
	} `json:"players"`
	CurrentPlayer *string `json:"current_player"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RoomInspection(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Drive a game to in_progress over the websocket channel
	alice := dialPlayer(t, ts.addr)
	bob := dialPlayer(t, ts.addr)

	alice.send("create_room", map[string]string{"name": "Alice"})
	var created struct {
		RoomID string `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(alice.waitFor("room_created"), &created))
	roomCode := created.RoomID

	bob.send("join_room", map[string]string{"room_id": roomCode, "name": "Bob"})
	bob.waitFor("room_update")

	alice.send("submit_secret", map[string]string{"room_id": roomCode, "secret": "1234"})
	alice.waitFor("secret_saved")
	bob.send("submit_secret", map[string]string{"room_id": roomCode, "secret": "5678"})
	bob.waitFor("start_game")

	// The CLI sees the in-progress room without secrets
	output, err := cli.run("room", "get", roomCode)
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, roomCode, room.Code)
	assert.Equal(t, "in_progress", room.Status)
	require.Len(t, room.Players, 2)
	assert.Equal(t, "Alice", room.Players[0].DisplayName)
	assert.True(t, room.Players[0].HasSecret)
	require.NotNil(t, room.CurrentPlayer)
	assert.Equal(t, "Alice", *room.CurrentPlayer)
	assert.NotContains(t, output, "1234")
	assert.NotContains(t, output, "5678")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("room", "get", "NOPE1")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
