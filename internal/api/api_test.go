package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullscows/internal/api"
	"bullscows/internal/api/response"
	"bullscows/internal/factory"
	"bullscows/internal/model"
	"bullscows/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
		Hub:      app.Hub,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetRoom(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	ts.app.MockRandom.QueueString("ABCDE")
	_, err := ts.app.Registry.CreateRoom(ctx, "Alice", "conn-a", model.DefaultRules())
	require.NoError(t, err)
	_, err = ts.app.Registry.JoinRoom(ctx, "ABCDE", "Bob", "conn-b")
	require.NoError(t, err)

	rec := ts.get("/api/v1/rooms/ABCDE")
	require.Equal(t, http.StatusOK, rec.Code)

	var room response.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))

	assert.Equal(t, "ABCDE", room.Code)
	assert.Equal(t, "waiting_for_secrets", room.Status)
	require.Len(t, room.Players, 2)
	assert.Equal(t, "Alice", room.Players[0].DisplayName)
	assert.Equal(t, "Bob", room.Players[1].DisplayName)
	assert.Nil(t, room.CurrentPlayer)
	assert.Nil(t, room.Winner)
	assert.Equal(t, 4, room.Rules.CodeLength)
}

func TestGetRoomNeverExposesSecrets(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	ts.app.MockRandom.QueueString("ABCDE")
	_, err := ts.app.Registry.CreateRoom(ctx, "Alice", "conn-a", model.DefaultRules())
	require.NoError(t, err)
	_, err = ts.app.Registry.JoinRoom(ctx, "ABCDE", "Bob", "conn-b")
	require.NoError(t, err)
	_, err = ts.app.GameController.SubmitSecret(ctx, "ABCDE", "conn-a", "1234")
	require.NoError(t, err)

	rec := ts.get("/api/v1/rooms/ABCDE")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "1234")
	assert.Contains(t, body, `"has_secret":true`)
}

func TestGetUnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/api/v1/rooms/NOPE1")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "ROOM_NOT_FOUND", errResp.Error.Code)
}
