package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/courtsideinc/tennis-score-backend/internal/entity"
	"github.com/courtsideinc/tennis-score-backend/internal/events"
	"github.com/courtsideinc/tennis-score-backend/internal/repository"
	"github.com/courtsideinc/tennis-score-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), events.NewEmitter())

	server := httptest.NewServer(New(logger, manager).Routes())
	t.Cleanup(server.Close)

	return server
}

func decodePayload(t *testing.T, resp *http.Response) ResponsePayload {
	t.Helper()

	defer resp.Body.Close()

	var payload ResponsePayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	return payload
}

func createGame(t *testing.T, server *httptest.Server, id string) {
	t.Helper()

	body := `{"id":"` + id + `","name_a":"Ann","name_b":"Bo"}`
	resp, err := http.Post(server.URL+"/games", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func postPoint(t *testing.T, server *httptest.Server, id, side string) *http.Response {
	t.Helper()

	resp, err := http.Post(server.URL+"/games/"+id+"/point", "application/json", strings.NewReader(`{"side":"`+side+`"}`))
	require.NoError(t, err)

	return resp
}

func TestServer_Ping(t *testing.T) {
	server := newTestServer(t)

	// When: pinging the server
	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: it should answer pong
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestServer_CreateAndGetGame(t *testing.T) {
	server := newTestServer(t)

	// Given: a created game
	createGame(t, server, "match-1")

	// When: reading it back
	resp, err := http.Get(server.URL + "/games/match-1")
	require.NoError(t, err)

	// Then: the payload should carry the rendered score and state
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodePayload(t, resp)
	assert.Equal(t, "love–love", payload.Score)
	require.NotNil(t, payload.State)
	assert.Equal(t, entity.StateInProgress, payload.State.Kind)
	require.NotNil(t, payload.Game)
	assert.Equal(t, "Ann", payload.Game.NameA)
}

func TestServer_GetGame_NotFound(t *testing.T) {
	server := newTestServer(t)

	// When: reading a game that was never created
	resp, err := http.Get(server.URL + "/games/missing")
	require.NoError(t, err)

	// Then: a 404 with an error payload should come back
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	payload := decodePayload(t, resp)
	assert.Equal(t, "game not found", payload.Error)
}

func TestServer_AwardPoint(t *testing.T) {
	t.Run("Scores a point and re-renders", func(t *testing.T) {
		server := newTestServer(t)
		createGame(t, server, "match-1")

		// When: A scores twice and B once
		for _, side := range []string{"A", "A", "B"} {
			resp := postPoint(t, server, "match-1", side)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}

		resp, err := http.Get(server.URL + "/games/match-1")
		require.NoError(t, err)

		// Then: the score should read 30–15
		payload := decodePayload(t, resp)
		assert.Equal(t, "30–15", payload.Score)
	})

	t.Run("Rejects a point on a won game with 409", func(t *testing.T) {
		server := newTestServer(t)
		createGame(t, server, "match-1")

		// Given: a game A has won outright
		for range 4 {
			resp := postPoint(t, server, "match-1", "A")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}

		// When: another point is posted
		resp := postPoint(t, server, "match-1", "B")

		// Then: the server answers 409 and the game is unchanged
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		payload := decodePayload(t, resp)
		assert.Equal(t, "game is already won", payload.Error)

		resp, err := http.Get(server.URL + "/games/match-1")
		require.NoError(t, err)
		payload = decodePayload(t, resp)
		assert.Equal(t, "Ann wins", payload.Score)
	})

	t.Run("Rejects an unknown side with 400", func(t *testing.T) {
		server := newTestServer(t)
		createGame(t, server, "match-1")

		// When: posting a point for a side that does not exist
		resp := postPoint(t, server, "match-1", "C")

		// Then: the server answers 400
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		payload := decodePayload(t, resp)
		assert.Equal(t, "unknown side", payload.Error)
	})
}

func TestServer_ResetGame(t *testing.T) {
	server := newTestServer(t)
	createGame(t, server, "match-1")

	// Given: a won game
	for range 4 {
		resp := postPoint(t, server, "match-1", "A")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// When: posting a reset
	resp, err := http.Post(server.URL+"/games/match-1/reset", "application/json", nil)
	require.NoError(t, err)

	// Then: the game is back at love-love
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodePayload(t, resp)
	assert.Equal(t, "love–love", payload.Score)
}
