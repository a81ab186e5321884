package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/courtsideinc/tennis-score-backend/internal/apperror"
	"github.com/courtsideinc/tennis-score-backend/internal/entity"
)

// ResponsePayload is the JSON body of every game endpoint. Score and
// State re-read the game after each mutation, so a client can re-render
// from the response alone.
type ResponsePayload struct {
	Game  *entity.Game      `json:"game,omitempty"`
	Score string            `json:"score,omitempty"`
	State *entity.GameState `json:"state,omitempty"`
	Error string            `json:"error,omitempty"`
}

type createGameRequest struct {
	ID    string `json:"id,omitempty"`
	NameA string `json:"name_a"`
	NameB string `json:"name_b"`
}

type awardPointRequest struct {
	Side string `json:"side"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var request createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.manager.GetOrCreateGame(r.Context(), request.ID, request.NameA, request.NameB)
	if err != nil {
		that.logger.Error("failed to create game", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}

	that.writeGame(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeGameError(w, err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *Server) handleAwardPoint(w http.ResponseWriter, r *http.Request) {
	var request awardPointRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.manager.AwardPoint(r.Context(), r.PathValue("id"), request.Side)
	if err != nil {
		that.writeGameError(w, err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.ResetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeGameError(w, err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *Server) writeGame(w http.ResponseWriter, status int, game *entity.Game) {
	state := game.State()

	that.writeJSON(w, status, ResponsePayload{
		Game:  game,
		Score: game.FormattedScore(),
		State: &state,
	})
}

func (that *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeError(w, http.StatusNotFound, apperror.ErrGameNotFound.Error())
	case errors.Is(err, apperror.ErrGameAlreadyWon):
		that.writeError(w, http.StatusConflict, apperror.ErrGameAlreadyWon.Error())
	case errors.Is(err, apperror.ErrUnknownSide):
		that.writeError(w, http.StatusBadRequest, apperror.ErrUnknownSide.Error())
	default:
		that.logger.Error("request failed", "error", err)
		that.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (that *Server) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, ResponsePayload{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload ResponsePayload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
