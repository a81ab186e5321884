package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/courtsideinc/tennis-score-backend/internal/entity"
)

type gameManager interface {
	GetOrCreateGame(ctx context.Context, id, nameA, nameB string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	AwardPoint(ctx context.Context, gameID, side string) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

// Start - starts the HTTP server and shuts it down when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("POST /games", that.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", that.handleGetGame)
	mux.HandleFunc("POST /games/{id}/point", that.handleAwardPoint)
	mux.HandleFunc("POST /games/{id}/reset", that.handleResetGame)

	return mux
}
