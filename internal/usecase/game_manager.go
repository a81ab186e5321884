package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtsideinc/tennis-score-backend/internal/apperror"
	"github.com/courtsideinc/tennis-score-backend/internal/entity"
	"github.com/courtsideinc/tennis-score-backend/internal/events"
	"github.com/google/uuid"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type eventEmitter interface {
	Publish(event events.Event)
}

// GameManager orchestrates game lookup, scoring and event publication.
// All scoring rules live in entity.Game; the manager only loads, calls
// and persists.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	emitter  eventEmitter
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, emitter eventEmitter) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		emitter:  emitter,
	}
}

// GetOrCreateGame - returns the game with the given ID, creating a fresh
// one when the ID is empty or unknown.
func (that *GameManager) GetOrCreateGame(ctx context.Context, id, nameA, nameB string) (*entity.Game, error) {
	if id == "" {
		id = uuid.NewString()
	}

	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrGameNotFound) {
		game = entity.NewGame(id, nameA, nameB)
		if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to save new game: %w", err)
		}

		that.logger.Info("created game", "game_id", id)

		return game, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// AwardPoint - scores one point for the given side and publishes one
// event describing the post-point state. A game that is already won is
// left untouched and unpersisted.
func (that *GameManager) AwardPoint(ctx context.Context, gameID, side string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.AwardPoint(side); err != nil {
		return nil, fmt.Errorf("failed to award point: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	event := that.buildEvent(game)
	that.emitter.Publish(event)
	that.logger.Debug("point scored", "game_id", gameID, "side", side, "event", event.Type, "score", event.Score)

	return game, nil
}

// ResetGame - zeroes the counters of an existing game and persists it.
// Always permitted, also after a win. No event is published.
func (that *GameManager) ResetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game reset", "game_id", gameID)

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

func (that *GameManager) buildEvent(game *entity.Game) events.Event {
	pointsA, pointsB := game.RawPoints()

	event := events.Event{
		GameID:  game.ID,
		Score:   game.FormattedScore(),
		PointsA: pointsA,
		PointsB: pointsB,
	}

	switch game.State().Kind {
	case entity.StateWon:
		event.Type = events.TypeGameWon
	case entity.StateDeuce:
		event.Type = events.TypeDeuce
	case entity.StateAdvantage:
		event.Type = events.TypeAdvantage
	default:
		event.Type = events.TypePoint
	}

	return event
}
