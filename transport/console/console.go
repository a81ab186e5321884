package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/courtsideinc/tennis-score-backend/internal/apperror"
	"github.com/courtsideinc/tennis-score-backend/internal/entity"
)

type gameManager interface {
	GetOrCreateGame(ctx context.Context, id, nameA, nameB string) (*entity.Game, error)
	AwardPoint(ctx context.Context, gameID, side string) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

// Loop is the interactive console collaborator: it reads side picks,
// awards the point and re-renders the score. A finished game does not
// end the loop; the award error is shown and play can be reset.
type Loop struct {
	logger  *slog.Logger
	manager gameManager
	in      io.Reader
	out     io.Writer
}

func New(logger *slog.Logger, manager gameManager, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		logger:  logger.With("component", "console"),
		manager: manager,
		in:      in,
		out:     out,
	}
}

// Run - drives one game until quit or end of input.
func (that *Loop) Run(ctx context.Context, nameA, nameB string) error {
	game, err := that.manager.GetOrCreateGame(ctx, "", nameA, nameB)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	fmt.Fprintf(that.out, "Game on: %s vs %s\n", game.NameA, game.NameB)
	fmt.Fprintf(that.out, "Commands: a = point %s, b = point %s, r = reset, q = quit\n", game.NameA, game.NameB)
	that.printScore(game)

	scanner := bufio.NewScanner(that.in)
	for {
		fmt.Fprint(that.out, "> ")

		if !scanner.Scan() {
			break
		}

		if ctx.Err() != nil {
			return nil
		}

		switch command := strings.ToLower(strings.TrimSpace(scanner.Text())); command {
		case "a", "b":
			updated, err := that.manager.AwardPoint(ctx, game.ID, strings.ToUpper(command))
			if errors.Is(err, apperror.ErrGameAlreadyWon) {
				// keep the current instance, it stays usable for r and q
				fmt.Fprintln(that.out, "The game is already won. Use r to start over or q to quit.")
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to award point: %w", err)
			}

			game = updated
			that.printScore(game)
		case "r":
			if game, err = that.manager.ResetGame(ctx, game.ID); err != nil {
				return fmt.Errorf("failed to reset game: %w", err)
			}

			that.printScore(game)
		case "q":
			fmt.Fprintln(that.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(that.out, "Unknown command. Use a, b, r or q.")
		}
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Loop) printScore(game *entity.Game) {
	pointsA, pointsB := game.RawPoints()
	fmt.Fprintf(that.out, "%s (%d-%d)\n", game.FormattedScore(), pointsA, pointsB)
}
