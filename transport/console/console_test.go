package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/courtsideinc/tennis-score-backend/internal/events"
	"github.com/courtsideinc/tennis-score-backend/internal/repository"
	"github.com/courtsideinc/tennis-score-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T, input string) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), events.NewEmitter())

	var out bytes.Buffer
	loop := New(logger, manager, strings.NewReader(input), &out)
	require.NoError(t, loop.Run(context.Background(), "Ann", "Bo"))

	return out.String()
}

func TestLoop_Run(t *testing.T) {
	t.Run("Renders the score after each point", func(t *testing.T) {
		// Given: a session where A scores twice and B once before quitting
		output := runLoop(t, "a\na\nb\nq\n")

		// Then: the rally should render through 15, 30 and 30–15
		assert.Contains(t, output, "love–love (0-0)")
		assert.Contains(t, output, "15–love (1-0)")
		assert.Contains(t, output, "30–love (2-0)")
		assert.Contains(t, output, "30–15 (2-1)")
		assert.Contains(t, output, "Bye.")
	})

	t.Run("A won game is reported, not fatal", func(t *testing.T) {
		// Given: a session where A wins and one more point is attempted
		output := runLoop(t, "a\na\na\na\nb\nq\n")

		// Then: the win renders, the extra point only prints a notice
		assert.Contains(t, output, "Ann wins (4-0)")
		assert.Contains(t, output, "The game is already won.")
		assert.Contains(t, output, "Bye.")
	})

	t.Run("Play continues on the same game after the won notice", func(t *testing.T) {
		// Given: a session that keeps going after the already-won notice,
		// awarding again, resetting and scoring once more
		output := runLoop(t, "a\na\na\na\nb\nb\nr\nb\nq\n")

		// Then: every notice renders, the reset takes and the game stays playable
		assert.Contains(t, output, "Ann wins (4-0)")
		assert.Contains(t, output, "The game is already won.")
		assert.Contains(t, output, "love–love (0-0)")
		assert.Contains(t, output, "love–15 (0-1)")
		assert.Contains(t, output, "Bye.")
	})

	t.Run("Reset starts the game over", func(t *testing.T) {
		// Given: a session that wins, resets, then scores for B
		output := runLoop(t, "a\na\na\na\nr\nb\nq\n")

		// Then: the score returns to love-love and play continues
		assert.Contains(t, output, "Ann wins (4-0)")
		assert.Contains(t, output, "love–love (0-0)")
		assert.Contains(t, output, "love–15 (0-1)")
	})

	t.Run("Unknown commands print a hint", func(t *testing.T) {
		// Given: a session with a bogus command
		output := runLoop(t, "x\nq\n")

		// Then: the hint renders and the loop continues to quit
		assert.Contains(t, output, "Unknown command. Use a, b, r or q.")
		assert.Contains(t, output, "Bye.")
	})

	t.Run("End of input ends the loop cleanly", func(t *testing.T) {
		// Given: a session whose input ends without a quit command
		output := runLoop(t, "a\n")

		// Then: the loop returns no error and the last score was rendered
		assert.Contains(t, output, "15–love (1-0)")
	})
}
