package entity

import (
	"fmt"
	"sync"

	"github.com/courtsideinc/tennis-score-backend/internal/apperror"
)

const (
	SideA = "A"
	SideB = "B"
)

const (
	StateInProgress = "in_progress"
	StateDeuce      = "deuce"
	StateAdvantage  = "advantage"
	StateWon        = "won"
)

const (
	winThreshold = 4 // a side needs at least this many points to win
	winMargin    = 2 // and must lead by at least this many
	deuceFloor   = 3 // both sides at or past this enter deuce territory
)

// scoreLabels is indexed by min(points, 3).
var scoreLabels = [4]string{"love", "15", "30", "40"}

// Game holds the score of a single tennis game between two players.
// Point counters only ever grow by one per awarded point; Reset is the
// sole way back to zero. The mutex keeps the won-check and the increment
// of AwardPoint atomic when callers share one instance.
type Game struct {
	ID      string `json:"id"`
	NameA   string `json:"name_a"`
	NameB   string `json:"name_b"`
	PointsA int    `json:"points_a"`
	PointsB int    `json:"points_b"`

	mu sync.Mutex
}

// GameState is the classification of a score pair. Exactly one of the
// four state constants applies to any pair of counters.
type GameState struct {
	Kind   string `json:"kind"`
	LabelA string `json:"label_a,omitempty"`
	LabelB string `json:"label_b,omitempty"`
	Leader string `json:"leader,omitempty"`
	Winner string `json:"winner,omitempty"`
}

func NewGame(id, nameA, nameB string) *Game {
	return &Game{
		ID:    id,
		NameA: nameA,
		NameB: nameB,
	}
}

// AwardPoint - gives one point to the given side. Fails with
// ErrGameAlreadyWon once the game has a winner; the counters stay
// untouched in that case.
func (that *Game) AwardPoint(side string) error {
	if side != SideA && side != SideB {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownSide, side)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if deriveState(that.PointsA, that.PointsB).Kind == StateWon {
		return apperror.ErrGameAlreadyWon
	}

	if side == SideA {
		that.PointsA++
	} else {
		that.PointsB++
	}

	return nil
}

// State - derives the current game state from the counters. Pure in the
// counters: calling it any number of times yields the same value, also
// after a win.
func (that *Game) State() GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return deriveState(that.PointsA, that.PointsB)
}

// FormattedScore - renders State() for display. All wording lives here;
// the classification itself is never re-derived.
func (that *Game) FormattedScore() string {
	state := that.State()

	switch state.Kind {
	case StateDeuce:
		return "Deuce"
	case StateAdvantage:
		return "Advantage " + that.nameOf(state.Leader)
	case StateWon:
		return that.nameOf(state.Winner) + " wins"
	default:
		return state.LabelA + "–" + state.LabelB
	}
}

// Reset - zeroes both counters. Player names persist. Always permitted,
// this is the only way to un-win a game.
func (that *Game) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.PointsA = 0
	that.PointsB = 0
}

// RawPoints - returns the plain counters for diagnostics and tests.
func (that *Game) RawPoints() (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.PointsA, that.PointsB
}

func (that *Game) IsWon() bool {
	return that.State().Kind == StateWon
}

func (that *Game) nameOf(side string) string {
	if side == SideA {
		return that.NameA
	}
	return that.NameB
}

// deriveState - classifies a score pair. The winner check runs first and
// dominates; once both sides are past the deuce floor only gaps of 0 and 1
// remain, so the deuce branch needs no further threshold checks.
func deriveState(pointsA, pointsB int) GameState {
	leader, high, low := SideA, pointsA, pointsB
	if pointsB > pointsA {
		leader, high, low = SideB, pointsB, pointsA
	}

	if high >= winThreshold && high-low >= winMargin {
		return GameState{Kind: StateWon, Winner: leader}
	}

	if pointsA >= deuceFloor && pointsB >= deuceFloor {
		if pointsA == pointsB {
			return GameState{Kind: StateDeuce}
		}
		return GameState{Kind: StateAdvantage, Leader: leader}
	}

	return GameState{
		Kind:   StateInProgress,
		LabelA: scoreLabels[min(pointsA, 3)],
		LabelB: scoreLabels[min(pointsB, 3)],
	}
}
