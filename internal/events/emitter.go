package events

import "sync"

const (
	TypePoint     = "point"
	TypeDeuce     = "deuce"
	TypeAdvantage = "advantage"
	TypeGameWon   = "game_won"
)

// Event describes one scoring moment of a game, published after the
// point has been counted.
type Event struct {
	Type    string `json:"type"`
	GameID  string `json:"game_id"`
	Score   string `json:"score"`
	PointsA int    `json:"points_a"`
	PointsB int    `json:"points_b"`
}

type Handler func(event Event)

// Emitter delivers events to subscribed handlers synchronously, in
// registration order, on the publishing goroutine. Advisory telemetry
// only: there are no delivery guarantees beyond in-process calls.
type Emitter struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

func (that *Emitter) Subscribe(handler Handler) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.handlers = append(that.handlers, handler)
}

func (that *Emitter) Publish(event Event) {
	that.mu.RLock()
	handlers := make([]Handler, len(that.handlers))
	copy(handlers, that.handlers)
	that.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
