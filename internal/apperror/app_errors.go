package apperror

import "errors"

var (
	ErrGameAlreadyWon = errors.New("game is already won")
	ErrGameNotFound   = errors.New("game not found")
	ErrUnknownSide    = errors.New("unknown side")
)
