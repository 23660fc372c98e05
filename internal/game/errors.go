package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chessview/internal/board"
)

var (
	ErrGameOver           = errors.New("game is over")
	ErrAwaitingPromotion  = errors.New("promotion piece not chosen")
	ErrNoPendingPromotion = errors.New("no promotion pending")
	ErrPromotionSquare    = errors.New("square is not awaiting promotion")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
)

// RejectedMoveError is returned by Move when the rules refuse a move.
// The game is left untouched.
type RejectedMoveError struct {
	From   board.Square
	To     board.Square
	Reason board.Reason
}

func (e *RejectedMoveError) Error() string {
	return fmt.Sprintf("illegal move %s%s: %s", e.From, e.To, e.Reason)
}
