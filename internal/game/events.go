package game

import "github.com/hailam/chessview/internal/board"

// EventKind names an event for logging and wire output.
type EventKind uint8

const (
	KindReset EventKind = iota
	KindToggle
	KindDetoggle
	KindEmpty
	KindSetValue
	KindPromotionRequested
	KindGameEnded
)

func (k EventKind) String() string {
	switch k {
	case KindReset:
		return "reset"
	case KindToggle:
		return "toggle"
	case KindDetoggle:
		return "detoggle"
	case KindEmpty:
		return "empty"
	case KindSetValue:
		return "setValue"
	case KindPromotionRequested:
		return "promotionRequested"
	case KindGameEnded:
		return "gameEnded"
	default:
		return "unknown"
	}
}

// Event is a state change delivered to subscribers. The set of events is
// closed: Reset, Toggle, Detoggle, Empty, SetValue, PromotionRequested
// and GameEnded.
type Event interface {
	Kind() EventKind
	isEvent()
}

// Reset is sent when a new game starts.
type Reset struct {
	Board  board.Board
	Player board.Color
}

// Toggle is sent when a square is selected.
type Toggle struct {
	Square board.Square
}

// Detoggle is sent when a selection is cleared.
type Detoggle struct {
	Square board.Square
}

// Empty is sent when a square loses its piece.
type Empty struct {
	Square board.Square
}

// SetValue is sent when a piece lands on a square.
type SetValue struct {
	Square board.Square
	Piece  board.Piece
}

// PromotionRequested is sent when a pawn reaches its last rank. The game
// waits for Promote.
type PromotionRequested struct {
	Square board.Square
	Color  board.Color
}

// GameEnded is sent on checkmate or stalemate. Winner is NoColor for a
// draw.
type GameEnded struct {
	Winner board.Color
}

func (Reset) Kind() EventKind              { return KindReset }
func (Toggle) Kind() EventKind             { return KindToggle }
func (Detoggle) Kind() EventKind           { return KindDetoggle }
func (Empty) Kind() EventKind              { return KindEmpty }
func (SetValue) Kind() EventKind           { return KindSetValue }
func (PromotionRequested) Kind() EventKind { return KindPromotionRequested }
func (GameEnded) Kind() EventKind          { return KindGameEnded }

func (Reset) isEvent()              {}
func (Toggle) isEvent()             {}
func (Detoggle) isEvent()           {}
func (Empty) isEvent()              {}
func (SetValue) isEvent()           {}
func (PromotionRequested) isEvent() {}
func (GameEnded) isEvent()          {}
