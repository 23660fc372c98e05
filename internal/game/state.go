package game

import "github.com/hailam/chessview/internal/board"

// Mode is the play mode recorded with a game.
type Mode string

const (
	ModeSinglePlayer Mode = "singleplayer"
	ModeMultiplayer  Mode = "multiplayer"
)

// ParseMode accepts the mode names used in flags and saved preferences.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeSinglePlayer, ModeMultiplayer:
		return m, true
	}
	return "", false
}

// Phase is where the game stands between calls. The set is closed:
// Idle, Selected, AwaitingPromotion and GameOver.
type Phase interface {
	isPhase()
}

// Idle means no square is selected.
type Idle struct{}

// Selected holds the square of the side to move's selected piece.
type Selected struct {
	Square board.Square
}

// AwaitingPromotion means a pawn stands on its last rank and the turn
// does not pass until Promote is called.
type AwaitingPromotion struct {
	Square board.Square
	Color  board.Color
}

// GameOver is terminal. Winner is NoColor after stalemate.
type GameOver struct {
	Winner board.Color
}

func (Idle) isPhase()              {}
func (Selected) isPhase()          {}
func (AwaitingPromotion) isPhase() {}
func (GameOver) isPhase()          {}

// PhaseName returns a short lowercase name for p.
func PhaseName(p Phase) string {
	switch p.(type) {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case AwaitingPromotion:
		return "promotion"
	case GameOver:
		return "over"
	}
	return "unknown"
}

// Snapshot is a copy of the game state. Nothing in it aliases the game.
type Snapshot struct {
	Mode             Mode
	Player           board.Color
	Turn             board.Color
	Toggled          board.Square
	Board            board.Board
	Castling         board.CastlingRights
	EnPassant        board.Square
	PendingPromotion board.Square
	Over             bool
	Winner           board.Color
	Phase            Phase
	Log              []string
	Moves            []board.Move
}
