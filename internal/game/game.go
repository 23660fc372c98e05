// Package game runs a chess game for a view: square selection, moves,
// promotion choice, notation and end of game, reported to subscribers as
// ordered events.
//
// A Game is not safe for concurrent use. Callers serving several clients
// must serialize calls per game.
package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chessview/internal/board"
)

// Game is the state machine between a view and the rules in package
// board.
type Game struct {
	start  board.Position
	pos    board.Position
	player board.Color
	mode   Mode

	toggled     board.Square
	pending     board.Square
	pendingFrom board.Square
	pendingNote string

	over   bool
	winner board.Color

	log   []string
	moves []board.Move

	listeners listeners
	logger    *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithPlayer sets the color the local player sits behind.
func WithPlayer(c board.Color) Option {
	return func(g *Game) { g.player = c }
}

// WithMode records the play mode.
func WithMode(m Mode) Option {
	return func(g *Game) { g.mode = m }
}

// WithPosition starts the game, and every reset, from pos instead of the
// standard initial position.
func WithPosition(pos board.Position) Option {
	return func(g *Game) { g.start = pos }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// NewGame creates a game in its initial position.
func NewGame(opts ...Option) *Game {
	g := &Game{
		start:  board.NewPosition(),
		player: board.White,
		mode:   ModeSinglePlayer,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	g.Reset()
	return g
}

// Subscribe registers fn for every later event. Events are delivered
// synchronously, in registration order, before the triggering call
// returns. fn must not call back into the game.
func (g *Game) Subscribe(fn func(Event)) Subscription {
	return g.listeners.add(fn)
}

// Unsubscribe removes a listener. It reports false if s was not
// registered.
func (g *Game) Unsubscribe(s Subscription) bool {
	return g.listeners.remove(s)
}

// Reset replaces the game state with the starting position.
func (g *Game) Reset() {
	g.pos = g.start
	g.toggled = board.NoSquare
	g.pending = board.NoSquare
	g.pendingFrom = board.NoSquare
	g.pendingNote = ""
	g.over = false
	g.winner = board.NoColor
	g.log = nil
	g.moves = nil

	g.logger.Debug("game reset",
		zap.String("fen", g.pos.ToFEN()),
		zap.Stringer("player", g.player),
		zap.String("mode", string(g.mode)))
	g.listeners.emit(Reset{Board: g.pos.Board, Player: g.player})
}

// ToggleSquare is a click on sq. A piece of the side to move is selected,
// or switched to, or deselected when clicked again. Any other square with
// a selection pending is taken as the destination of a move. Illegal
// moves clear the selection and are otherwise ignored. Clicks are ignored
// once the game is over or while a promotion is pending.
func (g *Game) ToggleSquare(sq board.Square) {
	if !sq.IsValid() {
		panic(fmt.Sprintf("game: toggle on invalid square %d", sq))
	}
	if g.over || g.pending != board.NoSquare {
		g.logger.Debug("toggle ignored", zap.Stringer("square", sq), zap.String("phase", PhaseName(g.Phase())))
		return
	}

	if g.pos.Board.At(sq).Color() == g.pos.SideToMove {
		prev := g.toggled
		if prev != board.NoSquare {
			g.listeners.emit(Detoggle{Square: prev})
		}
		if prev == sq {
			g.toggled = board.NoSquare
			return
		}
		g.toggled = sq
		g.listeners.emit(Toggle{Square: sq})
		return
	}

	if g.toggled == board.NoSquare {
		return
	}
	from := g.toggled
	g.toggled = board.NoSquare
	g.listeners.emit(Detoggle{Square: from})
	if err := g.Move(from, sq); err != nil {
		g.logger.Debug("move rejected", zap.Error(err))
	}
}

// Move plays from->to for the side to move. An illegal move returns a
// *RejectedMoveError and changes nothing. A pawn reaching its last rank
// leaves the game awaiting Promote with the turn not yet passed.
func (g *Game) Move(from, to board.Square) error {
	if g.over {
		return ErrGameOver
	}
	if g.pending != board.NoSquare {
		return ErrAwaitingPromotion
	}

	s, reason := g.pos.ModelMove(from, to)
	if reason != board.ReasonNone {
		return &RejectedMoveError{From: from, To: to, Reason: reason}
	}

	var note string
	if s.Castle {
		note = board.CastleNotation(to)
	} else {
		note = g.pos.BasicNotation(from, to)
	}

	if g.toggled != board.NoSquare {
		g.listeners.emit(Detoggle{Square: g.toggled})
		g.toggled = board.NoSquare
	}
	g.pos = g.pos.Apply(s)
	g.listeners.emit(Empty{Square: from})
	g.listeners.emit(SetValue{Square: to, Piece: g.pos.Board.At(to)})

	if g.pos.AwaitsPromotion(to) {
		g.pending = to
		g.pendingFrom = from
		g.pendingNote = note
		g.logger.Info("promotion pending", zap.Stringer("square", to), zap.Stringer("color", g.pos.SideToMove))
		g.listeners.emit(PromotionRequested{Square: to, Color: g.pos.SideToMove})
		return nil
	}

	if s.EnPassant {
		g.listeners.emit(Empty{Square: board.NewSquare(to.File(), from.Rank())})
	}
	if s.Castle {
		rookFrom, rookTo := board.CastleRook(to)
		g.listeners.emit(Empty{Square: rookFrom})
		g.listeners.emit(SetValue{Square: rookTo, Piece: g.pos.Board.At(rookTo)})
	}

	g.finish(board.NewMove(from, to), note)
	return nil
}

// Promote completes a pending promotion with the piece named by letter,
// one of Q, R, B or N.
func (g *Game) Promote(letter string) error {
	if g.pending == board.NoSquare {
		return ErrNoPendingPromotion
	}
	pt, err := board.ParsePromotion(letter)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPromotion, letter)
	}

	sq := g.pending
	g.pos = g.pos.Promote(sq, pt)
	note := g.pendingNote + "=" + string(pt.Letter())
	m := board.NewPromotion(g.pendingFrom, sq, pt)
	g.pending = board.NoSquare
	g.pendingFrom = board.NoSquare
	g.pendingNote = ""

	g.listeners.emit(SetValue{Square: sq, Piece: g.pos.Board.At(sq)})
	g.finish(m, note)
	return nil
}

// PromoteAt is Promote guarded by the square the view believes is
// waiting.
func (g *Game) PromoteAt(sq board.Square, letter string) error {
	if g.pending == board.NoSquare {
		return ErrNoPendingPromotion
	}
	if sq != g.pending {
		return fmt.Errorf("%w: %s", ErrPromotionSquare, sq)
	}
	return g.Promote(letter)
}

// finish passes the turn, classifies the new position and logs the move.
func (g *Game) finish(m board.Move, note string) {
	g.pos = g.pos.Pass()

	status := g.pos.Status()
	switch status {
	case board.Checkmate:
		note += "#"
		g.over = true
		g.winner = g.pos.SideToMove.Other()
	case board.Stalemate:
		g.over = true
	case board.Check:
		note += "+"
	}
	g.log = append(g.log, note)
	g.moves = append(g.moves, m)

	g.logger.Info("move played",
		zap.Int("ply", len(g.log)),
		zap.String("move", m.String()),
		zap.String("notation", note),
		zap.Stringer("status", status))

	if g.over {
		g.logger.Info("game over", zap.Stringer("winner", g.winner), zap.Stringer("status", status))
		g.listeners.emit(GameEnded{Winner: g.winner})
	}
}

// Restore resets the game and replays moves through Move and Promote.
// A promotion move without a piece promotes to a queen.
func (g *Game) Restore(moves []board.Move) error {
	g.Reset()
	for i, m := range moves {
		if err := g.Move(m.From, m.To); err != nil {
			return fmt.Errorf("restore move %d (%s): %w", i+1, m, err)
		}
		if g.pending == board.NoSquare {
			continue
		}
		pt := m.Promotion
		if !pt.CanPromoteTo() {
			pt = board.Queen
		}
		if err := g.Promote(string(pt.Letter())); err != nil {
			return fmt.Errorf("restore move %d (%s): %w", i+1, m, err)
		}
	}
	return nil
}

// Phase returns the current state machine phase.
func (g *Game) Phase() Phase {
	switch {
	case g.over:
		return GameOver{Winner: g.winner}
	case g.pending != board.NoSquare:
		return AwaitingPromotion{Square: g.pending, Color: g.pos.SideToMove}
	case g.toggled != board.NoSquare:
		return Selected{Square: g.toggled}
	}
	return Idle{}
}

// State returns a snapshot of the game.
func (g *Game) State() Snapshot {
	return Snapshot{
		Mode:             g.mode,
		Player:           g.player,
		Turn:             g.pos.SideToMove,
		Toggled:          g.toggled,
		Board:            g.pos.Board,
		Castling:         g.pos.Castling,
		EnPassant:        g.pos.EnPassant,
		PendingPromotion: g.pending,
		Over:             g.over,
		Winner:           g.winner,
		Phase:            g.Phase(),
		Log:              g.Log(),
		Moves:            g.Moves(),
	}
}

// Position returns the current position.
func (g *Game) Position() board.Position { return g.pos }

// Start returns the position the game starts from on every reset.
func (g *Game) Start() board.Position { return g.start }

// Turn returns the side to move.
func (g *Game) Turn() board.Color { return g.pos.SideToMove }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Winner returns the winner, NoColor while the game runs or after a draw.
func (g *Game) Winner() board.Color { return g.winner }

// Player returns the local player's color.
func (g *Game) Player() board.Color { return g.player }

// Mode returns the play mode.
func (g *Game) Mode() Mode { return g.mode }

// Log returns a copy of the notation log.
func (g *Game) Log() []string {
	return append([]string(nil), g.log...)
}

// Moves returns a copy of the moves played, in coordinate form.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.moves...)
}
