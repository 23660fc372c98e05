package board

import "fmt"

// Position is the board plus the state the rules consult: side to move,
// castling rights and the en-passant target. It is a value type and every
// rules method leaves the receiver untouched.
type Position struct {
	Board      Board
	SideToMove Color
	Castling   CastlingRights
	EnPassant  Square // square a capturing pawn would land on, NoSquare if none
}

// NewPosition creates the starting position.
func NewPosition() Position {
	return Position{
		Board:      NewBoard(),
		SideToMove: White,
		Castling:   AllCastling,
		EnPassant:  NoSquare,
	}
}

// Apply commits a legal speculation: the board becomes the speculative
// board, the en-passant target is cleared and set again only after a pawn
// double step, and castling rights shrink for any king or rook that left
// (or rook captured on) its origin square. The side to move is unchanged;
// see Pass.
func (p Position) Apply(s Speculation) Position {
	moved := p.Board.At(s.From)
	next := p
	next.Board = s.Board
	next.EnPassant = NoSquare

	if moved.Type() == Pawn && abs(s.To.Rank()-s.From.Rank()) == 2 {
		next.EnPassant = s.From.Offset(0, moved.Color().Forward())
	}
	next.Castling = p.Castling.revokeFor(moved, s.From, s.To)
	if s.Castle {
		next.Castling = next.Castling.RevokeAll(moved.Color())
	}
	return next
}

// Pass hands the move to the other side.
func (p Position) Pass() Position {
	p.SideToMove = p.SideToMove.Other()
	return p
}

// Promote replaces the pawn on sq with a piece of type pt.
func (p Position) Promote(sq Square, pt PieceType) Position {
	pawn := p.Board.At(sq)
	if pawn.Type() != Pawn {
		panic(fmt.Sprintf("board: promote on %s which holds %q", sq, pawn))
	}
	p.Board.Set(sq, NewPiece(pt, pawn.Color()))
	return p
}

// AwaitsPromotion reports whether the piece on sq is a pawn standing on
// its last rank.
func (p Position) AwaitsPromotion(sq Square) bool {
	piece := p.Board.At(sq)
	return piece.Type() == Pawn && sq.RelativeRank(piece.Color()) == 7
}

// Play makes a full half-move: model, apply, promote and pass. A pawn
// reaching the last rank without a promotion piece becomes a queen.
func (p Position) Play(m Move) (Position, Reason) {
	s, reason := p.ModelMove(m.From, m.To)
	if reason != ReasonNone {
		return p, reason
	}
	next := p.Apply(s)
	if next.AwaitsPromotion(m.To) {
		promo := m.Promotion
		if !promo.CanPromoteTo() {
			promo = Queen
		}
		next = next.Promote(m.To, promo)
	}
	return next.Pass(), ReasonNone
}

// String returns a visual representation of the position.
func (p Position) String() string {
	s := "\n" + p.Board.String() + "\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.Castling)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
