package board

import "fmt"

// Move is a half-move in coordinate form. Promotion is NoPieceType unless
// a pawn reaches the last rank.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if this move names a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion.CanPromoteTo()
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.From == NoSquare || m.To == NoSquare {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += NewPiece(m.Promotion, Black).String()
	}
	return s
}

// ParseMove parses coordinate notation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	if len(s) == 4 {
		return NewMove(from, to), nil
	}
	promo, err := ParsePromotion(s[4:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	return NewPromotion(from, to, promo), nil
}
