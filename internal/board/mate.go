package board

import "iter"

// Status classifies a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// candidates yields (from, to) pairs for the side to move in four passes:
// king, pawns, knights, then queens, rooks and bishops. Every legal move
// is either yielded or implies one that is, which is all HasLegalMove
// needs; it is not a full move list.
func (p Position) candidates() iter.Seq2[Square, Square] {
	us := p.SideToMove
	return func(yield func(Square, Square) bool) {
		king := p.Board.King(us)
		for _, d := range rayDirections {
			if to := king.Offset(d[0], d[1]); to != NoSquare && !yield(king, to) {
				return
			}
		}

		fwd := us.Forward()
		for _, pawn := range p.Board.Find(Pawn, us) {
			// The double step can block a check the single step cannot.
			for _, d := range [4][2]int{{0, 1}, {-1, 1}, {1, 1}, {0, 2}} {
				if to := pawn.Offset(d[0], d[1]*fwd); to != NoSquare && !yield(pawn, to) {
					return
				}
			}
		}

		for _, n := range p.Board.Find(Knight, us) {
			for _, d := range knightJumps {
				if to := n.Offset(d[0], d[1]); to != NoSquare && !yield(n, to) {
					return
				}
			}
		}

		for _, pt := range [3]PieceType{Queen, Rook, Bishop} {
			for _, from := range p.Board.Find(pt, us) {
				for _, d := range rayDirections {
					// Walk the whole ray: a distant square may be the only
					// block or capture that answers a check.
					for to := from.Offset(d[0], d[1]); to != NoSquare; to = to.Offset(d[0], d[1]) {
						if !yield(from, to) {
							return
						}
						if !p.Board.IsEmpty(to) {
							break
						}
					}
				}
			}
		}
	}
}

// HasLegalMove reports whether the side to move has at least one legal
// move. It stops at the first one found.
func (p Position) HasLegalMove() bool {
	for from, to := range p.candidates() {
		if p.IsLegal(from, to) {
			return true
		}
	}
	return false
}

// NoLegalMoves is true for both checkmate and stalemate.
func (p Position) NoLegalMoves() bool {
	return !p.HasLegalMove()
}

// Status classifies the position for the side to move.
func (p Position) Status() Status {
	inCheck := p.InCheck()
	if p.NoLegalMoves() {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if inCheck {
		return Check
	}
	return Ongoing
}

// LegalMoves lists every legal move for the side to move. Pawn moves to
// the last rank appear once per promotion piece.
func (p Position) LegalMoves() []Move {
	var moves []Move
	for from := A1; from < NoSquare; from++ {
		piece := p.Board.At(from)
		if piece.Color() != p.SideToMove {
			continue
		}
		for to := A1; to < NoSquare; to++ {
			if !p.IsLegal(from, to) {
				continue
			}
			if piece.Type() == Pawn && to.RelativeRank(piece.Color()) == 7 {
				for _, promo := range [4]PieceType{Queen, Rook, Bishop, Knight} {
					moves = append(moves, NewPromotion(from, to, promo))
				}
				continue
			}
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}
