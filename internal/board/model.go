package board

// Speculation is the outcome of modelling a move: the geometry flags and
// the board as it would stand afterwards. Board is a private copy.
type Speculation struct {
	Candidate
	Legal bool
	Board Board
}

// ModelMove plays from->to on a copy of the board and reports whether the
// move is legal for the side to move. Geometry is checked first; the copy
// then gets the piece relocation, the en-passant capture and the castling
// rook move, and the move is rejected if the mover's king is attacked on
// it. On rejection the returned Board is the unchanged current board.
func (p Position) ModelMove(from, to Square) (Speculation, Reason) {
	rejected := Speculation{Candidate: Candidate{From: from, To: to}, Board: p.Board}

	if !from.IsValid() || !to.IsValid() {
		return rejected, ReasonGeometry
	}
	piece := p.Board.At(from)
	if piece == NoPiece {
		return rejected, ReasonNoPiece
	}
	if piece.Color() != p.SideToMove {
		return rejected, ReasonWrongTurn
	}

	cand, reason := p.PotentialMove(from, to)
	if reason != ReasonNone {
		return rejected, reason
	}

	next := p.Board
	next.Relocate(from, to)
	if cand.EnPassant {
		next.Clear(NewSquare(to.File(), from.Rank()))
	}
	if cand.Castle {
		cs, _ := castleFor(piece.Color(), from, to)
		next.Relocate(cs.rookFrom, cs.rookTo)
	}

	if InCheck(next, next.King(p.SideToMove), p.SideToMove) {
		rejected.Candidate = cand
		return rejected, ReasonExposesKing
	}
	return Speculation{Candidate: cand, Legal: true, Board: next}, ReasonNone
}

// IsLegal reports whether from->to is a legal move for the side to move.
func (p Position) IsLegal(from, to Square) bool {
	_, reason := p.ModelMove(from, to)
	return reason == ReasonNone
}
