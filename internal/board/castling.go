package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

func castleFlag(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c >= NoColor {
		return false
	}
	return cr&castleFlag(c, kingSide) != 0
}

// Revoke clears one right. Rights only ever shrink.
func (cr CastlingRights) Revoke(c Color, kingSide bool) CastlingRights {
	if c >= NoColor {
		return cr
	}
	return cr &^ castleFlag(c, kingSide)
}

// RevokeAll clears both rights of a color.
func (cr CastlingRights) RevokeAll(c Color) CastlingRights {
	return cr.Revoke(c, true).Revoke(c, false)
}

// castle describes the squares involved in one castling move.
type castle struct {
	color    Color
	kingSide bool
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	transit  Square // square the king passes over
}

var castles = [4]castle{
	{White, true, E1, G1, H1, F1, F1},
	{White, false, E1, C1, A1, D1, D1},
	{Black, true, E8, G8, H8, F8, F8},
	{Black, false, E8, C8, A8, D8, D8},
}

// castleFor returns the castle whose king moves from->to, if any.
func castleFor(c Color, from, to Square) (castle, bool) {
	for _, cs := range castles {
		if cs.color == c && cs.kingFrom == from && cs.kingTo == to {
			return cs, true
		}
	}
	return castle{}, false
}

// revokeFor returns the rights left after a piece leaves from or a piece
// lands on to. A king leaving its origin loses both sides; a rook leaving,
// or being captured on, its corner loses that side.
func (cr CastlingRights) revokeFor(moved Piece, from, to Square) CastlingRights {
	for _, cs := range castles {
		if moved == NewPiece(King, cs.color) && from == cs.kingFrom {
			cr = cr.Revoke(cs.color, cs.kingSide)
		}
		if from == cs.rookFrom || to == cs.rookFrom {
			cr = cr.Revoke(cs.color, cs.kingSide)
		}
	}
	return cr
}

// castleAvailable reports whether the king on from may castle to to:
// the right is held, the rook stands on its corner, every square between
// king and rook is empty, the king is not in check and the square it
// passes over is not attacked. The landing square is covered by
// ModelMove's king-safety test.
func (p Position) castleAvailable(from, to Square) bool {
	king := p.Board.At(from)
	c := king.Color()
	cs, ok := castleFor(c, from, to)
	if !ok || king.Type() != King {
		return false
	}
	if !p.Castling.CanCastle(c, cs.kingSide) {
		return false
	}
	if p.Board.At(cs.rookFrom) != NewPiece(Rook, c) {
		return false
	}
	if !p.Board.pathClear(cs.kingFrom, cs.rookFrom) {
		return false
	}
	if InCheck(p.Board, from, c) {
		return false
	}
	return !InCheck(p.Board, cs.transit, c)
}

// CastleRook returns the rook's origin and destination for a castle whose
// king lands on kingTo.
func CastleRook(kingTo Square) (from, to Square) {
	for _, cs := range castles {
		if cs.kingTo == kingTo {
			return cs.rookFrom, cs.rookTo
		}
	}
	panic("board: no castle lands on " + kingTo.String())
}
