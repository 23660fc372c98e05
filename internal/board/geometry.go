package board

// Reason says why a move was rejected. ReasonNone means it was accepted.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonNoPiece
	ReasonWrongTurn
	ReasonGeometry
	ReasonCastleUnavailable
	ReasonExposesKing
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoPiece:
		return "no piece on origin square"
	case ReasonWrongTurn:
		return "not this side's turn"
	case ReasonGeometry:
		return "piece cannot move that way"
	case ReasonCastleUnavailable:
		return "castling unavailable"
	case ReasonExposesKing:
		return "king would be in check"
	default:
		return "unknown"
	}
}

// Candidate is a geometry-legal move together with its special-move flags.
type Candidate struct {
	From      Square
	To        Square
	EnPassant bool
	Castle    bool
}

// PotentialMove checks the movement pattern of the piece on from against
// the destination to. It consults the board, castling rights and the
// en-passant target but not whether the mover's king ends up in check.
func (p Position) PotentialMove(from, to Square) (Candidate, Reason) {
	c := Candidate{From: from, To: to}
	if !from.IsValid() || !to.IsValid() {
		return c, ReasonGeometry
	}
	piece := p.Board.At(from)
	if piece == NoPiece {
		return c, ReasonNoPiece
	}
	// Own pieces cannot be captured; this also rejects from == to.
	if p.Board.At(to).Color() == piece.Color() {
		return c, ReasonGeometry
	}

	df := to.File() - from.File()
	dr := to.Rank() - from.Rank()

	switch piece.Type() {
	case Pawn:
		return p.pawnMove(c, piece.Color(), df, dr)
	case Knight:
		if knightStep(df, dr) {
			return c, ReasonNone
		}
	case Rook:
		if (df == 0 || dr == 0) && p.Board.pathClear(from, to) {
			return c, ReasonNone
		}
	case Bishop:
		if abs(df) == abs(dr) && p.Board.pathClear(from, to) {
			return c, ReasonNone
		}
	case Queen:
		if (df == 0 || dr == 0 || abs(df) == abs(dr)) && p.Board.pathClear(from, to) {
			return c, ReasonNone
		}
	case King:
		if abs(df) <= 1 && abs(dr) <= 1 {
			return c, ReasonNone
		}
		if abs(df) == 2 && dr == 0 {
			if p.castleAvailable(from, to) {
				c.Castle = true
				return c, ReasonNone
			}
			return c, ReasonCastleUnavailable
		}
	}
	return c, ReasonGeometry
}

func (p Position) pawnMove(c Candidate, color Color, df, dr int) (Candidate, Reason) {
	fwd := dr * color.Forward()
	if fwd < 1 || fwd > 2 || abs(df) > 1 {
		return c, ReasonGeometry
	}

	if !p.Board.IsEmpty(c.To) {
		// Captures are one step diagonally forward.
		if fwd == 1 && df != 0 {
			return c, ReasonNone
		}
		return c, ReasonGeometry
	}

	switch {
	case df == 0 && fwd == 1:
		return c, ReasonNone
	case df == 0 && fwd == 2:
		if c.From.RelativeRank(color) == 1 && p.Board.IsEmpty(c.From.Offset(0, color.Forward())) {
			return c, ReasonNone
		}
	case fwd == 1 && c.To == p.EnPassant && color == p.SideToMove:
		c.EnPassant = true
		return c, ReasonNone
	}
	return c, ReasonGeometry
}

// knightStep reports whether (df, dr) is an L-shaped jump.
func knightStep(df, dr int) bool {
	adf, adr := abs(df), abs(dr)
	return (adf == 1 && adr == 2) || (adf == 2 && adr == 1)
}

// pathClear reports whether every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func (b *Board) pathClear(from, to Square) bool {
	df := sign(to.File() - from.File())
	dr := sign(to.Rank() - from.Rank())
	for sq := from.Offset(df, dr); sq != to; sq = sq.Offset(df, dr) {
		if sq == NoSquare {
			return false
		}
		if !b.IsEmpty(sq) {
			return false
		}
	}
	return true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
