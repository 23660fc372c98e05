package board

// rayDirections are the 8 unit steps as (df, dr).
var rayDirections = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var knightJumps = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

// InCheck reports whether a king of color us standing on sq would be
// attacked on board b. sq need not hold the king; castling uses this to
// test the square the king passes over.
func InCheck(b Board, sq Square, us Color) bool {
	for _, d := range rayDirections {
		if rayAttacked(&b, sq, us, d[0], d[1]) {
			return true
		}
	}
	return knightAttacked(&b, sq, us)
}

// rayAttacked walks from sq in direction (df, dr) to the first occupied
// square. Any piece of color us blocks the ray.
func rayAttacked(b *Board, sq Square, us Color, df, dr int) bool {
	diagonal := df != 0 && dr != 0
	for cur, dist := sq.Offset(df, dr), 1; cur != NoSquare; cur, dist = cur.Offset(df, dr), dist+1 {
		p := b.At(cur)
		if p == NoPiece {
			continue
		}
		if p.Color() == us {
			return false
		}
		switch p.Type() {
		case Queen:
			return true
		case Bishop:
			return diagonal
		case Rook:
			return !diagonal
		case King:
			return dist == 1
		case Pawn:
			// An enemy pawn attacks toward us, so it stands one rank ahead
			// of sq in our forward direction.
			return dist == 1 && diagonal && dr == us.Forward()
		}
		return false
	}
	return false
}

func knightAttacked(b *Board, sq Square, us Color) bool {
	for _, n := range b.Find(Knight, us.Other()) {
		if knightStep(sq.File()-n.File(), sq.Rank()-n.Rank()) {
			return true
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	return InCheck(p.Board, p.Board.King(p.SideToMove), p.SideToMove)
}
