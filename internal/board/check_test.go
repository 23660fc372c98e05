package board

import "testing"

func TestInCheck(t *testing.T) {
	type placed struct {
		sq    Square
		piece Piece
	}
	tests := []struct {
		name   string
		pieces []placed
		sq     Square
		us     Color
		want   bool
	}{
		{"rook on open file", []placed{{E1, WhiteKing}, {E8, BlackRook}}, E1, White, true},
		{"rook behind own pawn", []placed{{E1, WhiteKing}, {E2, WhitePawn}, {E8, BlackRook}}, E1, White, false},
		{"rook behind enemy knight", []placed{{E1, WhiteKing}, {E4, BlackKnight}, {E8, BlackRook}}, E1, White, false},
		{"rook on diagonal", []placed{{E1, WhiteKing}, {H4, BlackRook}}, E1, White, false},
		{"bishop on diagonal", []placed{{E1, WhiteKing}, {H4, BlackBishop}}, E1, White, true},
		{"bishop on file", []placed{{E1, WhiteKing}, {E8, BlackBishop}}, E1, White, false},
		{"queen on diagonal", []placed{{E1, WhiteKing}, {H4, BlackQueen}}, E1, White, true},
		{"queen on file", []placed{{E1, WhiteKing}, {E8, BlackQueen}}, E1, White, true},
		{"black pawn ahead", []placed{{E4, WhiteKing}, {D5, BlackPawn}}, E4, White, true},
		{"black pawn behind", []placed{{E4, WhiteKing}, {D3, BlackPawn}}, E4, White, false},
		{"black pawn in front", []placed{{E4, WhiteKing}, {E5, BlackPawn}}, E4, White, false},
		{"black pawn two away", []placed{{E4, WhiteKing}, {C6, BlackPawn}}, E4, White, false},
		{"white pawn ahead", []placed{{E5, BlackKing}, {D4, WhitePawn}}, E5, Black, true},
		{"white pawn behind", []placed{{E5, BlackKing}, {D6, WhitePawn}}, E5, Black, false},
		{"knight", []placed{{E4, WhiteKing}, {F6, BlackKnight}}, E4, White, true},
		{"knight not a jump away", []placed{{E4, WhiteKing}, {F5, BlackKnight}}, E4, White, false},
		{"own knight", []placed{{E4, WhiteKing}, {F6, WhiteKnight}}, E4, White, false},
		{"adjacent king", []placed{{E4, WhiteKing}, {E5, BlackKing}}, E4, White, true},
		{"distant king", []placed{{E4, WhiteKing}, {E6, BlackKing}}, E4, White, false},
		{"empty square", []placed{{E1, WhiteKing}, {F8, BlackRook}}, F1, White, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b Board
			for _, p := range tc.pieces {
				b.Set(p.sq, p.piece)
			}
			if got := InCheck(b, tc.sq, tc.us); got != tc.want {
				t.Errorf("InCheck(%s, %s) = %v, want %v\n%s", tc.sq, tc.us, got, tc.want, b.String())
			}
		})
	}
}

func TestPositionInCheck(t *testing.T) {
	if NewPosition().InCheck() {
		t.Error("starting position is not check")
	}
	if !MustParseFEN("4k3/8/8/8/8/8/8/4K2r w - - 0 1").InCheck() {
		t.Error("rook on the back rank gives check")
	}
	// Only the side to move is tested.
	if MustParseFEN("4k3/8/8/8/8/8/8/4K2r b - - 0 1").InCheck() {
		t.Error("black is not in check")
	}
}
