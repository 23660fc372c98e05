package board

import "testing"

func TestPotentialMove(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		from   string
		to     string
		reason Reason
	}{
		{"pawn single step", StartFEN, "e2", "e3", ReasonNone},
		{"pawn double step", StartFEN, "e2", "e4", ReasonNone},
		{"pawn triple step", StartFEN, "e2", "e5", ReasonGeometry},
		{"pawn backwards", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "e4", "e3", ReasonGeometry},
		{"pawn double step off home rank", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", "e3", "e5", ReasonGeometry},
		{"pawn double step over piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2", "e4", ReasonGeometry},
		{"pawn forward capture", "4k3/8/8/8/4p3/4P3/8/4K3 w - - 0 1", "e3", "e4", ReasonGeometry},
		{"pawn diagonal capture", "4k3/8/8/8/3p4/4P3/8/4K3 w - - 0 1", "e3", "d4", ReasonNone},
		{"pawn diagonal to empty", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", "e3", "d4", ReasonGeometry},
		{"black pawn forward", "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1", "e7", "e5", ReasonNone},
		{"black pawn backwards", "4k3/8/4p3/8/8/8/8/4K3 b - - 0 1", "e6", "e7", ReasonGeometry},
		{"knight jump", StartFEN, "g1", "f3", ReasonNone},
		{"knight bad jump", StartFEN, "g1", "g3", ReasonGeometry},
		{"own piece capture", StartFEN, "d1", "d2", ReasonGeometry},
		{"blocked rook", StartFEN, "a1", "a3", ReasonGeometry},
		{"open rook", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1", "a8", ReasonNone},
		{"rook diagonal", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1", "b2", ReasonGeometry},
		{"bishop diagonal", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", "c1", "h6", ReasonNone},
		{"bishop blocked", "4k3/8/8/8/8/8/3n4/2B1K3 w - - 0 1", "c1", "e3", ReasonGeometry},
		{"bishop captures blocker", "4k3/8/8/8/8/8/3n4/2B1K3 w - - 0 1", "c1", "d2", ReasonNone},
		{"queen knight-like", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", "d1", "e3", ReasonGeometry},
		{"king two squares forward", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e1", "e3", ReasonGeometry},
		{"empty origin", StartFEN, "e4", "e5", ReasonNoPiece},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			_, got := pos.PotentialMove(MustSquare(tc.from), MustSquare(tc.to))
			if got != tc.reason {
				t.Errorf("PotentialMove(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.reason)
			}
		})
	}
}

func TestModelMoveRejections(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		from   string
		to     string
		reason Reason
	}{
		{"wrong turn", StartFEN, "e7", "e5", ReasonWrongTurn},
		{"pinned bishop", "4k3/8/8/8/4r3/8/4B3/4K3 w - - 0 1", "e2", "d3", ReasonExposesKing},
		{"pinned bishop along pin", "4k3/8/8/8/7b/8/5B2/4K3 w - - 0 1", "f2", "g3", ReasonNone},
		{"king into check", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1", "e2", ReasonExposesKing},
		{"king takes guarded piece", "4k3/8/8/8/8/3r4/3r4/4K3 w - - 0 1", "e1", "d2", ReasonExposesKing},
		{"ignore check", "4k3/8/8/8/4r3/8/P7/4K3 w - - 0 1", "a2", "a3", ReasonExposesKing},
		{"block check", "4k3/8/8/8/4r3/8/3B4/4K3 w - - 0 1", "d2", "e3", ReasonNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			before := pos.Board
			s, got := pos.ModelMove(MustSquare(tc.from), MustSquare(tc.to))
			if got != tc.reason {
				t.Fatalf("ModelMove(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.reason)
			}
			if s.Legal != (got == ReasonNone) {
				t.Errorf("Legal = %v with reason %v", s.Legal, got)
			}
			if got != ReasonNone && s.Board != before {
				t.Error("rejected speculation must return the current board")
			}
			if pos.Board != before {
				t.Error("ModelMove mutated the position")
			}
		})
	}
}

// Every accepted move leaves the mover's king safe.
func TestLegalMovesNeverExposeKing(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		pos := MustParseFEN(fen)
		us := pos.SideToMove
		for _, m := range pos.LegalMoves() {
			s, _ := pos.ModelMove(m.From, m.To)
			if InCheck(s.Board, s.Board.King(us), us) {
				t.Errorf("%s: %v leaves the king in check", fen, m)
			}
		}
	}
}
