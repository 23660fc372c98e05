package board

import (
	"math/rand/v2"
	"testing"

	"github.com/notnil/chess"
)

// referenceMoveCount counts legal moves for fen with an independent
// move generator.
func referenceMoveCount(t *testing.T, fen string) int {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("reference rejected FEN %q: %v", fen, err)
	}
	return len(chess.NewGame(opt).ValidMoves())
}

func TestMoveCountMatchesReference(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
	}
	for _, fen := range fens {
		pos := MustParseFEN(fen)
		if got, want := len(pos.LegalMoves()), referenceMoveCount(t, fen); got != want {
			t.Errorf("%s: %d legal moves, reference has %d", fen, got, want)
		}
	}
}

// Random games from the start, compared ply by ply.
func TestRandomGamesMatchReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping random playouts in short mode")
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for game := 0; game < 20; game++ {
		pos := NewPosition()
		for ply := 0; ply < 80; ply++ {
			fen := pos.ToFEN()
			moves := pos.LegalMoves()
			if want := referenceMoveCount(t, fen); len(moves) != want {
				t.Fatalf("game %d ply %d %s: %d legal moves, reference has %d", game, ply, fen, len(moves), want)
			}
			if len(moves) == 0 {
				break
			}
			var reason Reason
			m := moves[rng.IntN(len(moves))]
			if pos, reason = pos.Play(m); reason != ReasonNone {
				t.Fatalf("game %d: Play(%v) rejected: %v", game, m, reason)
			}
		}
	}
}
