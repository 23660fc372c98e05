package protocol

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/chessview/internal/board"
	"github.com/hailam/chessview/internal/game"
	"github.com/hailam/chessview/internal/storage"
)

// run feeds script to a new session and returns everything it wrote.
func run(t *testing.T, script string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	s := New(strings.NewReader(script), &out, opts...)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func expectLines(t *testing.T, out string, want ...string) {
	t.Helper()
	lines := strings.Split(out, "\n")
	i := 0
	for _, line := range lines {
		if i < len(want) && line == want[i] {
			i++
		}
	}
	if i < len(want) {
		t.Errorf("missing line %q (in order) in output:\n%s", want[i], out)
	}
}

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSelectAndMove(t *testing.T) {
	out := run(t, "select e2\nselect e4\nmove e7 e5\nlog\nquit\n")
	expectLines(t, out,
		"event toggle e2",
		"event detoggle e2",
		"event empty e2",
		"event setValue e4 p white",
		"event empty e7",
		"event setValue e5 p black",
		"log 1. e4 e5",
		"bye",
	)
}

func TestErrors(t *testing.T) {
	out := run(t, "move e2e5\nfoo\nselect z9\npromote Q\nmove\n")
	expectLines(t, out,
		"error illegal move e2e5: piece cannot move that way",
		`error unknown command "foo"`,
		`error invalid square: "z9"`,
		"error no promotion pending",
		"error usage: move <from> <to>",
	)
}

func TestPromotion(t *testing.T) {
	pos := board.MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	out := run(t, "move a7a8\nstate\npromote k\npromote Q\nlog\n",
		WithGameOptions(game.WithPosition(pos)))
	expectLines(t, out,
		"event promotionRequested a8 white",
		`state turn=white phase="promotion a8" castling=- enpassant=- over=false winner=none player=white mode=singleplayer`,
		`error invalid promotion piece: "k"`,
		"event setValue a8 Q white",
		"log 1. a8=Q+",
	)
}

func TestMoveWithPromotionLetter(t *testing.T) {
	pos := board.MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	out := run(t, "move a7a8n\nlog\n", WithGameOptions(game.WithPosition(pos)))
	expectLines(t, out,
		"event setValue a8 N white",
		"log 1. a8=N",
	)
}

func TestMateRecordsStats(t *testing.T) {
	st := openStore(t)
	pos := board.MustParseFEN("4r1k1/8/8/8/8/8/6PP/7K b - - 0 1")
	out := run(t, "move e8e1\nmove h1g1\nstats\n",
		WithStorage(st), WithGameOptions(game.WithPosition(pos)))
	expectLines(t, out,
		"event gameEnded black",
		"error game is over",
		"stats played=1 wins=0 losses=1 draws=0 winrate=0.0 streak=0 best=0",
	)
}

func TestSaveAndLoad(t *testing.T) {
	st := openStore(t)
	out := run(t, "move e2e4\nmove e7e5\nsave\n", WithStorage(st))

	var id string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 3 && f[0] == "saved" {
			id = f[1]
		}
	}
	if id == "" {
		t.Fatalf("no saved line in output:\n%s", out)
	}

	out = run(t, "games\nload "+id+"\nlog\nmove g1f3\nlog\n", WithStorage(st))
	expectLines(t, out,
		"games 1",
		"log 1. e4 e5",
		"log 1. e4 e5 2. Nf3",
	)
	if strings.Contains(out, "event setValue e4") {
		t.Error("replayed moves must not be echoed as events")
	}
}

func TestLoadKeepsStartPosition(t *testing.T) {
	st := openStore(t)
	pos := board.MustParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	out := run(t, "move e2e4\nsave\n", WithStorage(st), WithGameOptions(game.WithPosition(pos)))

	games, err := st.ListGames()
	if err != nil || len(games) != 1 {
		t.Fatalf("ListGames() = %v, %v\n%s", games, err, out)
	}
	if games[0].StartFEN != "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1" {
		t.Errorf("StartFEN = %q", games[0].StartFEN)
	}

	var loaded bytes.Buffer
	s := New(strings.NewReader("load "+games[0].Name+"\n"), &loaded, WithStorage(st))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	pos = s.Game().Position()
	if got := pos.Board.At(board.E4); got != board.WhitePawn {
		t.Errorf("e4 = %q after load\n%s", got, loaded.String())
	}
	if got := s.Game().Start().ToFEN(); got != games[0].StartFEN {
		t.Errorf("Start() = %q", got)
	}
}

func TestStorageDisabled(t *testing.T) {
	out := run(t, "save\nload x\ngames\nstats\n")
	if n := strings.Count(out, "error storage disabled"); n != 4 {
		t.Errorf("got %d storage errors, want 4:\n%s", n, out)
	}
}

func TestNewGame(t *testing.T) {
	out := run(t, "move e2e4\nnew\nlog\n")
	expectLines(t, out, "event reset white", "log ")
}

func TestMovesList(t *testing.T) {
	out := run(t, "moves\n")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "moves ") {
			if n := len(strings.Fields(line)) - 1; n != 20 {
				t.Errorf("listed %d moves, want 20", n)
			}
			return
		}
	}
	t.Errorf("no moves line:\n%s", out)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := New(strings.NewReader("board\n"), &out).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestRenderBoard(t *testing.T) {
	lines := strings.Split(RenderBoard(board.NewBoard(), board.White, board.NoSquare, false), "\n")
	if got, want := lines[0], "   a  b  c  d  e  f  g  h "; got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
	if got, want := lines[1], "8  r  n  b  q  k  b  n  r  8"; got != want {
		t.Errorf("rank 8 = %q, want %q", got, want)
	}
	if got, want := lines[5], "4  .  .  .  .  .  .  .  .  4"; got != want {
		t.Errorf("rank 4 = %q, want %q", got, want)
	}

	lines = strings.Split(RenderBoard(board.NewBoard(), board.Black, board.NoSquare, false), "\n")
	if got, want := lines[1], "1  R  N  B  K  Q  B  N  R  1"; got != want {
		t.Errorf("black view rank 1 = %q, want %q", got, want)
	}
}

func TestFormatLog(t *testing.T) {
	if got, want := FormatLog([]string{"e4", "e5", "Nf3"}), "1. e4 e5 2. Nf3"; got != want {
		t.Errorf("FormatLog() = %q, want %q", got, want)
	}
	if got := FormatLog(nil); got != "" {
		t.Errorf("FormatLog(nil) = %q", got)
	}
}
