// Command chessview-games lists, shows and deletes saved games.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/hailam/chessview/internal/board"
	"github.com/hailam/chessview/internal/game"
	"github.com/hailam/chessview/internal/protocol"
	"github.com/hailam/chessview/internal/storage"
)

const usage = `usage: chessview-games [flags] <command>

commands:
  list            list saved games
  show <ref>      replay a game and draw its final position
  fen <ref>       print the FEN of a game's final position
  delete <ref>    delete a game
  stats           show statistics

A ref is a game ID, a unique ID prefix or a game name.
`

var (
	dbDir   = flag.String("db", os.Getenv("CHESSVIEW_DB"), "database directory (default: platform data directory)")
	noColor = flag.Bool("no-color", false, "disable colors")
	verbose = flag.Bool("v", false, "log storage activity")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *noColor {
		color.NoColor = true
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("logger: %v", err)
		}
	}

	var store *storage.Storage
	var err error
	if *dbDir != "" {
		store, err = storage.Open(*dbDir, logger)
	} else {
		store, err = storage.NewStorage(logger)
	}
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	if err := run(store, flag.Args()); err != nil {
		store.Close()
		log.Fatal(err)
	}
}

func run(store *storage.Storage, args []string) error {
	need := func(n int) error {
		if len(args) != n+1 {
			return fmt.Errorf("%s: expected %d argument(s)", args[0], n)
		}
		return nil
	}

	switch args[0] {
	case "list", "ls":
		return list(store)
	case "show":
		if err := need(1); err != nil {
			return err
		}
		return show(store, args[1])
	case "fen":
		if err := need(1); err != nil {
			return err
		}
		g, _, err := replay(store, args[1])
		if err != nil {
			return err
		}
		fmt.Println(g.Position().ToFEN())
		return nil
	case "delete", "rm":
		if err := need(1); err != nil {
			return err
		}
		rec, err := store.FindGame(args[1])
		if err != nil {
			return err
		}
		if err := store.DeleteGame(rec.ID); err != nil {
			return err
		}
		fmt.Printf("deleted %s %s\n", rec.ID, rec.Name)
		return nil
	case "stats":
		return stats(store)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func list(store *storage.Storage) error {
	games, err := store.ListGames()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("no saved games")
		return nil
	}
	bold := color.New(color.Bold)
	for _, g := range games {
		fmt.Printf("%s  %-24s %4d plies  %-12s %s\n",
			shortID(g.ID), bold.Sprint(g.Name), len(g.Moves), status(g), g.UpdatedAt.Format(time.DateTime))
	}
	return nil
}

// shortID abbreviates a game ID for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func show(store *storage.Storage, ref string) error {
	g, rec, err := replay(store, ref)
	if err != nil {
		return err
	}
	color.New(color.Bold).Printf("%s (%s)\n", rec.Name, rec.ID)
	fmt.Printf("mode %s, player %s, %s\n\n", rec.Mode, rec.Player, status(rec))
	fmt.Print(protocol.RenderBoard(g.Position().Board, g.Player(), board.NoSquare, !color.NoColor))
	fmt.Println()
	fmt.Println(protocol.FormatLog(g.Log()))
	return nil
}

// replay rebuilds a saved game from its moves.
func replay(store *storage.Storage, ref string) (*game.Game, storage.GameRecord, error) {
	rec, err := store.FindGame(ref)
	if err != nil {
		return nil, rec, err
	}

	var opts []game.Option
	if c, err := board.ParseColor(rec.Player); err == nil {
		opts = append(opts, game.WithPlayer(c))
	}
	if rec.StartFEN != "" {
		pos, err := board.ParseFEN(rec.StartFEN)
		if err != nil {
			return nil, rec, fmt.Errorf("game %s: %w", rec.ID, err)
		}
		opts = append(opts, game.WithPosition(pos))
	}

	moves := make([]board.Move, 0, len(rec.Moves))
	for _, text := range rec.Moves {
		m, err := board.ParseMove(text)
		if err != nil {
			return nil, rec, fmt.Errorf("game %s: %w", rec.ID, err)
		}
		moves = append(moves, m)
	}

	g := game.NewGame(opts...)
	if err := g.Restore(moves); err != nil {
		return nil, rec, fmt.Errorf("game %s: %w", rec.ID, err)
	}
	return g, rec, nil
}

func stats(store *storage.Storage) error {
	st, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("games played   %d\n", st.GamesPlayed)
	fmt.Printf("wins           %s\n", color.GreenString("%d", st.Wins))
	fmt.Printf("losses         %s\n", color.RedString("%d", st.Losses))
	fmt.Printf("draws          %d\n", st.Draws)
	fmt.Printf("win rate       %.1f%%\n", st.GetWinRate())
	fmt.Printf("win streak     %d (best %d)\n", st.CurrentStreak, st.LongestWinStrk)
	fmt.Printf("plies played   %d\n", st.TotalPlies)
	fmt.Printf("time played    %s\n", st.TotalPlayTime.Round(time.Second))
	for mode, wins := range st.WinsByMode {
		fmt.Printf("wins (%s)  %d\n", mode, wins)
	}
	return nil
}

func status(g storage.GameRecord) string {
	switch {
	case !g.Over:
		return color.YellowString("ongoing")
	case g.Winner == "":
		return "draw"
	default:
		return color.GreenString("%s won", g.Winner)
	}
}
