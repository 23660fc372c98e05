// Package protocol drives a game from a line-oriented text stream. Each
// input line is one command; game events and replies are written back as
// lines, so a terminal, a pipe or an SSH channel can act as the view.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessview/internal/board"
	"github.com/hailam/chessview/internal/game"
	"github.com/hailam/chessview/internal/storage"
)

const helpText = `commands:
  new                 start a new game
  select <sq>         click a square (select, switch, deselect or move)
  move <from> <to>    play a move, also "move e2e4"
  promote <Q|R|B|N>   choose the promotion piece
  board               draw the board
  state               show turn, phase and rights
  log                 show the notation log
  moves               list legal moves
  save                save the game
  load <id|name>      load a saved game
  games               list saved games
  stats               show statistics
  help                show this text
  quit                leave`

// Session is one view attached to one game.
type Session struct {
	in      io.Reader
	out     io.Writer
	store   *storage.Storage
	colored bool
	logger  *zap.Logger

	gameOpts []game.Option
	game     *game.Game
	start    board.Position
	record   storage.GameRecord
	started  time.Time
	recorded bool
}

// Option configures a Session.
type Option func(*Session)

// WithStorage enables save, load, games and stats.
func WithStorage(st *storage.Storage) Option {
	return func(s *Session) { s.store = st }
}

// WithColor turns ANSI colors in the board drawing on or off.
func WithColor(enabled bool) Option {
	return func(s *Session) { s.colored = enabled }
}

// WithLogger sets the logger for the session and its games.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithGameOptions passes options to every game the session creates.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Session) { s.gameOpts = append(s.gameOpts, opts...) }
}

// New creates a session reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		in:     in,
		out:    out,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.attach(s.newGame(s.gameOpts...))
	return s
}

// Game returns the game currently attached to the session.
func (s *Session) Game() *game.Game {
	return s.game
}

// newGame builds a game from opts with the session logger.
func (s *Session) newGame(opts ...game.Option) *game.Game {
	return game.NewGame(append([]game.Option{game.WithLogger(s.logger)}, opts...)...)
}

// attach makes g the session's game and starts printing its events.
func (s *Session) attach(g *game.Game) {
	g.Subscribe(s.printEvent)
	s.game = g
	s.start = g.Start()
	s.record = storage.GameRecord{}
	s.started = time.Now()
	s.recorded = false
}

// Run reads commands until quit, end of input or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	s.println("chessview ready, type help for commands")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "quit" || cmd == "exit" {
			s.println("bye")
			return nil
		}
		if err := s.dispatch(cmd, args); err != nil {
			s.logger.Debug("command failed", zap.String("command", line), zap.Error(err))
			s.println("error " + err.Error())
		}
		s.recordFinished()
	}
	return scanner.Err()
}

func (s *Session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "new":
		return s.handleNew()
	case "select", "click":
		return s.handleSelect(args)
	case "move":
		return s.handleMove(args)
	case "promote":
		return s.handlePromote(args)
	case "board", "d":
		s.handleBoard()
	case "state":
		s.handleState()
	case "log":
		s.handleLog()
	case "moves":
		s.handleMoves()
	case "save":
		return s.handleSave()
	case "load":
		return s.handleLoad(args)
	case "games":
		return s.handleGames()
	case "stats":
		return s.handleStats()
	case "help":
		s.println(helpText)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *Session) handleNew() error {
	s.game.Reset()
	s.record = storage.GameRecord{}
	s.started = time.Now()
	s.recorded = false
	s.handleBoard()
	return nil
}

func (s *Session) handleSelect(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: select <square>")
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	s.game.ToggleSquare(sq)
	return nil
}

func (s *Session) handleMove(args []string) error {
	var text string
	switch len(args) {
	case 1:
		text = args[0]
	case 2:
		text = args[0] + args[1]
	default:
		return errors.New("usage: move <from> <to>")
	}
	m, err := board.ParseMove(strings.ToLower(text))
	if err != nil {
		return err
	}
	if err := s.game.Move(m.From, m.To); err != nil {
		return err
	}
	if _, ok := s.game.Phase().(game.AwaitingPromotion); ok && m.IsPromotion() {
		return s.game.Promote(string(m.Promotion.Letter()))
	}
	return nil
}

func (s *Session) handlePromote(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: promote <Q|R|B|N>")
	}
	return s.game.Promote(args[0])
}

func (s *Session) handleBoard() {
	st := s.game.State()
	s.print(RenderBoard(st.Board, st.Player, st.Toggled, s.colored))
}

func (s *Session) handleState() {
	st := s.game.State()
	phase := game.PhaseName(st.Phase)
	switch p := st.Phase.(type) {
	case game.Selected:
		phase += " " + p.Square.String()
	case game.AwaitingPromotion:
		phase += " " + p.Square.String()
	}
	s.printf("state turn=%s phase=%q castling=%s enpassant=%s over=%t winner=%s player=%s mode=%s\n",
		st.Turn, phase, st.Castling, st.EnPassant, st.Over, st.Winner, st.Player, st.Mode)
}

func (s *Session) handleLog() {
	s.println("log " + FormatLog(s.game.Log()))
}

func (s *Session) handleMoves() {
	var sb strings.Builder
	sb.WriteString("moves")
	for _, m := range s.game.Position().LegalMoves() {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	s.println(sb.String())
}

func (s *Session) handleSave() error {
	if s.store == nil {
		return errors.New("storage disabled")
	}
	rec := s.record
	st := s.game.State()
	rec.Mode = string(st.Mode)
	rec.Player = st.Player.String()
	rec.StartFEN = ""
	if fen := s.start.ToFEN(); fen != board.StartFEN {
		rec.StartFEN = fen
	}
	rec.Moves = make([]string, 0, len(st.Moves))
	for _, m := range st.Moves {
		rec.Moves = append(rec.Moves, m.String())
	}
	rec.Log = st.Log
	rec.Over = st.Over
	rec.Winner = ""
	if st.Over && st.Winner != board.NoColor {
		rec.Winner = st.Winner.String()
	}

	saved, err := s.store.SaveGame(rec)
	if err != nil {
		return err
	}
	s.record = saved
	s.printf("saved %s %s\n", saved.ID, saved.Name)
	return nil
}

func (s *Session) handleLoad(args []string) error {
	if s.store == nil {
		return errors.New("storage disabled")
	}
	if len(args) != 1 {
		return errors.New("usage: load <id|name>")
	}
	rec, err := s.store.FindGame(args[0])
	if err != nil {
		return err
	}

	moves := make([]board.Move, 0, len(rec.Moves))
	for _, text := range rec.Moves {
		m, err := board.ParseMove(text)
		if err != nil {
			return fmt.Errorf("game %s: %w", rec.ID, err)
		}
		moves = append(moves, m)
	}

	opts := append([]game.Option(nil), s.gameOpts...)
	if c, err := board.ParseColor(rec.Player); err == nil {
		opts = append(opts, game.WithPlayer(c))
	}
	if m, ok := game.ParseMode(rec.Mode); ok {
		opts = append(opts, game.WithMode(m))
	}
	if rec.StartFEN != "" {
		pos, err := board.ParseFEN(rec.StartFEN)
		if err != nil {
			return fmt.Errorf("game %s: %w", rec.ID, err)
		}
		opts = append(opts, game.WithPosition(pos))
	}

	// Replay before attaching so the saved moves are not echoed as events.
	g := s.newGame(opts...)
	if err := g.Restore(moves); err != nil {
		return fmt.Errorf("game %s: %w", rec.ID, err)
	}
	s.attach(g)
	s.record = rec
	// A finished game was counted when it ended.
	s.recorded = s.game.Over()
	s.printf("loaded %s %s\n", rec.ID, rec.Name)
	s.handleBoard()
	return nil
}

func (s *Session) handleGames() error {
	if s.store == nil {
		return errors.New("storage disabled")
	}
	games, err := s.store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		status := "ongoing"
		if g.Over {
			status = "draw"
			if g.Winner != "" {
				status = g.Winner + " won"
			}
		}
		s.printf("game %s %s plies=%d %q %s\n", g.ID, g.Name, len(g.Moves), status, g.UpdatedAt.Format(time.DateTime))
	}
	s.printf("games %d\n", len(games))
	return nil
}

func (s *Session) handleStats() error {
	if s.store == nil {
		return errors.New("storage disabled")
	}
	st, err := s.store.LoadStats()
	if err != nil {
		return err
	}
	s.printf("stats played=%d wins=%d losses=%d draws=%d winrate=%.1f streak=%d best=%d\n",
		st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.GetWinRate(), st.CurrentStreak, st.LongestWinStrk)
	return nil
}

// recordFinished adds a finished game to the statistics once.
func (s *Session) recordFinished() {
	if s.store == nil || s.recorded || !s.game.Over() {
		return
	}
	s.recorded = true

	winner := ""
	if w := s.game.Winner(); w != board.NoColor {
		winner = w.String()
	}
	err := s.store.RecordGame(storage.GameResult{
		Winner:   winner,
		Player:   s.game.Player().String(),
		Mode:     string(s.game.Mode()),
		Plies:    len(s.game.Moves()),
		Duration: time.Since(s.started),
	})
	if err != nil {
		s.logger.Warn("failed to record game", zap.Error(err))
	}
}

// printEvent writes one game event as an "event" line.
func (s *Session) printEvent(e game.Event) {
	kind := e.Kind().String()
	switch e := e.(type) {
	case game.Reset:
		s.printf("event %s %s\n", kind, e.Player)
	case game.Toggle:
		s.printf("event %s %s\n", kind, e.Square)
	case game.Detoggle:
		s.printf("event %s %s\n", kind, e.Square)
	case game.Empty:
		s.printf("event %s %s\n", kind, e.Square)
	case game.SetValue:
		s.printf("event %s %s %c %s\n", kind, e.Square, e.Piece.Type().Letter(), e.Piece.Color())
	case game.PromotionRequested:
		s.printf("event %s %s %s\n", kind, e.Square, e.Color)
	case game.GameEnded:
		s.printf("event %s %s\n", kind, e.Winner)
	}
}

// FormatLog numbers the notation log in move pairs: "1. e4 e5 2. Nf3".
func FormatLog(log []string) string {
	var sb strings.Builder
	for i, note := range log {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(note)
	}
	return sb.String()
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) print(text string) {
	io.WriteString(s.out, text)
}
