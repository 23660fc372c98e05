// Chessview plays chess from a terminal, or serves games to SSH clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessview/internal/board"
	"github.com/hailam/chessview/internal/game"
	"github.com/hailam/chessview/internal/protocol"
	"github.com/hailam/chessview/internal/server"
	"github.com/hailam/chessview/internal/storage"
)

func main() {
	dbDir := flag.String("db", getenv("CHESSVIEW_DB", ""), "database directory (default: platform data directory)")
	noStore := flag.Bool("no-store", getenb("CHESSVIEW_NO_STORE", false), "run without saved games and statistics")
	colored := flag.Bool("color", getenb("CHESSVIEW_COLOR", true), "draw the board with ANSI colors")
	player := flag.String("player", getenv("CHESSVIEW_PLAYER", ""), "side the board is drawn for: white or black")
	mode := flag.String("mode", getenv("CHESSVIEW_MODE", ""), "singleplayer or multiplayer")
	sshAddr := flag.String("ssh", getenv("CHESSVIEW_SSH", ""), "serve games over SSH on this address instead of the terminal")
	hostKey := flag.String("host-key", getenv("CHESSVIEW_HOST_KEY", ""), "SSH host key file (default: generated at start)")
	level := flag.String("log-level", getenv("CHESSVIEW_LOG_LEVEL", "warn"), "log level: debug, info, warn, error")
	debug := flag.Bool("debug", getenb("CHESSVIEW_DEBUG", false), "human readable development logs")
	flag.Parse()

	logger, err := newLogger(*level, *debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *storage.Storage
	if !*noStore {
		store, err = openStorage(*dbDir, logger)
		if err != nil {
			logger.Fatal("open storage", zap.Error(err))
		}
		defer store.Close()
	}

	prefs := loadPreferences(store, logger)
	set := explicitFlags()
	if !set["player"] && *player == "" {
		*player = prefs.Player
	}
	if !set["mode"] && *mode == "" {
		*mode = prefs.Mode
	}
	if !set["color"] && os.Getenv("CHESSVIEW_COLOR") == "" {
		*colored = prefs.Color
	}

	side, err := board.ParseColor(*player)
	if err != nil {
		logger.Fatal("invalid -player", zap.String("player", *player), zap.Error(err))
	}
	m, ok := game.ParseMode(*mode)
	if !ok {
		logger.Fatal("invalid -mode", zap.String("mode", *mode))
	}

	opts := []protocol.Option{
		protocol.WithLogger(logger),
		protocol.WithGameOptions(game.WithPlayer(side), game.WithMode(m)),
	}
	if store != nil {
		opts = append(opts, protocol.WithStorage(store))
	}

	if *sshAddr != "" {
		if err := serveSSH(ctx, *sshAddr, *hostKey, logger, opts); err != nil {
			logger.Fatal("ssh server", zap.Error(err))
		}
		return
	}

	welcome(store, os.Stdout, logger)

	opts = append(opts, protocol.WithColor(*colored))
	session := protocol.New(os.Stdin, os.Stdout, opts...)
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session", zap.Error(err))
	}

	prefs.Player = side.String()
	prefs.Mode = string(m)
	prefs.Color = *colored
	if store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			logger.Warn("save preferences", zap.Error(err))
		}
	}
}

func serveSSH(ctx context.Context, addr, hostKey string, logger *zap.Logger, opts []protocol.Option) error {
	srv, err := server.New(server.Config{Addr: addr, HostKeyFile: hostKey}, logger, opts...)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Int64("open_sessions", srv.Sessions()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
		srv.Close()
	}
	return <-errc
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

func openStorage(dir string, logger *zap.Logger) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage(logger)
	}
	return storage.Open(dir, logger)
}

func loadPreferences(store *storage.Storage, logger *zap.Logger) *storage.UserPreferences {
	if store == nil {
		return storage.DefaultPreferences()
	}
	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Warn("load preferences", zap.Error(err))
		return storage.DefaultPreferences()
	}
	return prefs
}

// welcome greets a first-time user and records that the greeting was shown.
func welcome(store *storage.Storage, out io.Writer, logger *zap.Logger) {
	if store == nil {
		return
	}
	first, err := store.IsFirstLaunch()
	if err != nil {
		logger.Warn("check first launch", zap.Error(err))
		return
	}
	if !first {
		return
	}
	fmt.Fprintln(out, "welcome to chessview")
	if err := store.MarkFirstLaunchComplete(); err != nil {
		logger.Warn("mark first launch", zap.Error(err))
	}
}

// explicitFlags reports the flags given on the command line.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
