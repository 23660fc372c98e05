package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username   string    `json:"username"`
	Player     string    `json:"player"` // "white" or "black"
	Mode       string    `json:"mode"`
	Color      bool      `json:"color"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   "Player",
		Player:     "white",
		Mode:       "singleplayer",
		Color:      true,
		LastPlayed: time.Now(),
	}
}

// GameStats stores game statistics from the local player's side.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	TotalPlies     int            `json:"total_plies"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode: make(map[string]int),
	}
}

// GameResult represents the result of a completed game. Winner is
// "white", "black" or empty for a draw.
type GameResult struct {
	Winner   string
	Player   string
	Mode     string
	Plies    int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger *zap.Logger

	statsMu sync.Mutex // serializes RecordGame
}

// NewStorage opens the database in the platform data directory.
func NewStorage(logger *zap.Logger) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, fmt.Errorf("database dir: %w", err)
	}
	return Open(dbDir, logger)
}

// Open opens (or creates) the database in dir. A nil logger discards
// everything.
func Open(dir string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{logger.Named("badger").Sugar()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}
	logger.Debug("database opened", zap.String("dir", dir))

	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.WinsByMode == nil {
		stats.WinsByMode = make(map[string]int)
	}
	return stats, nil
}

// maxConflictRetries bounds RecordGame's retries when SaveStats commits
// between its read and its write.
const maxConflictRetries = 5

// RecordGame adds a completed game to the statistics. The read and the
// write happen in one transaction, so concurrent callers never lose an
// update.
func (s *Storage) RecordGame(result GameResult) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	var stats *GameStats
	var err error
	for range maxConflictRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			stats = NewGameStats()
			if _, err := getIn(txn, keyStats, stats); err != nil {
				return err
			}
			if stats.WinsByMode == nil {
				stats.WinsByMode = make(map[string]int)
			}
			stats.apply(result)
			return putIn(txn, keyStats, stats)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		s.logger.Debug("stats update conflict, retrying")
	}
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}

	s.logger.Info("game recorded",
		zap.String("winner", result.Winner),
		zap.String("player", result.Player),
		zap.Int("games_played", stats.GamesPlayed))
	return nil
}

// apply counts one finished game.
func (s *GameStats) apply(result GameResult) {
	s.GamesPlayed++
	s.TotalPlies += result.Plies
	s.TotalPlayTime += result.Duration

	switch result.Winner {
	case "":
		s.Draws++
		s.CurrentStreak = 0
	case result.Player:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsByMode[result.Mode]++
	default:
		s.Losses++
		s.CurrentStreak = 0
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putIn(txn, key, v)
	})
}

// get decodes the JSON under key into v. It reports false, and leaves v
// alone, when the key is absent.
func (s *Storage) get(key string, v any) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getIn(txn, key, v)
		return err
	})
	return found, err
}

func putIn(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func getIn(txn *badger.Txn, key string, v any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
	if err != nil {
		return true, fmt.Errorf("load %s: %w", key, err)
	}
	return true, nil
}

// badgerLogger routes badger's log output into zap. Badger's info lines
// are chatty and go to debug.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.Debugf(format, args...)
}
