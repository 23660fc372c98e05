package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrGameNotFound is returned when no saved game matches.
var ErrGameNotFound = errors.New("game not found")

// GameRecord is a saved game. Moves are in coordinate notation and are
// replayed to rebuild the game; Log is kept for listing.
type GameRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	Player    string    `json:"player"`
	StartFEN  string    `json:"start_fen,omitempty"`
	Moves     []string  `json:"moves"`
	Log       []string  `json:"log"`
	Over      bool      `json:"over"`
	Winner    string    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame stores rec. A record without an ID is new: it gets a UUID and a
// generated name. The stored record is returned.
func (s *Storage) SaveGame(rec GameRecord) (GameRecord, error) {
	now := time.Now()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	if rec.Name == "" {
		rec.Name = petname.Generate(2, "-")
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode game %s: %w", rec.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
	if err != nil {
		return rec, fmt.Errorf("save game %s: %w", rec.ID, err)
	}

	s.logger.Info("game saved",
		zap.String("id", rec.ID),
		zap.String("name", rec.Name),
		zap.Int("plies", len(rec.Moves)))
	return rec, nil
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return rec, fmt.Errorf("load game %s: %w", id, err)
	}
	return rec, nil
}

// FindGame looks a game up by ID, then by name, then by a unique ID
// prefix.
func (s *Storage) FindGame(ref string) (GameRecord, error) {
	rec, err := s.LoadGame(ref)
	if !errors.Is(err, ErrGameNotFound) {
		return rec, err
	}

	games, err := s.ListGames()
	if err != nil {
		return GameRecord{}, err
	}
	var prefixed []GameRecord
	for _, g := range games {
		if g.Name == ref {
			return g, nil
		}
		if ref != "" && strings.HasPrefix(g.ID, ref) {
			prefixed = append(prefixed, g)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	return GameRecord{}, fmt.Errorf("%w: %s", ErrGameNotFound, ref)
}

// ListGames returns every saved game, most recently updated first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	slices.SortFunc(games, func(a, b GameRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return games, nil
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(id string) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	s.logger.Info("game deleted", zap.String("id", id))
	return nil
}
