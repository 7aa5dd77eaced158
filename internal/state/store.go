// Package state persists the UI-owned lists: watchlist, comparison set,
// savings plans and theme. It mirrors browser local storage: four
// independent JSON values under fixed logical keys, backed by a local
// SQLite file.
package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"etfpulse/internal/model"
)

// Storage keys, one per persisted value.
const (
	keyWatchlist    = "etf_watchlist"
	keyComparison   = "etf_comparison"
	keySavingsPlans = "etf_savings_plans"
	keyTheme        = "etf_theme"
)

// MaxComparisonEntries caps the side-by-side comparison set.
const MaxComparisonEntries = 5

// DefaultTheme is used until the user picks one.
const DefaultTheme = "dark"

// ErrPlanNotFound is returned when a savings plan ID does not exist.
var ErrPlanNotFound = errors.New("savings plan not found")

// Store is the SQLite-backed key-value state store.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// Open opens (or creates) the database at dbPath and ensures the schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	s := &Store{
		db:     db,
		logger: log.With().Str("component", "state_store").Logger(),
	}
	s.logger.Info().Str("path", dbPath).Msg("state store opened")
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) read(key string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) write(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw),
	); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Watchlist returns the persisted watchlist, oldest first.
func (s *Store) Watchlist() ([]model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []model.Quote{}
	err := s.read(keyWatchlist, &list)
	return list, err
}

// AddToWatchlist appends quote unless its symbol is already present.
func (s *Store) AddToWatchlist(quote model.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []model.Quote{}
	if err := s.read(keyWatchlist, &list); err != nil {
		return err
	}
	for _, q := range list {
		if q.Symbol == quote.Symbol {
			return nil
		}
	}
	return s.write(keyWatchlist, append(list, quote))
}

// RemoveFromWatchlist drops the entry for symbol, if any.
func (s *Store) RemoveFromWatchlist(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []model.Quote{}
	if err := s.read(keyWatchlist, &list); err != nil {
		return err
	}
	kept := list[:0]
	for _, q := range list {
		if q.Symbol != symbol {
			kept = append(kept, q)
		}
	}
	return s.write(keyWatchlist, kept)
}

// Comparison returns the compared symbols in insertion order.
func (s *Store) Comparison() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []string{}
	err := s.read(keyComparison, &list)
	return list, err
}

// AddToComparison appends symbol. Duplicates and additions past the cap are
// silent no-ops.
func (s *Store) AddToComparison(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []string{}
	if err := s.read(keyComparison, &list); err != nil {
		return err
	}
	if len(list) >= MaxComparisonEntries {
		return nil
	}
	for _, sym := range list {
		if sym == symbol {
			return nil
		}
	}
	return s.write(keyComparison, append(list, symbol))
}

// RemoveFromComparison drops symbol from the set, if present.
func (s *Store) RemoveFromComparison(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []string{}
	if err := s.read(keyComparison, &list); err != nil {
		return err
	}
	kept := list[:0]
	for _, sym := range list {
		if sym != symbol {
			kept = append(kept, sym)
		}
	}
	return s.write(keyComparison, kept)
}

// ClearComparison empties the comparison set.
func (s *Store) ClearComparison() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keyComparison, []string{})
}

// SavingsPlans returns all persisted plans.
func (s *Store) SavingsPlans() ([]model.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []model.SavingsPlan{}
	err := s.read(keySavingsPlans, &plans)
	return plans, err
}

// CreateSavingsPlan assigns an ID and timestamps, stores the plan and
// returns it.
func (s *Store) CreateSavingsPlan(plan model.SavingsPlan) (model.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []model.SavingsPlan{}
	if err := s.read(keySavingsPlans, &plans); err != nil {
		return model.SavingsPlan{}, err
	}

	now := time.Now()
	plan.ID = uuid.NewString()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if err := s.write(keySavingsPlans, append(plans, plan)); err != nil {
		return model.SavingsPlan{}, err
	}
	return plan, nil
}

// UpdateSavingsPlan replaces the stored plan with the given ID, bumping its
// updated timestamp and preserving its creation timestamp.
func (s *Store) UpdateSavingsPlan(id string, plan model.SavingsPlan) (model.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []model.SavingsPlan{}
	if err := s.read(keySavingsPlans, &plans); err != nil {
		return model.SavingsPlan{}, err
	}

	for i, existing := range plans {
		if existing.ID != id {
			continue
		}
		plan.ID = id
		plan.CreatedAt = existing.CreatedAt
		plan.UpdatedAt = time.Now()
		plans[i] = plan
		if err := s.write(keySavingsPlans, plans); err != nil {
			return model.SavingsPlan{}, err
		}
		return plan, nil
	}
	return model.SavingsPlan{}, ErrPlanNotFound
}

// DeleteSavingsPlan removes the plan with the given ID.
func (s *Store) DeleteSavingsPlan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []model.SavingsPlan{}
	if err := s.read(keySavingsPlans, &plans); err != nil {
		return err
	}
	kept := plans[:0]
	found := false
	for _, p := range plans {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPlanNotFound
	}
	return s.write(keySavingsPlans, kept)
}

// Theme returns the persisted theme preference, defaulting to dark.
func (s *Store) Theme() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	theme := ""
	if err := s.read(keyTheme, &theme); err != nil {
		return "", err
	}
	if theme == "" {
		return DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme stores the theme preference.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keyTheme, theme)
}
