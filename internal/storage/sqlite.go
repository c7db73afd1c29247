// Package storage provides SQLite-based persistence for game replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrAmbiguousID is returned when an ID prefix matches more than one replay.
var ErrAmbiguousID = errors.New("storage: ambiguous replay id prefix")

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// ReplayRecord is a finished game: the options needed to rebuild it and the
// encoded action journal.
type ReplayRecord struct {
	ID         uuid.UUID
	Seed       int64
	Width      int
	Height     int
	Randomizer string
	Actions    string // core.EncodeActions form
	Lines      int
	GameOver   bool
	Session    string // "local" or the SSH session that played it
	CreatedAt  time.Time
}

// Stats contains aggregated statistics over all saved replays.
type Stats struct {
	Games      int
	TotalLines int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			randomizer TEXT NOT NULL,
			actions TEXT NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			game_over INTEGER NOT NULL DEFAULT 0,
			session TEXT NOT NULL DEFAULT 'local',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay records a finished game. A nil ID is replaced by a fresh
// random one. Returns the stored ID.
func (s *Store) SaveReplay(r ReplayRecord) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Session == "" {
		r.Session = "local"
	}

	_, err := s.db.Exec(
		`INSERT INTO replays (id, seed, width, height, randomizer, actions, lines, game_over, session)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Seed, r.Width, r.Height, r.Randomizer, r.Actions, r.Lines, r.GameOver, r.Session,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return r.ID, nil
}

const replayColumns = `id, seed, width, height, randomizer, actions, lines, game_over, session, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(sc scanner) (ReplayRecord, error) {
	var r ReplayRecord
	var id string
	var createdAt any
	if err := sc.Scan(
		&id,
		&r.Seed,
		&r.Width,
		&r.Height,
		&r.Randomizer,
		&r.Actions,
		&r.Lines,
		&r.GameOver,
		&r.Session,
		&createdAt,
	); err != nil {
		return r, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return r, fmt.Errorf("storage: corrupt replay id %q: %w", id, err)
	}
	r.ID = parsed
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Replay retrieves a replay by ID. Returns nil if it does not exist.
func (s *Store) Replay(id uuid.UUID) (*ReplayRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+replayColumns+` FROM replays WHERE id = ?`,
		id.String(),
	)
	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return &r, nil
}

// FindReplay retrieves the replay whose ID starts with prefix.
// Returns nil if none matches and ErrAmbiguousID if several do.
func (s *Store) FindReplay(prefix string) (*ReplayRecord, error) {
	if prefix == "" {
		return nil, ErrAmbiguousID
	}
	rows, err := s.db.Query(
		`SELECT `+replayColumns+` FROM replays WHERE id LIKE ? || '%' LIMIT 2`,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	defer rows.Close()

	var found []ReplayRecord
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, ErrAmbiguousID
	}
}

// RecentReplays retrieves the most recently saved replays, newest first.
func (s *Store) RecentReplays(limit int) ([]ReplayRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryReplays(
		`SELECT `+replayColumns+` FROM replays ORDER BY seq DESC LIMIT ?`,
		limit,
	)
}

func (s *Store) queryReplays(query string, args ...any) ([]ReplayRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayRecord
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteReplay removes a replay. Deleting a missing replay is not an error.
func (s *Store) DeleteReplay(id uuid.UUID) error {
	if _, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics over all replays.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(lines), 0), MAX(created_at) FROM replays`,
	).Scan(&stats.Games, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}
