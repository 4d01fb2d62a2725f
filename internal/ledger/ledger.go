// Package ledger records cleaning runs in a SQLite database so that the
// windows dropped from a dataset can be audited later.
package ledger

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banshee-data/windowclean/internal/timeutil"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("ledger: run not found")

// Run is one cleaning pass over a modality.
type Run struct {
	RunID          string `json:"run_id"`
	Modality       string `json:"modality"`
	DataPath       string `json:"data_path"`
	WindowsIn      int    `json:"windows_in"`
	AmbiguousCount int    `json:"ambiguous_count"`
	RemovedCount   int    `json:"removed_count"`
	RemovedIndices []int  `json:"removed_indices"`
	WindowsOut     int    `json:"windows_out"`
	LabelCols      int    `json:"label_cols"`
	Padded         bool   `json:"padded"`
	CreatedAt      int64  `json:"created_at"` // unix nanos
}

// Ledger is a migrated SQLite handle. Clock stamps runs recorded without a
// CreatedAt.
type Ledger struct {
	*sql.DB
	Clock timeutil.Clock
}

// Open opens (creating if needed) the ledger at path and applies pending
// migrations.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	l := &Ledger{DB: db, Clock: timeutil.RealClock{}}
	if err := l.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(l.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateUp runs all pending migrations. The migrate instance is not closed
// because that would close the shared connection.
func (l *Ledger) migrateUp() error {
	m, err := l.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version and dirty flag.
func (l *Ledger) SchemaVersion() (uint, bool, error) {
	m, err := l.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Record persists run. A missing RunID is filled with a UUID and a zero
// CreatedAt with the ledger clock; both are written back to run.
func (l *Ledger) Record(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = l.Clock.Now().UnixNano()
	}
	removed := run.RemovedIndices
	if removed == nil {
		removed = []int{}
	}
	removedJSON, err := json.Marshal(removed)
	if err != nil {
		return fmt.Errorf("failed to encode removed indices: %w", err)
	}

	_, err = l.Exec(`
		INSERT INTO clean_runs (
			run_id, modality, data_path, windows_in, ambiguous_count,
			removed_count, removed_indices, windows_out, label_cols, padded, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Modality, run.DataPath, run.WindowsIn, run.AmbiguousCount,
		run.RemovedCount, string(removedJSON), run.WindowsOut, run.LabelCols, run.Padded, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

const selectRun = `
	SELECT run_id, modality, data_path, windows_in, ambiguous_count,
	       removed_count, removed_indices, windows_out, label_cols, padded, created_at
	FROM clean_runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run     Run
		removed string
	)
	err := s.Scan(&run.RunID, &run.Modality, &run.DataPath, &run.WindowsIn, &run.AmbiguousCount,
		&run.RemovedCount, &removed, &run.WindowsOut, &run.LabelCols, &run.Padded, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(removed), &run.RemovedIndices); err != nil {
		return nil, fmt.Errorf("failed to decode removed indices of run %s: %w", run.RunID, err)
	}
	return &run, nil
}

// Get returns the run with the given id.
func (l *Ledger) Get(runID string) (*Run, error) {
	run, err := scanRun(l.QueryRow(selectRun+` WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return run, err
}

// ListByModality returns the runs for modality, newest first.
func (l *Ledger) ListByModality(modality string) ([]*Run, error) {
	rows, err := l.Query(selectRun+` WHERE modality = ? ORDER BY created_at DESC`, modality)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
