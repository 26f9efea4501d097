/*
Package sqlite provides a SQLite-backed implementation of history.Store.

PURPOSE:

	Persists travelers, their flights, their manual ledger and their daily
	status snapshots. Engine outputs (cycles, ledger rows, rollover) are never
	stored: they are recomputed from these tables on every request.

KEY TABLES:

	travelers:        Traveler records, settings as a JSON column
	flights:          One row per flight leg, keyed by (traveler, flight id)
	manual_entries:   One row per (traveler, month)
	status_snapshots: One row per (traveler, day)

INDEXES:
  - idx_flights_traveler_date: ListFlights (hot path, every computation)
  - idx_snapshots_traveler_day: unique day per traveler, LatestSnapshot

CONCURRENCY:

	Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
	single connection so every query sees the same database.

WAL MODE:

	File databases are opened with WAL (Write-Ahead Logging):
	- Multiple readers don't block
	- Single writer at a time
	- Better crash recovery

USAGE:

	store, err := sqlite.New("./data/xp-tracker.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	input, err := history.LoadInput(ctx, store, travelerID, calendar.Today())

MIGRATION:

	Schema is auto-migrated on New().

SEE ALSO:
  - history/store.go: Interface definition
  - history/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/qualification"
)

// Store implements history.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ history.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS travelers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		home_airport TEXT NOT NULL DEFAULT '',
		settings_json TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flights (
		traveler_id TEXT NOT NULL REFERENCES travelers(id) ON DELETE CASCADE,
		id TEXT NOT NULL,
		flight_date TEXT NOT NULL,
		route TEXT NOT NULL,
		airline TEXT NOT NULL DEFAULT '',
		cabin TEXT NOT NULL,
		xp INTEGER NOT NULL,
		saf_xp INTEGER NOT NULL DEFAULT 0,
		flight_number TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (traveler_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_flights_traveler_date
		ON flights(traveler_id, flight_date, id);

	CREATE TABLE IF NOT EXISTS manual_entries (
		traveler_id TEXT NOT NULL REFERENCES travelers(id) ON DELETE CASCADE,
		month TEXT NOT NULL,
		card_spend_xp INTEGER NOT NULL DEFAULT 0,
		saf_xp INTEGER NOT NULL DEFAULT 0,
		misc_xp INTEGER NOT NULL DEFAULT 0,
		correction INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (traveler_id, month)
	);

	CREATE TABLE IF NOT EXISTS status_snapshots (
		id TEXT PRIMARY KEY,
		traveler_id TEXT NOT NULL REFERENCES travelers(id) ON DELETE CASCADE,
		taken_on TEXT NOT NULL,
		actual_status TEXT NOT NULL,
		projected_status TEXT NOT NULL,
		actual_xp INTEGER NOT NULL,
		projected_xp INTEGER NOT NULL,
		rollover_in INTEGER NOT NULL DEFAULT 0,
		cycle_start TEXT NOT NULL,
		cycle_end TEXT NOT NULL,
		warning_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_traveler_day
		ON status_snapshots(traveler_id, taken_on);
	`

	_, err := s.db.Exec(schema)
	return err
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func travelerExists(ctx context.Context, q queryer, id string) error {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM travelers WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return &history.NotFoundError{Kind: "traveler", ID: id}
	}
	return nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &history.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

// =============================================================================
// TRAVELERS
// =============================================================================

// SaveTraveler inserts or updates a traveler. created_at is kept on update.
func (s *Store) SaveTraveler(ctx context.Context, t history.Traveler) error {
	if err := history.ValidateTraveler(t); err != nil {
		return err
	}
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO travelers (id, name, home_airport, settings_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			home_airport = excluded.home_airport,
			settings_json = excluded.settings_json
	`
	_, err = s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.HomeAirport, string(settings),
		createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetTraveler retrieves a traveler by ID.
func (s *Store) GetTraveler(ctx context.Context, id string) (*history.Traveler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, home_airport, settings_json, created_at FROM travelers WHERE id = ?",
		id,
	)
	t, err := scanTraveler(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &history.NotFoundError{Kind: "traveler", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTravelers returns all travelers ordered by name.
func (s *Store) ListTravelers(ctx context.Context) ([]history.Traveler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, home_airport, settings_json, created_at FROM travelers ORDER BY name COLLATE NOCASE, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var travelers []history.Traveler
	for rows.Next() {
		t, err := scanTraveler(rows)
		if err != nil {
			return nil, err
		}
		travelers = append(travelers, t)
	}
	return travelers, rows.Err()
}

// DeleteTraveler removes a traveler; foreign keys cascade to their history.
func (s *Store) DeleteTraveler(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM travelers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "traveler", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTraveler(row scanner) (history.Traveler, error) {
	var t history.Traveler
	var settings, createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.HomeAirport, &settings, &createdAt); err != nil {
		return history.Traveler{}, err
	}
	if err := json.Unmarshal([]byte(settings), &t.Settings); err != nil {
		return history.Traveler{}, fmt.Errorf("traveler %s: failed to decode settings: %w", t.ID, err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// =============================================================================
// FLIGHTS
// =============================================================================

const upsertFlight = `
	INSERT INTO flights (traveler_id, id, flight_date, route, airline, cabin, xp, saf_xp, flight_number)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(traveler_id, id) DO UPDATE SET
		flight_date = excluded.flight_date,
		route = excluded.route,
		airline = excluded.airline,
		cabin = excluded.cabin,
		xp = excluded.xp,
		saf_xp = excluded.saf_xp,
		flight_number = excluded.flight_number
`

func putFlight(ctx context.Context, q queryer, travelerID string, f qualification.FlightRecord) error {
	_, err := q.ExecContext(ctx, upsertFlight,
		travelerID, f.ID, f.Date, f.Route, f.Airline, f.Cabin.String(), f.XP, f.SafXP, f.FlightNumber,
	)
	return err
}

// SaveFlight inserts or replaces a flight.
func (s *Store) SaveFlight(ctx context.Context, travelerID string, f qualification.FlightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := travelerExists(ctx, s.db, travelerID); err != nil {
		return err
	}
	return putFlight(ctx, s.db, travelerID, f)
}

// ImportFlights writes every flight in one database transaction.
func (s *Store) ImportFlights(ctx context.Context, travelerID string, flights []qualification.FlightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := travelerExists(ctx, tx, travelerID); err != nil {
		return err
	}
	for _, f := range flights {
		if err := putFlight(ctx, tx, travelerID, f); err != nil {
			return fmt.Errorf("flight %s: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteFlight removes one flight.
func (s *Store) DeleteFlight(ctx context.Context, travelerID, flightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM flights WHERE traveler_id = ? AND id = ?", travelerID, flightID)
	if err != nil {
		return err
	}
	return requireAffected(res, "flight", flightID)
}

// ListFlights returns a traveler's flights ordered by date, then ID.
func (s *Store) ListFlights(ctx context.Context, travelerID string) ([]qualification.FlightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := travelerExists(ctx, s.db, travelerID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, flight_date, route, airline, cabin, xp, saf_xp, flight_number
		FROM flights
		WHERE traveler_id = ?
		ORDER BY flight_date ASC, id ASC
	`, travelerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := []qualification.FlightRecord{}
	for rows.Next() {
		var f qualification.FlightRecord
		var cabin string
		if err := rows.Scan(&f.ID, &f.Date, &f.Route, &f.Airline, &cabin, &f.XP, &f.SafXP, &f.FlightNumber); err != nil {
			return nil, err
		}
		// Unknown cabins stay CabinUnknown and surface as engine warnings.
		f.Cabin, _ = qualification.ParseCabinClass(cabin)
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// =============================================================================
// MANUAL LEDGER
// =============================================================================

// SaveManualEntry replaces the entry for a month.
func (s *Store) SaveManualEntry(ctx context.Context, travelerID string, month calendar.Month, e qualification.ManualMonthEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := travelerExists(ctx, s.db, travelerID); err != nil {
		return err
	}

	query := `
		INSERT INTO manual_entries (traveler_id, month, card_spend_xp, saf_xp, misc_xp, correction)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(traveler_id, month) DO UPDATE SET
			card_spend_xp = excluded.card_spend_xp,
			saf_xp = excluded.saf_xp,
			misc_xp = excluded.misc_xp,
			correction = excluded.correction
	`
	_, err := s.db.ExecContext(ctx, query,
		travelerID, month.String(), e.CardSpendXP, e.SafXP, e.MiscXP, e.Correction,
	)
	return err
}

// DeleteManualEntry removes the entry for a month.
func (s *Store) DeleteManualEntry(ctx context.Context, travelerID string, month calendar.Month) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM manual_entries WHERE traveler_id = ? AND month = ?",
		travelerID, month.String(),
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "manual entry", month.String())
}

// ListManualEntries returns the traveler's manual ledger.
func (s *Store) ListManualEntries(ctx context.Context, travelerID string) (qualification.ManualLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := travelerExists(ctx, s.db, travelerID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, card_spend_xp, saf_xp, misc_xp, correction
		FROM manual_entries
		WHERE traveler_id = ?
		ORDER BY month
	`, travelerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make(qualification.ManualLedger)
	for rows.Next() {
		var key string
		var e qualification.ManualMonthEntry
		if err := rows.Scan(&key, &e.CardSpendXP, &e.SafXP, &e.MiscXP, &e.Correction); err != nil {
			return nil, err
		}
		month, err := calendar.ParseMonth(key)
		if err != nil {
			return nil, fmt.Errorf("manual entry %q: %w", key, err)
		}
		ledger[month] = e
	}
	return ledger, rows.Err()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// SaveSnapshot upserts the snapshot for (traveler, day). An existing row
// keeps its ID.
func (s *Store) SaveSnapshot(ctx context.Context, snap history.StatusSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := travelerExists(ctx, s.db, snap.TravelerID); err != nil {
		return err
	}

	query := `
		INSERT INTO status_snapshots (
			id, traveler_id, taken_on, actual_status, projected_status, actual_xp, projected_xp,
			rollover_in, cycle_start, cycle_end, warning_count, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(traveler_id, taken_on) DO UPDATE SET
			actual_status = excluded.actual_status,
			projected_status = excluded.projected_status,
			actual_xp = excluded.actual_xp,
			projected_xp = excluded.projected_xp,
			rollover_in = excluded.rollover_in,
			cycle_start = excluded.cycle_start,
			cycle_end = excluded.cycle_end,
			warning_count = excluded.warning_count,
			created_at = excluded.created_at
	`
	_, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.TravelerID, snap.TakenOn.String(),
		snap.ActualStatus.String(), snap.ProjectedStatus.String(),
		snap.ActualXP, snap.ProjectedXP, snap.RolloverIn,
		snap.CycleStart.String(), snap.CycleEnd.String(),
		snap.WarningCount, snap.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const selectSnapshot = `
	SELECT id, traveler_id, taken_on, actual_status, projected_status, actual_xp, projected_xp,
	       rollover_in, cycle_start, cycle_end, warning_count, created_at
	FROM status_snapshots
`

// ListSnapshots returns a traveler's snapshots oldest first.
func (s *Store) ListSnapshots(ctx context.Context, travelerID string) ([]history.StatusSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectSnapshot+" WHERE traveler_id = ? ORDER BY taken_on ASC", travelerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := []history.StatusSnapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// LatestSnapshot returns the most recent snapshot, or nil if none exists.
func (s *Store) LatestSnapshot(ctx context.Context, travelerID string) (*history.StatusSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectSnapshot+" WHERE traveler_id = ? ORDER BY taken_on DESC LIMIT 1", travelerID)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func scanSnapshot(row scanner) (history.StatusSnapshot, error) {
	var snap history.StatusSnapshot
	var takenOn, actual, projected, cycleStart, cycleEnd, createdAt string
	err := row.Scan(&snap.ID, &snap.TravelerID, &takenOn, &actual, &projected,
		&snap.ActualXP, &snap.ProjectedXP, &snap.RolloverIn,
		&cycleStart, &cycleEnd, &snap.WarningCount, &createdAt)
	if err != nil {
		return history.StatusSnapshot{}, err
	}

	if snap.TakenOn, err = calendar.ParseDate(takenOn); err != nil {
		return history.StatusSnapshot{}, err
	}
	snap.CycleStart, _ = calendar.ParseDate(cycleStart)
	snap.CycleEnd, _ = calendar.ParseDate(cycleEnd)
	snap.ActualStatus, _ = qualification.ParseStatusLevel(actual)
	snap.ProjectedStatus, _ = qualification.ParseStatusLevel(projected)
	snap.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return snap, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"status_snapshots", "manual_entries", "flights", "travelers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports row counts per table. Served by /health.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int)
	for _, table := range []string{"travelers", "flights", "manual_entries", "status_snapshots"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		stats[table] = n
	}
	return stats, nil
}
