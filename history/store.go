/*
Package history is the persistence contract around the engine.

PURPOSE:

	Defines what the API and scheduler need from storage: travelers with
	their qualification settings, their flights, their manual ledger and the
	daily status snapshots derived from engine results. The engine itself never
	touches a Store; LoadInput bridges the two.

KEY INTERFACES:

	Store: travelers, flights, manual entries, snapshots

FULL RECOMPUTATION:

	Nothing derived from the engine (cycles, rows, rollover) is persisted.
	Snapshots are a write-only audit of "what status did we show on day X";
	they are never read back into a computation.

ATOMIC IMPORTS:

	ImportFlights writes a batch all-or-nothing, so a statement import never
	leaves half a year of flights behind.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - history/memory/memory.go: in-memory, for tests and demos

SEE ALSO:
  - qualification/engine.go: consumer of LoadInput
  - api/scheduler.go: writer of snapshots
*/
package history

import (
	"context"
	"time"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// RECORDS
// =============================================================================

// Traveler is one frequent-flyer account.
type Traveler struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	HomeAirport string                 `json:"home_airport,omitempty"`
	Settings    qualification.Settings `json:"settings"`
	CreatedAt   time.Time              `json:"created_at"`
}

// StatusSnapshot records the status shown for a traveler on one day.
type StatusSnapshot struct {
	ID              string                    `json:"id"`
	TravelerID      string                    `json:"traveler_id"`
	TakenOn         calendar.Date             `json:"taken_on"`
	ActualStatus    qualification.StatusLevel `json:"actual_status"`
	ProjectedStatus qualification.StatusLevel `json:"projected_status"`
	ActualXP        int                       `json:"actual_xp"`
	ProjectedXP     int                       `json:"projected_xp"`
	RolloverIn      int                       `json:"rollover_in"`
	CycleStart      calendar.Date             `json:"cycle_start"`
	CycleEnd        calendar.Date             `json:"cycle_end"`
	WarningCount    int                       `json:"warning_count"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// =============================================================================
// STORE - Interface for traveler history persistence
// =============================================================================

// Store persists everything the engine needs as input.
//
// Get methods return ErrNotFound for missing records. Deletes of missing
// records also return ErrNotFound.
type Store interface {
	// SaveTraveler inserts or updates a traveler, settings included.
	SaveTraveler(ctx context.Context, t Traveler) error
	GetTraveler(ctx context.Context, id string) (*Traveler, error)
	ListTravelers(ctx context.Context) ([]Traveler, error)

	// DeleteTraveler removes the traveler and all their history.
	DeleteTraveler(ctx context.Context, id string) error

	// SaveFlight inserts or replaces a flight by ID.
	SaveFlight(ctx context.Context, travelerID string, f qualification.FlightRecord) error

	// ImportFlights saves a batch atomically. Either all flights are written
	// or none are.
	ImportFlights(ctx context.Context, travelerID string, flights []qualification.FlightRecord) error
	DeleteFlight(ctx context.Context, travelerID, flightID string) error

	// ListFlights returns flights ordered by date, then ID.
	ListFlights(ctx context.Context, travelerID string) ([]qualification.FlightRecord, error)

	SaveManualEntry(ctx context.Context, travelerID string, month calendar.Month, e qualification.ManualMonthEntry) error
	DeleteManualEntry(ctx context.Context, travelerID string, month calendar.Month) error
	ListManualEntries(ctx context.Context, travelerID string) (qualification.ManualLedger, error)

	// SaveSnapshot upserts on (traveler, day): one snapshot per day.
	SaveSnapshot(ctx context.Context, s StatusSnapshot) error

	// ListSnapshots returns snapshots oldest first.
	ListSnapshots(ctx context.Context, travelerID string) ([]StatusSnapshot, error)

	// LatestSnapshot returns nil, nil when the traveler has none.
	LatestSnapshot(ctx context.Context, travelerID string) (*StatusSnapshot, error)

	// Reset clears all data (for testing/demo).
	Reset(ctx context.Context) error
}
