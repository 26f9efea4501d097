/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication. Engine results
	(cycles, rows, yearly summaries) are already plain data with JSON tags and
	are returned as-is; these types cover the requests and the envelopes
	around them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:

	Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/settings.go: SettingsJSON type
*/
package api

import (
	"time"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/factory"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/pointtable"
	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// TRAVELERS
// =============================================================================

// TravelerDTO represents a traveler in API responses.
type TravelerDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	HomeAirport string               `json:"home_airport,omitempty"`
	Settings    factory.SettingsJSON `json:"settings"`
	CreatedAt   string               `json:"created_at,omitempty"`
}

// CreateTravelerRequest is the request to create a traveler. ID is optional
// and generated when empty.
type CreateTravelerRequest struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	HomeAirport string                `json:"home_airport"`
	Settings    *factory.SettingsJSON `json:"settings"`
}

func toTravelerDTO(t history.Traveler) TravelerDTO {
	dto := TravelerDTO{
		ID:          t.ID,
		Name:        t.Name,
		HomeAirport: t.HomeAirport,
		Settings:    factory.SettingsToJSON(t.Settings),
	}
	if !t.CreatedAt.IsZero() {
		dto.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// FLIGHTS & MANUAL LEDGER
// =============================================================================

// AddFlightRequest records one flight. When XP is omitted (zero) the route is
// resolved through the point table.
type AddFlightRequest struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Route        string `json:"route"`
	Airline      string `json:"airline"`
	Cabin        string `json:"cabin"`
	XP           int    `json:"xp"`
	SafXP        int    `json:"saf_xp"`
	FlightNumber string `json:"flight_number"`
}

// FlightDTO is a stored flight plus how its XP was obtained.
type FlightDTO struct {
	qualification.FlightRecord
	Resolution *pointtable.Resolution `json:"resolution,omitempty"`
}

// ImportFlightsRequest replaces-or-inserts a batch of flights atomically.
type ImportFlightsRequest struct {
	Flights []AddFlightRequest `json:"flights"`
}

// ImportFlightsResponse reports the outcome of a batch import.
type ImportFlightsResponse struct {
	Imported int         `json:"imported"`
	Resolved int         `json:"resolved"`
	Flights  []FlightDTO `json:"flights"`
}

// ManualEntryDTO is one month of the manual ledger.
type ManualEntryDTO struct {
	Month calendar.Month `json:"month"`
	qualification.ManualMonthEntry
}

// LedgerResponse is the stored manual ledger next to the computed monthly
// activity.
type LedgerResponse struct {
	Manual   []ManualEntryDTO              `json:"manual"`
	Months   []qualification.MonthActivity `json:"months"`
	Warnings []qualification.Warning       `json:"warnings"`
}

// =============================================================================
// COMPUTED VIEWS
// =============================================================================

// CyclesResponse wraps the chained cycles for a traveler.
type CyclesResponse struct {
	TravelerID  string                  `json:"traveler_id"`
	Today       calendar.Date           `json:"today"`
	Program     string                  `json:"program"`
	ActiveIndex *int                    `json:"active_index,omitempty"`
	Cycles      []qualification.Cycle   `json:"cycles"`
	Warnings    []qualification.Warning `json:"warnings"`
}

// StatusResponse is the headline progress of the active cycle.
type StatusResponse struct {
	TravelerID string                        `json:"traveler_id"`
	Today      calendar.Date                 `json:"today"`
	HasData    bool                          `json:"has_data"`
	Headline   string                        `json:"headline,omitempty"`
	Progress   *qualification.StatusProgress `json:"progress,omitempty"`
	CycleStart *calendar.Date                `json:"cycle_start,omitempty"`
	CycleEnd   *calendar.Date                `json:"cycle_end,omitempty"`
	RolloverIn int                           `json:"rollover_in"`
	State      qualification.CycleState      `json:"state,omitempty"`
	Warnings   []qualification.Warning       `json:"warnings"`
}

// StatsResponse carries the yearly and lifetime analytics.
type StatsResponse struct {
	TravelerID string                      `json:"traveler_id"`
	Today      calendar.Date               `json:"today"`
	Years      []qualification.YearSummary `json:"years"`
	Lifetime   qualification.LifetimeStats `json:"lifetime"`
}

// ProgramDTO is the active program.
type ProgramDTO struct {
	Config  factory.ProgramJSON `json:"config"`
	Presets []string            `json:"presets"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// COMMON
// =============================================================================

// HealthResponse reports liveness and, for stores that track it, row counts
// per table.
type HealthResponse struct {
	Status    string           `json:"status"`
	Tables    map[string]int   `json:"tables,omitempty"`
	Snapshots *SchedulerStatus `json:"snapshots,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
