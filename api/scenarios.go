/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	traveler histories. Each scenario creates a traveler, flights (with XP
	resolved from the point table) and manual ledger months that
	demonstrate one part of the cycle engine.

AVAILABLE SCENARIOS:

	new-member:       No settings; the cycle is inferred from the first flight
	level-up-chain:   Two level-ups in one year, each chaining a new cycle
	statement-import: Cycle start and rollover taken from an airline statement

All scenario dates are fixed in 2025 and 2026. Query with ?today=2025-12-01
for the intended view.

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create traveler with settings
 3. Add flights through the same validation as POST /flights
 4. Add manual ledger months

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "level-up-chain"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: buildFlight, shared by scenarios and the flights endpoints
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/factory"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const (
	ScenarioNewMember       = "new-member"
	ScenarioLevelUpChain    = "level-up-chain"
	ScenarioStatementImport = "statement-import"
)

var scenarios = []ScenarioDTO{
	{
		ID:          ScenarioNewMember,
		Name:        "New Member",
		Description: "First flights, no settings: cycle inferred from the earliest flight",
	},
	{
		ID:          ScenarioLevelUpChain,
		Name:        "Level-Up Chain",
		Description: "Explorer to Silver to Gold in one year, rollover carried into each chained cycle",
	},
	{
		ID:          ScenarioStatementImport,
		Name:        "Statement Import",
		Description: "Gold member whose cycle start and rollover come from an airline statement",
	},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.loadScenario(r.Context(), req.ScenarioID); err != nil {
		if _, known := findScenario(req.ScenarioID); !known {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	h.Logger.Info("database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func findScenario(id string) (ScenarioDTO, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return ScenarioDTO{}, false
}

func (h *Handler) loadScenario(ctx context.Context, id string) error {
	if _, ok := findScenario(id); !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	var err error
	switch id {
	case ScenarioNewMember:
		err = h.loadNewMemberScenario(ctx)
	case ScenarioLevelUpChain:
		err = h.loadLevelUpChainScenario(ctx)
	case ScenarioStatementImport:
		err = h.loadStatementImportScenario(ctx)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// seedTraveler writes one traveler with its flights and manual months.
func (h *Handler) seedTraveler(ctx context.Context, t history.Traveler, flights []AddFlightRequest, manual map[string]qualification.ManualMonthEntry) error {
	t.CreatedAt = h.Now().UTC()
	if err := h.Store.SaveTraveler(ctx, t); err != nil {
		return fmt.Errorf("failed to create traveler: %w", err)
	}

	records := make([]qualification.FlightRecord, 0, len(flights))
	for _, req := range flights {
		f, _, err := h.buildFlight(req)
		if err != nil {
			return fmt.Errorf("flight %s: %w", req.ID, err)
		}
		records = append(records, f)
	}
	if err := h.Store.ImportFlights(ctx, t.ID, records); err != nil {
		return fmt.Errorf("failed to import flights: %w", err)
	}

	for key, entry := range manual {
		month, err := calendar.ParseMonth(key)
		if err != nil {
			return err
		}
		if err := h.Store.SaveManualEntry(ctx, t.ID, month, entry); err != nil {
			return fmt.Errorf("failed to save manual entry %s: %w", key, err)
		}
	}
	return nil
}

// New member: 20 + 24 XP flown, 10 XP card spend, a domestic hop booked for
// January. Explorer with 54 actual and 56 projected XP.
func (h *Handler) loadNewMemberScenario(ctx context.Context) error {
	traveler := history.Traveler{
		ID:          "trv-001",
		Name:        "Lena Vos",
		HomeAirport: "AMS",
	}
	flights := []AddFlightRequest{
		{ID: "nm-1", Date: "2025-03-14", Route: "AMS-JFK-AMS", Airline: "KL", Cabin: "economy", FlightNumber: "KL641"},
		{ID: "nm-2", Date: "2025-06-02", Route: "CDG-DXB", Airline: "AF", Cabin: "business", FlightNumber: "AF662"},
		{ID: "nm-3", Date: "2026-01-20", Route: "CDG-NCE", Airline: "AF", Cabin: "economy", FlightNumber: "AF7700"},
	}
	manual := map[string]qualification.ManualMonthEntry{
		"2025-09": {CardSpendXP: 10},
	}
	return h.seedTraveler(ctx, traveler, flights, manual)
}

// Level-up chain: 60 + 72 XP reaches Silver in April with 32 XP rolled
// over; 120 + 60 more reaches Gold in October.
func (h *Handler) loadLevelUpChainScenario(ctx context.Context) error {
	settings, err := factory.SettingsFromJSON(factory.SettingsJSON{
		StartingStatus: "explorer",
		CycleStart:     "2025-01-01",
	})
	if err != nil {
		return err
	}
	traveler := history.Traveler{
		ID:          "trv-002",
		Name:        "Marc Aubert",
		HomeAirport: "CDG",
		Settings:    settings,
	}
	flights := []AddFlightRequest{
		{ID: "lc-1", Date: "2025-02-10", Route: "AMS-JFK-AMS", Airline: "KL", Cabin: "business"},
		{ID: "lc-2", Date: "2025-04-15", Route: "CDG-SIN-CDG", Airline: "AF", Cabin: "business"},
		{ID: "lc-3", Date: "2025-08-20", Route: "CDG-SIN-CDG", Airline: "AF", Cabin: "first"},
		{ID: "lc-4", Date: "2025-10-05", Route: "AMS-JFK-AMS", Airline: "KL", Cabin: "business"},
	}
	return h.seedTraveler(ctx, traveler, flights, nil)
}

// Statement import: the statement says the cycle started in April 2025 with
// 45 XP carried over. A March flight predates it and is reported.
func (h *Handler) loadStatementImportScenario(ctx context.Context) error {
	settings, err := factory.SettingsFromJSON(factory.SettingsJSON{
		StartingStatus: "gold",
		Override: &factory.OverrideJSON{
			StartMonth: "2025-04",
			RolloverXP: 45,
		},
	})
	if err != nil {
		return err
	}
	traveler := history.Traveler{
		ID:          "trv-003",
		Name:        "Sofia Marquez",
		HomeAirport: "MAD",
		Settings:    settings,
	}
	flights := []AddFlightRequest{
		{ID: "si-1", Date: "2025-03-10", Route: "AMS-LHR", Airline: "KL", Cabin: "economy"},
		{ID: "si-2", Date: "2025-06-12", Route: "CDG-JFK-CDG", Airline: "AF", Cabin: "premium"},
		{ID: "si-3", Date: "2025-11-03", Route: "MAD-CDG", Airline: "AF", Cabin: "economy", XP: 5, SafXP: 2},
	}
	manual := map[string]qualification.ManualMonthEntry{
		"2025-05": {CardSpendXP: 20},
		"2025-07": {MiscXP: 5},
		"2025-10": {Correction: -3},
	}
	return h.seedTraveler(ctx, traveler, flights, manual)
}
