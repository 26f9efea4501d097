/*
handlers.go - HTTP API handlers for the XP tracker

PURPOSE:

	Exposes the qualification engine via REST API. Handles HTTP
	request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:

	Travelers:
	  GET    /api/travelers                         List travelers
	  POST   /api/travelers                         Create traveler
	  GET    /api/travelers/{id}                    Get traveler
	  DELETE /api/travelers/{id}                    Delete traveler and history
	  PUT    /api/travelers/{id}/settings           Replace qualification settings

	Activity:
	  GET    /api/travelers/{id}/flights            List flights
	  POST   /api/travelers/{id}/flights            Add flight (XP resolved if omitted)
	  POST   /api/travelers/{id}/flights/import     Atomic batch import
	  DELETE /api/travelers/{id}/flights/{flightID} Remove flight
	  GET    /api/travelers/{id}/ledger             Manual ledger + monthly activity
	  PUT    /api/travelers/{id}/ledger/{month}     Upsert manual month (YYYY-MM)
	  DELETE /api/travelers/{id}/ledger/{month}     Remove manual month

	Computed (all accept ?today=YYYY-MM-DD):
	  GET    /api/travelers/{id}/cycles             Chained qualification cycles
	  GET    /api/travelers/{id}/status             Active cycle progress
	  GET    /api/travelers/{id}/stats              Yearly + lifetime analytics
	  GET    /api/travelers/{id}/snapshots          Status history
	  POST   /api/travelers/{id}/snapshots          Record today's snapshot

	Reference:
	  GET    /api/resolve?route=AMS-JFK&cabin=business
	  GET    /api/program

	Scenarios:
	  GET    /api/scenarios                         List demo scenarios
	  POST   /api/scenarios/load                    Load a demo scenario

REQUEST FLOW:
 1. Parse HTTP request
 2. Validate input
 3. Load the traveler's history and run the engine
 4. Serialize response
 5. Handle errors

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Validation errors, invalid input
	- 404: Resource not found
	- 500: Internal errors
	Dirty data inside a traveler's history is never an error: it comes back
	as warnings next to the computed result.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/factory"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/logging"
	"github.com/warp/xp-tracker/pointtable"
	"github.com/warp/xp-tracker/qualification"
)

var errInvalidRequest = errors.New("invalid request")

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store    history.Store
	Engine   *qualification.Engine
	Resolver *pointtable.Resolver
	Logger   logging.Logger
	Metrics  *Metrics

	// Now is the clock behind "today" when a request does not pin one.
	Now func() time.Time

	// Scheduler is reported by /health when set.
	Scheduler *SnapshotScheduler

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler. A nil logger discards logs and a nil
// resolver uses the built-in point table.
func NewHandler(store history.Store, engine *qualification.Engine, resolver *pointtable.Resolver, logger logging.Logger, metrics *Metrics) *Handler {
	if resolver == nil {
		resolver = pointtable.NewResolver(nil, nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		Store:    store,
		Engine:   engine,
		Resolver: resolver,
		Logger:   logger,
		Metrics:  metrics,
		Now:      time.Now,
	}
}

// today returns the ?today= override or the clock's date.
func (h *Handler) today(r *http.Request) (calendar.Date, error) {
	if raw := r.URL.Query().Get("today"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return calendar.Date{}, fmt.Errorf("%w: today: %v", errInvalidRequest, err)
		}
		return d, nil
	}
	return calendar.DateOf(h.Now()), nil
}

// compute loads a traveler's history and runs the engine on it.
func (h *Handler) compute(ctx context.Context, travelerID string, today calendar.Date) (qualification.Result, error) {
	input, err := history.LoadInput(ctx, h.Store, travelerID, today)
	if err != nil {
		return qualification.Result{}, err
	}

	start := time.Now()
	result := h.Engine.Compute(input)
	h.Metrics.ObserveComputation(time.Since(start), result.Warnings)

	h.Logger.Debug("computed qualification cycles",
		"traveler_id", travelerID,
		"today", today.String(),
		"cycles", len(result.Cycles),
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// =============================================================================
// TRAVELER HANDLERS
// =============================================================================

// ListTravelers returns all travelers.
// GET /api/travelers
func (h *Handler) ListTravelers(w http.ResponseWriter, r *http.Request) {
	travelers, err := h.Store.ListTravelers(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list travelers", err)
		return
	}

	dtos := make([]TravelerDTO, 0, len(travelers))
	for _, t := range travelers {
		dtos = append(dtos, toTravelerDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTraveler creates a new traveler.
// POST /api/travelers
func (h *Handler) CreateTraveler(w http.ResponseWriter, r *http.Request) {
	var req CreateTravelerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	t := history.Traveler{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		HomeAirport: strings.ToUpper(strings.TrimSpace(req.HomeAirport)),
		CreatedAt:   h.Now().UTC(),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if req.Settings != nil {
		settings, err := factory.SettingsFromJSON(*req.Settings)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid settings", err)
			return
		}
		t.Settings = settings
	}

	if err := h.Store.SaveTraveler(r.Context(), t); err != nil {
		writeStoreError(w, "Failed to create traveler", err)
		return
	}
	h.Logger.Info("traveler created", "traveler_id", t.ID)
	writeJSON(w, http.StatusCreated, toTravelerDTO(t))
}

// GetTraveler returns a single traveler.
// GET /api/travelers/{id}
func (h *Handler) GetTraveler(w http.ResponseWriter, r *http.Request) {
	t, err := h.Store.GetTraveler(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get traveler", err)
		return
	}
	writeJSON(w, http.StatusOK, toTravelerDTO(*t))
}

// DeleteTraveler removes a traveler with all flights, ledger entries and
// snapshots.
// DELETE /api/travelers/{id}
func (h *Handler) DeleteTraveler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteTraveler(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to delete traveler", err)
		return
	}
	h.Logger.Info("traveler deleted", "traveler_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings replaces the traveler's qualification settings.
// PUT /api/travelers/{id}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req factory.SettingsJSON
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings, err := factory.SettingsFromJSON(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	t, err := h.Store.GetTraveler(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get traveler", err)
		return
	}
	t.Settings = settings
	if err := h.Store.SaveTraveler(ctx, *t); err != nil {
		writeStoreError(w, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toTravelerDTO(*t))
}

// =============================================================================
// FLIGHT HANDLERS
// =============================================================================

// buildFlight validates a flight request. When XP is zero and a route is
// given, XP comes from the point table.
func (h *Handler) buildFlight(req AddFlightRequest) (qualification.FlightRecord, *pointtable.Resolution, error) {
	if _, err := calendar.ParseDate(req.Date); err != nil {
		return qualification.FlightRecord{}, nil, fmt.Errorf("%w: date: %v", errInvalidRequest, err)
	}
	cabin, err := qualification.ParseCabinClass(req.Cabin)
	if err != nil {
		return qualification.FlightRecord{}, nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if req.XP < 0 || req.SafXP < 0 {
		return qualification.FlightRecord{}, nil, fmt.Errorf("%w: xp must not be negative", errInvalidRequest)
	}

	f := qualification.FlightRecord{
		ID:           strings.TrimSpace(req.ID),
		Date:         req.Date,
		Route:        strings.ToUpper(strings.TrimSpace(req.Route)),
		Airline:      strings.ToUpper(strings.TrimSpace(req.Airline)),
		Cabin:        cabin,
		XP:           req.XP,
		SafXP:        req.SafXP,
		FlightNumber: strings.TrimSpace(req.FlightNumber),
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	if f.XP > 0 || f.Route == "" {
		return f, nil, nil
	}
	res, err := h.Resolver.ResolveRoute(f.Route, cabin)
	if err != nil {
		return qualification.FlightRecord{}, nil, err
	}
	f.XP = res.XP
	return f, &res, nil
}

// ListFlights returns a traveler's flights ordered by date.
// GET /api/travelers/{id}/flights
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetTraveler(ctx, id); err != nil {
		writeStoreError(w, "Failed to get traveler", err)
		return
	}
	flights, err := h.Store.ListFlights(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to list flights", err)
		return
	}
	if flights == nil {
		flights = []qualification.FlightRecord{}
	}
	writeJSON(w, http.StatusOK, flights)
}

// AddFlight records one flight.
// POST /api/travelers/{id}/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var req AddFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	f, res, err := h.buildFlight(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid flight", err)
		return
	}
	if err := h.Store.SaveFlight(r.Context(), chi.URLParam(r, "id"), f); err != nil {
		writeStoreError(w, "Failed to save flight", err)
		return
	}
	writeJSON(w, http.StatusCreated, FlightDTO{FlightRecord: f, Resolution: res})
}

// ImportFlights saves a batch of flights. One invalid flight rejects the
// whole batch.
// POST /api/travelers/{id}/flights/import
func (h *Handler) ImportFlights(w http.ResponseWriter, r *http.Request) {
	var req ImportFlightsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Flights) == 0 {
		writeError(w, http.StatusBadRequest, "No flights to import", nil)
		return
	}

	resp := ImportFlightsResponse{Flights: make([]FlightDTO, 0, len(req.Flights))}
	flights := make([]qualification.FlightRecord, 0, len(req.Flights))
	for i, fr := range req.Flights {
		f, res, err := h.buildFlight(fr)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid flight at index %d", i), err)
			return
		}
		if res != nil {
			resp.Resolved++
		}
		flights = append(flights, f)
		resp.Flights = append(resp.Flights, FlightDTO{FlightRecord: f, Resolution: res})
	}

	id := chi.URLParam(r, "id")
	if err := h.Store.ImportFlights(r.Context(), id, flights); err != nil {
		writeStoreError(w, "Failed to import flights", err)
		return
	}
	resp.Imported = len(flights)
	h.Logger.Info("flights imported", "traveler_id", id, "count", resp.Imported, "resolved", resp.Resolved)
	writeJSON(w, http.StatusCreated, resp)
}

// DeleteFlight removes one flight.
// DELETE /api/travelers/{id}/flights/{flightID}
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteFlight(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "flightID")); err != nil {
		writeStoreError(w, "Failed to delete flight", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MANUAL LEDGER HANDLERS
// =============================================================================

// GetLedger returns the stored manual months and the computed monthly
// activity.
// GET /api/travelers/{id}/ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	today, err := h.today(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today", err)
		return
	}
	input, err := history.LoadInput(ctx, h.Store, id, today)
	if err != nil {
		writeStoreError(w, "Failed to load ledger", err)
		return
	}
	ledger := qualification.BuildLedger(input.Flights, input.Manual, today)

	manual := make([]ManualEntryDTO, 0, len(input.Manual))
	for m, e := range input.Manual {
		manual = append(manual, ManualEntryDTO{Month: m, ManualMonthEntry: e})
	}
	sort.Slice(manual, func(i, j int) bool { return manual[i].Month.Before(manual[j].Month) })

	resp := LedgerResponse{
		Manual:   manual,
		Months:   ledger.Months,
		Warnings: ledger.Warnings,
	}
	if resp.Months == nil {
		resp.Months = []qualification.MonthActivity{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []qualification.Warning{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutLedgerMonth upserts one manual month. Negative non-correction fields are
// accepted and reported as engine warnings, matching statement imports.
// PUT /api/travelers/{id}/ledger/{month}
func (h *Handler) PutLedgerMonth(w http.ResponseWriter, r *http.Request) {
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	var entry qualification.ManualMonthEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.SaveManualEntry(r.Context(), chi.URLParam(r, "id"), month, entry); err != nil {
		writeStoreError(w, "Failed to save manual entry", err)
		return
	}
	writeJSON(w, http.StatusOK, ManualEntryDTO{Month: month, ManualMonthEntry: entry})
}

// DeleteLedgerMonth removes one manual month.
// DELETE /api/travelers/{id}/ledger/{month}
func (h *Handler) DeleteLedgerMonth(w http.ResponseWriter, r *http.Request) {
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	if err := h.Store.DeleteManualEntry(r.Context(), chi.URLParam(r, "id"), month); err != nil {
		writeStoreError(w, "Failed to delete manual entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPUTED VIEWS
// =============================================================================

// GetCycles returns every chained qualification cycle.
// GET /api/travelers/{id}/cycles
func (h *Handler) GetCycles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	today, err := h.today(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today", err)
		return
	}
	result, err := h.compute(r.Context(), id, today)
	if err != nil {
		writeStoreError(w, "Failed to compute cycles", err)
		return
	}

	resp := CyclesResponse{
		TravelerID: id,
		Today:      result.Today,
		Program:    result.Program,
		Cycles:     result.Cycles,
		Warnings:   nonNilWarnings(result.Warnings),
	}
	if active, ok := result.ActiveCycle(); ok {
		idx := active.Index
		resp.ActiveIndex = &idx
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStatus returns the current cycle's progress.
// GET /api/travelers/{id}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	today, err := h.today(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today", err)
		return
	}
	result, err := h.compute(r.Context(), id, today)
	if err != nil {
		writeStoreError(w, "Failed to compute status", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(id, result))
}

func toStatusResponse(id string, result qualification.Result) StatusResponse {
	resp := StatusResponse{
		TravelerID: id,
		Today:      result.Today,
		Warnings:   nonNilWarnings(result.Warnings),
	}
	cycle, ok := result.CurrentCycle()
	if !ok {
		return resp
	}
	progress := cycle.Progress
	resp.HasData = true
	resp.Headline = progress.Headline()
	resp.Progress = &progress
	resp.CycleStart = &cycle.StartDate
	resp.CycleEnd = &cycle.EndDate
	resp.RolloverIn = cycle.RolloverIn
	resp.State = cycle.State
	return resp
}

// GetStats returns yearly summaries and lifetime totals.
// GET /api/travelers/{id}/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	today, err := h.today(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today", err)
		return
	}
	result, err := h.compute(r.Context(), id, today)
	if err != nil {
		writeStoreError(w, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		TravelerID: id,
		Today:      result.Today,
		Years:      result.Years,
		Lifetime:   result.Lifetime,
	})
}

// =============================================================================
// SNAPSHOT HANDLERS
// =============================================================================

// ListSnapshots returns the traveler's status history, oldest first.
// GET /api/travelers/{id}/snapshots
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetTraveler(ctx, id); err != nil {
		writeStoreError(w, "Failed to get traveler", err)
		return
	}
	snaps, err := h.Store.ListSnapshots(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to list snapshots", err)
		return
	}
	if snaps == nil {
		snaps = []history.StatusSnapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// TakeSnapshot records the status for today, replacing any snapshot already
// taken that day.
// POST /api/travelers/{id}/snapshots
func (h *Handler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	today, err := h.today(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today", err)
		return
	}

	snap, ok, err := h.snapshot(r.Context(), id, today)
	if err != nil {
		writeStoreError(w, "Failed to take snapshot", err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Traveler has no qualification data yet", nil)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// snapshot computes and stores one snapshot. ok is false when the traveler
// has no cycles.
func (h *Handler) snapshot(ctx context.Context, travelerID string, today calendar.Date) (history.StatusSnapshot, bool, error) {
	result, err := h.compute(ctx, travelerID, today)
	if err != nil {
		return history.StatusSnapshot{}, false, err
	}
	return h.saveSnapshot(ctx, travelerID, result)
}

// saveSnapshot stores the snapshot of an already computed result.
func (h *Handler) saveSnapshot(ctx context.Context, travelerID string, result qualification.Result) (history.StatusSnapshot, bool, error) {
	snap, ok := history.NewSnapshot(travelerID, result, h.Now())
	if !ok {
		return history.StatusSnapshot{}, false, nil
	}
	if err := h.Store.SaveSnapshot(ctx, snap); err != nil {
		return history.StatusSnapshot{}, false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if h.Metrics != nil {
		h.Metrics.SnapshotsSaved.Inc()
	}
	return snap, true, nil
}

// =============================================================================
// REFERENCE HANDLERS
// =============================================================================

// ResolveRoute returns distance, band and XP for a route and cabin.
// GET /api/resolve?route=AMS-JFK-AMS&cabin=business
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cabinParam := q.Get("cabin")
	if cabinParam == "" {
		cabinParam = "economy"
	}
	cabin, err := qualification.ParseCabinClass(cabinParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cabin", err)
		return
	}

	res, err := h.Resolver.ResolveRoute(q.Get("route"), cabin)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to resolve route", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetProgram returns the program the engine runs with.
// GET /api/program
func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProgramDTO{
		Config:  factory.NewProgramFactory().ToJSON(h.Engine.Program()),
		Presets: factory.PresetNames(),
	})
}

// Health reports liveness, and store reachability when the store can ping.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	resp := HealthResponse{Status: "ok"}
	if st, ok := h.Store.(interface {
		Stats(context.Context) (map[string]int, error)
	}); ok {
		tables, err := st.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
		resp.Tables = tables
	}
	if h.Scheduler != nil {
		st := h.Scheduler.Status()
		resp.Snapshots = &st
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store and validation errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, history.ErrInvalidTraveler),
		errors.Is(err, errInvalidRequest):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func nonNilWarnings(ws []qualification.Warning) []qualification.Warning {
	if ws == nil {
		return []qualification.Warning{}
	}
	return ws
}
