// Package memory provides an in-memory history.Store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	travelers map[string]history.Traveler
	flights   map[string]map[string]qualification.FlightRecord
	manual    map[string]qualification.ManualLedger
	snapshots map[string][]history.StatusSnapshot
}

var _ history.Store = (*Memory)(nil)

func New() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.travelers = make(map[string]history.Traveler)
	m.flights = make(map[string]map[string]qualification.FlightRecord)
	m.manual = make(map[string]qualification.ManualLedger)
	m.snapshots = make(map[string][]history.StatusSnapshot)
}

func (m *Memory) requireTravelerLocked(id string) error {
	if _, ok := m.travelers[id]; !ok {
		return &history.NotFoundError{Kind: "traveler", ID: id}
	}
	return nil
}

// =============================================================================
// TRAVELERS
// =============================================================================

func (m *Memory) SaveTraveler(_ context.Context, t history.Traveler) error {
	if err := history.ValidateTraveler(t); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.travelers[t.ID]; ok && t.CreatedAt.IsZero() {
		t.CreatedAt = existing.CreatedAt
	}
	t.Settings = cloneSettings(t.Settings)
	m.travelers[t.ID] = t
	return nil
}

func (m *Memory) GetTraveler(_ context.Context, id string) (*history.Traveler, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.travelers[id]
	if !ok {
		return nil, &history.NotFoundError{Kind: "traveler", ID: id}
	}
	t.Settings = cloneSettings(t.Settings)
	return &t, nil
}

func (m *Memory) ListTravelers(_ context.Context) ([]history.Traveler, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]history.Traveler, 0, len(m.travelers))
	for _, t := range m.travelers {
		t.Settings = cloneSettings(t.Settings)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteTraveler(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireTravelerLocked(id); err != nil {
		return err
	}
	delete(m.travelers, id)
	delete(m.flights, id)
	delete(m.manual, id)
	delete(m.snapshots, id)
	return nil
}

// =============================================================================
// FLIGHTS
// =============================================================================

func (m *Memory) SaveFlight(_ context.Context, travelerID string, f qualification.FlightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireTravelerLocked(travelerID); err != nil {
		return err
	}
	m.putFlightLocked(travelerID, f)
	return nil
}

// ImportFlights checks the traveler once, then writes the whole batch under
// one lock.
func (m *Memory) ImportFlights(_ context.Context, travelerID string, flights []qualification.FlightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireTravelerLocked(travelerID); err != nil {
		return err
	}
	for _, f := range flights {
		m.putFlightLocked(travelerID, f)
	}
	return nil
}

func (m *Memory) putFlightLocked(travelerID string, f qualification.FlightRecord) {
	byID, ok := m.flights[travelerID]
	if !ok {
		byID = make(map[string]qualification.FlightRecord)
		m.flights[travelerID] = byID
	}
	byID[f.ID] = f
}

func (m *Memory) DeleteFlight(_ context.Context, travelerID, flightID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.flights[travelerID][flightID]; !ok {
		return &history.NotFoundError{Kind: "flight", ID: flightID}
	}
	delete(m.flights[travelerID], flightID)
	return nil
}

func (m *Memory) ListFlights(_ context.Context, travelerID string) ([]qualification.FlightRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requireTravelerLocked(travelerID); err != nil {
		return nil, err
	}
	out := make([]qualification.FlightRecord, 0, len(m.flights[travelerID]))
	for _, f := range m.flights[travelerID] {
		out = append(out, f)
	}
	history.SortFlights(out)
	return out, nil
}

// =============================================================================
// MANUAL LEDGER
// =============================================================================

func (m *Memory) SaveManualEntry(_ context.Context, travelerID string, month calendar.Month, e qualification.ManualMonthEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireTravelerLocked(travelerID); err != nil {
		return err
	}
	ledger, ok := m.manual[travelerID]
	if !ok {
		ledger = make(qualification.ManualLedger)
		m.manual[travelerID] = ledger
	}
	ledger[month] = e
	return nil
}

func (m *Memory) DeleteManualEntry(_ context.Context, travelerID string, month calendar.Month) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.manual[travelerID][month]; !ok {
		return &history.NotFoundError{Kind: "manual entry", ID: month.String()}
	}
	delete(m.manual[travelerID], month)
	return nil
}

func (m *Memory) ListManualEntries(_ context.Context, travelerID string) (qualification.ManualLedger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requireTravelerLocked(travelerID); err != nil {
		return nil, err
	}
	out := make(qualification.ManualLedger, len(m.manual[travelerID]))
	for month, e := range m.manual[travelerID] {
		out[month] = e
	}
	return out, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (m *Memory) SaveSnapshot(_ context.Context, s history.StatusSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireTravelerLocked(s.TravelerID); err != nil {
		return err
	}
	snaps := m.snapshots[s.TravelerID]
	i := sort.Search(len(snaps), func(i int) bool { return !snaps[i].TakenOn.Before(s.TakenOn) })
	if i < len(snaps) && snaps[i].TakenOn.Equal(s.TakenOn) {
		s.ID = snaps[i].ID
		snaps[i] = s
		return nil
	}
	snaps = append(snaps, history.StatusSnapshot{})
	copy(snaps[i+1:], snaps[i:])
	snaps[i] = s
	m.snapshots[s.TravelerID] = snaps
	return nil
}

func (m *Memory) ListSnapshots(_ context.Context, travelerID string) ([]history.StatusSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]history.StatusSnapshot, len(m.snapshots[travelerID]))
	copy(out, m.snapshots[travelerID])
	return out, nil
}

func (m *Memory) LatestSnapshot(_ context.Context, travelerID string) (*history.StatusSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.snapshots[travelerID]
	if len(snaps) == 0 {
		return nil, nil
	}
	latest := snaps[len(snaps)-1]
	return &latest, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func cloneSettings(s qualification.Settings) qualification.Settings {
	if s.Override != nil {
		o := *s.Override
		s.Override = &o
	}
	return s
}
