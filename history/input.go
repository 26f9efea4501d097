package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/qualification"
)

// LoadInput assembles the complete engine input for a traveler.
func LoadInput(ctx context.Context, store Store, travelerID string, today calendar.Date) (qualification.Input, error) {
	traveler, err := store.GetTraveler(ctx, travelerID)
	if err != nil {
		return qualification.Input{}, err
	}
	flights, err := store.ListFlights(ctx, travelerID)
	if err != nil {
		return qualification.Input{}, fmt.Errorf("failed to load flights: %w", err)
	}
	manual, err := store.ListManualEntries(ctx, travelerID)
	if err != nil {
		return qualification.Input{}, fmt.Errorf("failed to load manual ledger: %w", err)
	}
	return qualification.Input{
		Flights:  flights,
		Manual:   manual,
		Settings: traveler.Settings,
		Today:    today,
	}, nil
}

// NewSnapshot captures the current cycle of a result. ok is false when the
// result has no cycles.
func NewSnapshot(travelerID string, result qualification.Result, now time.Time) (StatusSnapshot, bool) {
	cycle, ok := result.CurrentCycle()
	if !ok {
		return StatusSnapshot{}, false
	}
	progress := cycle.Progress
	return StatusSnapshot{
		ID:              uuid.NewString(),
		TravelerID:      travelerID,
		TakenOn:         result.Today,
		ActualStatus:    progress.ActualStatus,
		ProjectedStatus: progress.ProjectedStatus,
		ActualXP:        progress.ActualXP,
		ProjectedXP:     progress.ProjectedXP,
		RolloverIn:      cycle.RolloverIn,
		CycleStart:      cycle.StartDate,
		CycleEnd:        cycle.EndDate,
		WarningCount:    len(result.Warnings),
		CreatedAt:       now.UTC(),
	}, true
}

// SortFlights orders flights the way every Store returns them.
func SortFlights(flights []qualification.FlightRecord) {
	sort.SliceStable(flights, func(i, j int) bool {
		if flights[i].Date != flights[j].Date {
			return flights[i].Date < flights[j].Date
		}
		return flights[i].ID < flights[j].ID
	})
}

// ValidateTraveler checks the fields a Store requires.
func ValidateTraveler(t Traveler) error {
	if t.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTraveler)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTraveler)
	}
	return nil
}
