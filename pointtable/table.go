package pointtable

import (
	"fmt"

	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// DISTANCE BANDS
// =============================================================================

type DistanceBand int

const (
	BandDomestic DistanceBand = iota
	BandMedium
	BandLong1
	BandLong2
	BandLong3
)

var bandNames = [...]string{"domestic", "medium", "long_1", "long_2", "long_3"}

func (b DistanceBand) String() string {
	if b < BandDomestic || b > BandLong3 {
		return fmt.Sprintf("band(%d)", int(b))
	}
	return bandNames[b]
}

func (b DistanceBand) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *DistanceBand) UnmarshalText(text []byte) error {
	for i, name := range bandNames {
		if name == string(text) {
			*b = DistanceBand(i)
			return nil
		}
	}
	return fmt.Errorf("unknown distance band %q", text)
}

// Bands lists every band in ascending order.
func Bands() []DistanceBand {
	return []DistanceBand{BandDomestic, BandMedium, BandLong1, BandLong2, BandLong3}
}

// BandFor buckets a leg. Domestic wins over distance.
func BandFor(miles float64, sameCountry bool) DistanceBand {
	switch {
	case sameCountry:
		return BandDomestic
	case miles < 2000:
		return BandMedium
	case miles < 3500:
		return BandLong1
	case miles < 5000:
		return BandLong2
	default:
		return BandLong3
	}
}

// =============================================================================
// XP TABLE
// =============================================================================

// CabinXP is the XP of each cabin class within one band.
type CabinXP struct {
	Economy        int `json:"economy"`
	PremiumEconomy int `json:"premium_economy"`
	Business       int `json:"business"`
	First          int `json:"first"`
}

// For returns the XP for cabin. Unknown cabins earn nothing.
func (c CabinXP) For(cabin qualification.CabinClass) int {
	switch cabin {
	case qualification.CabinEconomy:
		return c.Economy
	case qualification.CabinPremiumEconomy:
		return c.PremiumEconomy
	case qualification.CabinBusiness:
		return c.Business
	case qualification.CabinFirst:
		return c.First
	default:
		return 0
	}
}

// Table maps every band to its cabin XP.
type Table map[DistanceBand]CabinXP

// DefaultTable is the published XP grid per one-way leg.
func DefaultTable() Table {
	return Table{
		BandDomestic: {Economy: 2, PremiumEconomy: 4, Business: 6, First: 10},
		BandMedium:   {Economy: 5, PremiumEconomy: 10, Business: 15, First: 25},
		BandLong1:    {Economy: 8, PremiumEconomy: 16, Business: 24, First: 40},
		BandLong2:    {Economy: 10, PremiumEconomy: 20, Business: 30, First: 50},
		BandLong3:    {Economy: 12, PremiumEconomy: 24, Business: 36, First: 60},
	}
}

// XP looks up band x cabin.
func (t Table) XP(band DistanceBand, cabin qualification.CabinClass) int {
	return t[band].For(cabin)
}
