package pointtable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/xp-tracker/qualification"
)

// Resolution is the result for one leg, or the sum over a multi-leg route.
type Resolution struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Cabin       string          `json:"cabin"`
	Miles       int             `json:"miles"`
	Distance    decimal.Decimal `json:"distance"`
	Band        DistanceBand    `json:"band"`
	XP          int             `json:"xp"`
	Legs        []Resolution    `json:"legs,omitempty"`
}

// Resolver turns routes into XP. It is pure and safe for concurrent use.
type Resolver struct {
	airports AirportLocator
	table    Table
}

// NewResolver uses the default directory when airports is nil.
func NewResolver(airports AirportLocator, table Table) *Resolver {
	if airports == nil {
		airports = DefaultDirectory()
	}
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{airports: airports, table: table}
}

// Resolve computes one leg.
func (r *Resolver) Resolve(origin, destination string, cabin qualification.CabinClass) (Resolution, error) {
	if !cabin.Valid() {
		return Resolution{}, ErrInvalidCabin
	}
	from, ok := r.airports.Lookup(origin)
	if !ok {
		return Resolution{}, &UnknownAirportError{Code: strings.ToUpper(origin)}
	}
	to, ok := r.airports.Lookup(destination)
	if !ok {
		return Resolution{}, &UnknownAirportError{Code: strings.ToUpper(destination)}
	}
	if from.Code == to.Code {
		return Resolution{}, fmt.Errorf("%w: %s to itself", ErrInvalidRoute, from.Code)
	}

	raw := GreatCircleMiles(from, to)
	miles, distance := roundMiles(raw)
	band := BandFor(raw, from.Country == to.Country)
	return Resolution{
		Origin:      from.Code,
		Destination: to.Code,
		Cabin:       cabin.String(),
		Miles:       miles,
		Distance:    distance,
		Band:        band,
		XP:          r.table.XP(band, cabin),
	}, nil
}

var routeSeparators = regexp.MustCompile(`(?:->|[-/>\x{2013}\x{2192}]|\s)+`)

// ParseRoute splits "AMS-JFK-AMS" style routes into airport codes.
func ParseRoute(route string) ([]string, error) {
	trimmed := strings.TrimSpace(route)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidRoute)
	}
	codes := routeSeparators.Split(strings.ToUpper(trimmed), -1)
	if len(codes) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least two airports", ErrInvalidRoute, route)
	}
	for _, c := range codes {
		if len(c) != 3 {
			return nil, fmt.Errorf("%w: %q is not an IATA code", ErrInvalidRoute, c)
		}
	}
	return codes, nil
}

// ResolveRoute resolves every leg of a route and sums miles and XP. The band
// of a multi-leg route is that of its longest leg.
func (r *Resolver) ResolveRoute(route string, cabin qualification.CabinClass) (Resolution, error) {
	codes, err := ParseRoute(route)
	if err != nil {
		return Resolution{}, err
	}

	total := Resolution{
		Origin:      codes[0],
		Destination: codes[len(codes)-1],
		Cabin:       cabin.String(),
		Distance:    decimal.Zero,
	}
	for i := 0; i+1 < len(codes); i++ {
		leg, err := r.Resolve(codes[i], codes[i+1], cabin)
		if err != nil {
			return Resolution{}, err
		}
		total.Miles += leg.Miles
		total.Distance = total.Distance.Add(leg.Distance)
		total.XP += leg.XP
		total.Band = max(total.Band, leg.Band)
		total.Legs = append(total.Legs, leg)
	}
	if len(total.Legs) == 1 {
		return total.Legs[0], nil
	}
	return total, nil
}
