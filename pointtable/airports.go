/*
Package pointtable is the per-flight point resolver.

PURPOSE:

	Answers "how many XP does this flight earn": looks up both airports, computes
	the great-circle distance, buckets it into a distance band and reads the XP
	for the cabin class from the band table.

KEY CONCEPTS:
  - Airport / Directory: built-in IATA directory, replaceable via AirportLocator
  - DistanceBand:        Domestic, Medium, Long 1..3
  - Table:               XP per band and cabin
  - Resolver:            (origin, destination, cabin) -> (miles, band, XP)

SEE ALSO:
  - qualification.FlightRecord: carries the resolved XP into the engine
*/
package pointtable

import (
	"sort"
	"strings"
)

// Airport is one entry of the directory.
type Airport struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"` // ISO 3166-1 alpha-2
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// AirportLocator finds airports by IATA code.
type AirportLocator interface {
	Lookup(code string) (Airport, bool)
}

// Directory is an in-memory AirportLocator keyed by upper-case IATA code.
type Directory map[string]Airport

func (d Directory) Lookup(code string) (Airport, bool) {
	a, ok := d[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// Codes lists the directory's codes in order.
func (d Directory) Codes() []string {
	codes := make([]string, 0, len(d))
	for c := range d {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// NewDirectory indexes airports by code.
func NewDirectory(airports ...Airport) Directory {
	d := make(Directory, len(airports))
	for _, a := range airports {
		a.Code = strings.ToUpper(a.Code)
		d[a.Code] = a
	}
	return d
}

// DefaultDirectory covers the network the demo travelers fly.
func DefaultDirectory() Directory {
	return NewDirectory(
		// France
		Airport{Code: "CDG", Name: "Charles de Gaulle", City: "Paris", Country: "FR", Lat: 49.0097, Lon: 2.5479},
		Airport{Code: "ORY", Name: "Orly", City: "Paris", Country: "FR", Lat: 48.7262, Lon: 2.3652},
		Airport{Code: "NCE", Name: "Nice Cote d'Azur", City: "Nice", Country: "FR", Lat: 43.6584, Lon: 7.2159},
		Airport{Code: "LYS", Name: "Saint-Exupery", City: "Lyon", Country: "FR", Lat: 45.7256, Lon: 5.0811},
		Airport{Code: "MRS", Name: "Provence", City: "Marseille", Country: "FR", Lat: 43.4393, Lon: 5.2214},
		Airport{Code: "TLS", Name: "Blagnac", City: "Toulouse", Country: "FR", Lat: 43.6291, Lon: 1.3638},

		// Rest of Europe
		Airport{Code: "AMS", Name: "Schiphol", City: "Amsterdam", Country: "NL", Lat: 52.3086, Lon: 4.7639},
		Airport{Code: "LHR", Name: "Heathrow", City: "London", Country: "GB", Lat: 51.4700, Lon: -0.4543},
		Airport{Code: "FRA", Name: "Frankfurt", City: "Frankfurt", Country: "DE", Lat: 50.0379, Lon: 8.5622},
		Airport{Code: "MAD", Name: "Barajas", City: "Madrid", Country: "ES", Lat: 40.4983, Lon: -3.5676},
		Airport{Code: "BCN", Name: "El Prat", City: "Barcelona", Country: "ES", Lat: 41.2974, Lon: 2.0833},
		Airport{Code: "FCO", Name: "Fiumicino", City: "Rome", Country: "IT", Lat: 41.8003, Lon: 12.2389},
		Airport{Code: "CPH", Name: "Kastrup", City: "Copenhagen", Country: "DK", Lat: 55.6180, Lon: 12.6508},

		// Americas
		Airport{Code: "JFK", Name: "John F. Kennedy", City: "New York", Country: "US", Lat: 40.6413, Lon: -73.7781},
		Airport{Code: "BOS", Name: "Logan", City: "Boston", Country: "US", Lat: 42.3656, Lon: -71.0096},
		Airport{Code: "ATL", Name: "Hartsfield-Jackson", City: "Atlanta", Country: "US", Lat: 33.6407, Lon: -84.4277},
		Airport{Code: "LAX", Name: "Los Angeles", City: "Los Angeles", Country: "US", Lat: 33.9416, Lon: -118.4085},
		Airport{Code: "SFO", Name: "San Francisco", City: "San Francisco", Country: "US", Lat: 37.6213, Lon: -122.3790},
		Airport{Code: "YUL", Name: "Trudeau", City: "Montreal", Country: "CA", Lat: 45.4706, Lon: -73.7408},
		Airport{Code: "GRU", Name: "Guarulhos", City: "Sao Paulo", Country: "BR", Lat: -23.4356, Lon: -46.4731},
		Airport{Code: "EZE", Name: "Ministro Pistarini", City: "Buenos Aires", Country: "AR", Lat: -34.8222, Lon: -58.5358},

		// Africa, Middle East, Asia-Pacific
		Airport{Code: "DXB", Name: "Dubai", City: "Dubai", Country: "AE", Lat: 25.2532, Lon: 55.3657},
		Airport{Code: "JNB", Name: "O. R. Tambo", City: "Johannesburg", Country: "ZA", Lat: -26.1392, Lon: 28.2460},
		Airport{Code: "CPT", Name: "Cape Town", City: "Cape Town", Country: "ZA", Lat: -33.9715, Lon: 18.6021},
		Airport{Code: "NBO", Name: "Jomo Kenyatta", City: "Nairobi", Country: "KE", Lat: -1.3192, Lon: 36.9278},
		Airport{Code: "NRT", Name: "Narita", City: "Tokyo", Country: "JP", Lat: 35.7720, Lon: 140.3929},
		Airport{Code: "HND", Name: "Haneda", City: "Tokyo", Country: "JP", Lat: 35.5494, Lon: 139.7798},
		Airport{Code: "SIN", Name: "Changi", City: "Singapore", Country: "SG", Lat: 1.3644, Lon: 103.9915},
		Airport{Code: "BKK", Name: "Suvarnabhumi", City: "Bangkok", Country: "TH", Lat: 13.6900, Lon: 100.7501},
		Airport{Code: "SYD", Name: "Kingsford Smith", City: "Sydney", Country: "AU", Lat: -33.9399, Lon: 151.1753},
	)
}
