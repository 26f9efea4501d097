package pointtable

import (
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusMiles = 3958.8

// GreatCircleMiles is the haversine distance between two airports.
func GreatCircleMiles(a, b Airport) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// roundMiles returns the distance as whole miles and as a one-decimal value.
func roundMiles(miles float64) (int, decimal.Decimal) {
	d := decimal.NewFromFloat(miles)
	return int(d.Round(0).IntPart()), d.Round(1)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
