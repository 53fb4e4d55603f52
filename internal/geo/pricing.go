// Package geo computes geodesic distance between stored locations and maps
// it to a shipping cost. Locations are persisted as "lat,lng" strings.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidLocation = errors.New("invalid location format")

const earthRadiusKm = 6371.0

// MinShippingCost is the floor applied to every computed shipping cost.
var MinShippingCost = decimal.NewFromInt(5000)

type Point struct {
	Lat float64
	Lng float64
}

// ParsePoint parses a "lat,lng" location string.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, ErrInvalidLocation
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, ErrInvalidLocation
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, ErrInvalidLocation
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, ErrInvalidLocation
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// Distance returns the great-circle distance between two points in km.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ratePerKm returns the per-km rate tier for a distance.
func ratePerKm(km float64) int64 {
	switch {
	case km <= 1:
		return 8000
	case km <= 2:
		return 6000
	case km <= 3:
		return 5000
	default:
		return 4000
	}
}

// CostForDistance maps a distance in km to a shipping cost. The rate tier is
// chosen by distance, the product rounded to the nearest unit, and the
// result never drops below MinShippingCost.
func CostForDistance(km float64) decimal.Decimal {
	cost := decimal.NewFromInt(int64(math.Round(km * float64(ratePerKm(km)))))
	if cost.LessThan(MinShippingCost) {
		return MinShippingCost
	}
	return cost
}

// ShippingCost parses both locations and prices the distance between them.
func ShippingCost(buyerLoc, sellerLoc string) (decimal.Decimal, error) {
	from, err := ParsePoint(buyerLoc)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := ParsePoint(sellerLoc)
	if err != nil {
		return decimal.Zero, err
	}
	return CostForDistance(Distance(from, to)), nil
}
