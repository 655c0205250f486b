// Package geo holds the distance math behind nearest-station lookup.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the mean Earth radius.
const earthRadiusMiles = 3958.8

// Position is a geographic coordinate in decimal degrees.
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether p lies within latitude and longitude range.
func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Distance returns the great-circle distance between a and b in statute miles.
func Distance(a, b Position) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lon1 := degreesToRadians(a.Longitude)
	lat2 := degreesToRadians(b.Latitude)
	lon2 := degreesToRadians(b.Longitude)

	// haversine
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Box is a latitude/longitude bounding box.
type Box struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// String returns the "minLat,minLon,maxLat,maxLon" form the stationinfo
// endpoint takes as bbox.
func (b Box) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// BoundingBox returns a box covering radiusMiles around p. One degree of
// latitude is roughly 69 miles; longitude degrees shrink with latitude.
func BoundingBox(p Position, radiusMiles float64) Box {
	latDegrees := radiusMiles / 69.0
	lonDegrees := latDegrees / math.Cos(degreesToRadians(p.Latitude))

	return Box{
		MinLat: p.Latitude - latDegrees,
		MinLon: p.Longitude - lonDegrees,
		MaxLat: p.Latitude + latDegrees,
		MaxLon: p.Longitude + lonDegrees,
	}
}
