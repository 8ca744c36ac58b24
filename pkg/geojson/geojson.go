// Package geojson provides minimal GeoJSON LineString handling plus the
// geometric helpers needed to summarize a drawn route (length, center).
package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Coordinate represents a geographic point in GeoJSON (longitude, latitude)
// order.
type Coordinate struct {
	Lng float64
	Lat float64
}

// lineString is the GeoJSON wire shape.
type lineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// ParseLineString decodes a GeoJSON LineString into its coordinate sequence.
func ParseLineString(data string) ([]Coordinate, error) {
	var ls lineString
	if err := json.Unmarshal([]byte(data), &ls); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	if ls.Type != "LineString" {
		return nil, fmt.Errorf("unsupported geometry type %q", ls.Type)
	}

	coords := make([]Coordinate, 0, len(ls.Coordinates))
	for _, pair := range ls.Coordinates {
		if len(pair) < 2 {
			return nil, errors.New("coordinate pair must have longitude and latitude")
		}
		coords = append(coords, Coordinate{Lng: pair[0], Lat: pair[1]})
	}

	return coords, nil
}

// EncodeLineString encodes a coordinate sequence as a GeoJSON LineString.
func EncodeLineString(coords []Coordinate) (string, error) {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lng, c.Lat}
	}

	data, err := json.Marshal(lineString{Type: "LineString", Coordinates: pairs})
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}
	return string(data), nil
}

// LengthMeters returns the total polyline length in meters using the
// haversine formula.
func LengthMeters(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += haversineDistance(coords[i-1], coords[i])
	}
	return total
}

// Center returns the midpoint of the coordinates' bounding box.
func Center(coords []Coordinate) (lng, lat float64) {
	if len(coords) == 0 {
		return 0, 0
	}

	minLng, maxLng := coords[0].Lng, coords[0].Lng
	minLat, maxLat := coords[0].Lat, coords[0].Lat
	for _, c := range coords[1:] {
		minLng = math.Min(minLng, c.Lng)
		maxLng = math.Max(maxLng, c.Lng)
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
	}

	return (minLng + maxLng) / 2, (minLat + maxLat) / 2
}

const earthRadiusMeters = 6371000

func haversineDistance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
