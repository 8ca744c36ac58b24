// Package gpx exports route geometry as GPX 1.1 track documents.
package gpx

import (
	"encoding/xml"
	"errors"

	"github.com/cyclemaps/cyclemaps/pkg/geojson"
)

// ErrEmptyTrack is returned when there are no coordinates to export.
var ErrEmptyTrack = errors.New("no coordinates to export")

type gpxDoc struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Trk     trk      `xml:"trk"`
}

type trk struct {
	Name   string `xml:"name"`
	Trkseg trkseg `xml:"trkseg"`
}

type trkseg struct {
	Trkpt []trkpt `xml:"trkpt"`
}

type trkpt struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// Encode renders the coordinates as a single-track GPX 1.1 document.
func Encode(name string, coords []geojson.Coordinate) ([]byte, error) {
	if len(coords) == 0 {
		return nil, ErrEmptyTrack
	}

	points := make([]trkpt, len(coords))
	for i, c := range coords {
		points[i] = trkpt{Lat: c.Lat, Lon: c.Lng}
	}

	doc := gpxDoc{
		Version: "1.1",
		Creator: "cyclemaps",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Trk: trk{
			Name:   name,
			Trkseg: trkseg{Trkpt: points},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
