package enrich

import "math"

// surfaceSampleTarget is the approximate number of samples sent to the
// way-lookup provider regardless of route length.
const surfaceSampleTarget = 40

// RoundCoordinates returns a copy of coords with both components rounded to
// 4 decimal degrees (~11 m). Rounding keeps outgoing elevation requests short
// and stable; it never reorders points or changes the count.
func RoundCoordinates(coords []Coordinate) []Coordinate {
	rounded := make([]Coordinate, len(coords))
	for i, c := range coords {
		rounded[i] = Coordinate{
			Lng: math.Round(c.Lng*1e4) / 1e4,
			Lat: math.Round(c.Lat*1e4) / 1e4,
		}
	}
	return rounded
}

// SampleForSurface reduces a route to roughly surfaceSampleTarget points by
// keeping every k-th coordinate, k = max(1, N/target). The last coordinate is
// force-included when the stride misses it, so both route ends are always
// represented. Routes shorter than the target are kept whole.
func SampleForSurface(coords []Coordinate) []Coordinate {
	stride := len(coords) / surfaceSampleTarget
	if stride < 1 {
		stride = 1
	}

	samples := make([]Coordinate, 0, len(coords)/stride+1)
	for i := 0; i < len(coords); i += stride {
		samples = append(samples, coords[i])
	}

	if last := len(coords) - 1; last >= 0 && (last%stride) != 0 {
		samples = append(samples, coords[last])
	}

	return samples
}
