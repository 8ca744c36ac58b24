package enrich

import "math"

// pointSegmentDistanceSq returns the squared Euclidean distance (in degrees)
// from p to the segment a-b. The projection of p onto the line through a and
// b is clamped to [0,1] so the nearest point always lies on the segment, not
// its extension. A degenerate segment (a == b) collapses to point distance.
func pointSegmentDistanceSq(p, a, b Coordinate) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		px := p.Lng - a.Lng
		py := p.Lat - a.Lat
		return px*px + py*py
	}

	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nx := a.Lng + t*dx - p.Lng
	ny := a.Lat + t*dy - p.Lat
	return nx*nx + ny*ny
}

// pointWayDistanceSq returns the minimum squared distance from p to the
// polyline formed by geometry, taking the minimum over all consecutive-vertex
// segments. A single-vertex way reduces to point distance; an empty way is
// infinitely far.
func pointWayDistanceSq(p Coordinate, geometry []Coordinate) float64 {
	switch len(geometry) {
	case 0:
		return math.Inf(1)
	case 1:
		return pointSegmentDistanceSq(p, geometry[0], geometry[0])
	}

	min := math.Inf(1)
	for i := 1; i < len(geometry); i++ {
		if d := pointSegmentDistanceSq(p, geometry[i-1], geometry[i]); d < min {
			min = d
		}
	}
	return min
}
