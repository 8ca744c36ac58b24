package enrich

import (
	"context"
	"math"
	"time"
)

// waySearchRadius is the search radius around each sample, in the way
// provider's native distance unit.
const waySearchRadius = 10

// ClassifySurface returns a percentage breakdown over {paved, gravel, dirt}
// for a route of at least two coordinates. The route is reduced to ~40
// samples, nearby ways are fetched in a single provider query, and each
// sample is assigned the surface tag of its nearest way.
func (s *Service) ClassifySurface(ctx context.Context, coords []Coordinate) (*SurfaceBreakdown, error) {
	if len(coords) < 2 {
		return nil, &Error{
			Code:    "ROUTE_TOO_SHORT",
			Message: "at least two coordinates are required",
			Err:     ErrInvalidInput,
		}
	}

	samples := SampleForSurface(coords)

	lookupCtx, cancel := context.WithTimeout(ctx, s.wayLookupTimeout)
	defer cancel()

	start := time.Now()
	ways, err := s.ways.FetchNearbyWays(lookupCtx, samples, waySearchRadius)
	s.observer.RecordRequest(s.ways.Name(), "nearby_ways", time.Since(start), err)
	if err != nil {
		return nil, classifyProviderError(s.ways.Name(), err)
	}

	if len(ways) == 0 {
		// No mapped ways near the route is a valid (empty) answer.
		return &SurfaceBreakdown{Matched: 0}, nil
	}

	counts := make(map[SurfaceBucket]int, len(bucketOrder))
	matched := 0

	for _, sample := range samples {
		// Nearest way wins; ties break in provider return order, which is
		// deterministic only as long as the provider's ordering is stable.
		nearest := -1
		nearestDist := math.Inf(1)
		for i := range ways {
			if d := pointWayDistanceSq(sample, ways[i].Geometry); d < nearestDist {
				nearestDist = d
				nearest = i
			}
		}
		if nearest < 0 {
			continue
		}

		counts[BucketForTag(ways[nearest].Surface)]++
		matched++
	}

	breakdown := &SurfaceBreakdown{Matched: matched}
	for _, bucket := range bucketOrder {
		count := counts[bucket]
		if count == 0 {
			continue
		}
		breakdown.Shares = append(breakdown.Shares, SurfaceShare{
			Bucket:  bucket,
			Percent: int(math.Round(float64(count) / float64(matched) * 100)),
		})
	}

	s.logger.Debug().
		Int("samples", len(samples)).
		Int("ways", len(ways)).
		Int("matched", matched).
		Msg("surface classified")

	return breakdown, nil
}
