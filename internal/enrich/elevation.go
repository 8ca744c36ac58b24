package enrich

import (
	"context"
	"fmt"
	"math"
	"time"
)

// elevationBatchSize is the provider's request-size ceiling.
const elevationBatchSize = 80

// BuildElevationProfile returns one elevation per input coordinate, in input
// order, plus the total climb in meters. Coordinates are rounded to 4 decimal
// degrees before querying and partitioned into batches of at most 80. Batches
// are issued sequentially and fail fast: if any batch fails, prior results
// are discarded and the whole operation errors.
func (s *Service) BuildElevationProfile(ctx context.Context, coords []Coordinate) (*ElevationProfile, error) {
	if len(coords) == 0 {
		return nil, &Error{
			Code:    "EMPTY_ROUTE",
			Message: "at least one coordinate is required",
			Err:     ErrInvalidInput,
		}
	}

	rounded := RoundCoordinates(coords)
	elevations := make([]*float64, 0, len(rounded))

	for start := 0; start < len(rounded); start += elevationBatchSize {
		end := start + elevationBatchSize
		if end > len(rounded) {
			end = len(rounded)
		}

		batch, err := s.fetchElevationBatch(ctx, rounded[start:end])
		if err != nil {
			return nil, err
		}
		elevations = append(elevations, batch...)
	}

	fillElevationGaps(elevations)

	profile := &ElevationProfile{
		Elevations:  elevations,
		ClimbMeters: climbMeters(elevations),
	}

	s.logger.Debug().
		Int("points", len(elevations)).
		Int("climb_m", profile.ClimbMeters).
		Msg("elevation profile built")

	return profile, nil
}

// fetchElevationBatch queries one batch under the per-batch deadline and
// verifies the provider honored the 1:1 contract.
func (s *Service) fetchElevationBatch(ctx context.Context, batch []Coordinate) ([]*float64, error) {
	batchCtx, cancel := context.WithTimeout(ctx, s.elevationTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.elevation.FetchElevations(batchCtx, batch)
	s.observer.RecordRequest(s.elevation.Name(), "elevation", time.Since(start), err)
	if err != nil {
		return nil, classifyProviderError(s.elevation.Name(), err)
	}

	if len(result) != len(batch) {
		return nil, &Error{
			Provider: s.elevation.Name(),
			Code:     "BAD_RESPONSE",
			Message:  fmt.Sprintf("expected %d elevations, got %d", len(batch), len(result)),
			Err:      ErrProviderUnavailable,
		}
	}

	return result, nil
}

// fillElevationGaps replaces missing values in place. Interior gaps are
// linearly interpolated between the nearest known neighbors; a gap with a
// known value on only one side copies that value across. When no value is
// known at all, the sequence is left untouched.
func fillElevationGaps(elevations []*float64) {
	i := 0
	for i < len(elevations) {
		if elevations[i] != nil {
			i++
			continue
		}

		// Extend the run of missing values starting at i.
		j := i
		for j < len(elevations) && elevations[j] == nil {
			j++
		}

		var before, after *float64
		if i > 0 {
			before = elevations[i-1]
		}
		if j < len(elevations) {
			after = elevations[j]
		}

		switch {
		case before != nil && after != nil:
			// Linear interpolation across the run; positions i-1 and j anchor it.
			span := float64(j - (i - 1))
			for k := i; k < j; k++ {
				t := float64(k-(i-1)) / span
				v := *before + t*(*after-*before)
				elevations[k] = &v
			}
		case before != nil:
			for k := i; k < j; k++ {
				v := *before
				elevations[k] = &v
			}
		case after != nil:
			for k := i; k < j; k++ {
				v := *after
				elevations[k] = &v
			}
		}
		// Both nil: every elevation is missing, leave the run unknown.

		i = j
	}
}

// climbMeters sums positive deltas between consecutive known elevations,
// rounded to the nearest meter. Remaining unknown values are excluded from
// the delta sum rather than treated as zero.
func climbMeters(elevations []*float64) int {
	var climb float64
	for i := 1; i < len(elevations); i++ {
		if elevations[i-1] == nil || elevations[i] == nil {
			continue
		}
		if delta := *elevations[i] - *elevations[i-1]; delta > 0 {
			climb += delta
		}
	}
	return int(math.Round(climb))
}
