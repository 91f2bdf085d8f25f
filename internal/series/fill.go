// Package series provides pure transforms over fetched price points:
// building the timestamp grid and filling gaps by horizontal extrapolation.
package series

import (
	"errors"
	"time"

	"HistoFetch/internal/model"
)

// ErrNoPrecedingPoint is returned by Fill when the earliest grid slot is
// missing and no fetched point before it can seed the extrapolation.
var ErrNoPrecedingPoint = errors.New("no preceding point available to fill leading gap")

// Grid returns n tick-aligned timestamps ending at end, ascending,
// spaced by exactly one tick.
func Grid(end time.Time, tick model.TickSize, n int) []time.Time {
	step := tick.Duration()
	grid := make([]time.Time, n)
	for i := 0; i < n; i++ {
		grid[i] = end.Add(-time.Duration(n-1-i) * step)
	}
	return grid
}

// Fill maps fetched points onto the grid. A slot with a real (non-zero) point
// keeps it unchanged; a missing or zero slot repeats the nearest preceding
// close in open/high/low/close with zero volume. Returns the dense series and
// the number of slots that were synthesized. Filling an already-dense series
// is a no-op.
func Fill(points []model.PricePoint, grid []time.Time) ([]model.PricePoint, int, error) {
	byTime := make(map[int64]model.PricePoint, len(points))
	var seed model.PricePoint
	haveSeed := false
	for _, p := range points {
		if p.IsZero() {
			continue
		}
		byTime[p.Time.Unix()] = p
		// Track the latest real point at or before the grid start as the
		// seed for a leading gap.
		if len(grid) > 0 && !p.Time.After(grid[0]) && (!haveSeed || p.Time.After(seed.Time)) {
			seed = p
			haveSeed = true
		}
	}

	out := make([]model.PricePoint, 0, len(grid))
	filled := 0
	last := seed
	haveLast := haveSeed
	for _, ts := range grid {
		if p, ok := byTime[ts.Unix()]; ok {
			out = append(out, p)
			last = p
			haveLast = true
			continue
		}
		if !haveLast {
			return nil, 0, ErrNoPrecedingPoint
		}
		synth := model.PricePoint{
			Time:  ts,
			Open:  last.Close,
			High:  last.Close,
			Low:   last.Close,
			Close: last.Close,
		}
		out = append(out, synth)
		last = synth
		filled++
	}
	return out, filled, nil
}
