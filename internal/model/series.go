package model

import "time"

// PricePoint is one OHLCV sample for a single symbol at a single tick.
type PricePoint struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	VolumeFrom float64
	VolumeTo   float64
}

// IsZero reports whether the point carries no price data. The upstream API
// pads history before a market's listing date (and ticks without trades)
// with all-zero candles.
func (p PricePoint) IsZero() bool {
	return p.Open == 0 && p.High == 0 && p.Low == 0 && p.Close == 0
}

// PriceSeries holds the merged, gap-filled history for one symbol,
// ordered by timestamp ascending.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// ResultSet maps each requested symbol to its series. All series share the
// same timestamp grid. Built once per fetch invocation, then serialized.
type ResultSet struct {
	Tick     TickSize
	Currency string
	Symbols  []string
	Series   map[string]*PriceSeries
}

// NewResultSet creates an empty ResultSet for the given grid parameters.
func NewResultSet(tick TickSize, currency string) *ResultSet {
	return &ResultSet{
		Tick:     tick,
		Currency: currency,
		Series:   make(map[string]*PriceSeries),
	}
}

// Add appends a completed series, keeping symbol order stable.
func (rs *ResultSet) Add(s *PriceSeries) {
	rs.Symbols = append(rs.Symbols, s.Symbol)
	rs.Series[s.Symbol] = s
}

// Empty reports whether no symbol produced a series.
func (rs *ResultSet) Empty() bool { return len(rs.Symbols) == 0 }

// Grid returns the shared timestamp grid, taken from the first series.
func (rs *ResultSet) Grid() []time.Time {
	if rs.Empty() {
		return nil
	}
	points := rs.Series[rs.Symbols[0]].Points
	grid := make([]time.Time, len(points))
	for i, p := range points {
		grid[i] = p.Time
	}
	return grid
}
