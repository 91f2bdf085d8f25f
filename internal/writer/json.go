// Package writer serializes a ResultSet to the configured output files.
package writer

import (
	"encoding/json"
	"fmt"
	"os"

	"HistoFetch/internal/model"
)

// jsonTick mirrors the upstream per-tick layout so the JSON output matches
// what the API served, post gap-fill.
type jsonTick struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
	VolumeTo   float64 `json:"volumeto"`
}

// WriteJSON writes the raw merged tick arrays, one per symbol.
func WriteJSON(path string, rs *model.ResultSet) error {
	doc := make(map[string][]jsonTick, len(rs.Symbols))
	for _, symbol := range rs.Symbols {
		s := rs.Series[symbol]
		ticks := make([]jsonTick, len(s.Points))
		for i, p := range s.Points {
			ticks[i] = jsonTick{
				Time:       p.Time.Unix(),
				Open:       p.Open,
				High:       p.High,
				Low:        p.Low,
				Close:      p.Close,
				VolumeFrom: p.VolumeFrom,
				VolumeTo:   p.VolumeTo,
			}
		}
		doc[symbol] = ticks
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
