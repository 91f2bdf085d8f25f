package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"HistoFetch/internal/model"
)

func formatDate(t time.Time, tick model.TickSize) string {
	if tick == model.TickDay {
		return t.UTC().Format("2006-01-02")
	}
	return t.UTC().Format(time.RFC3339)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fieldValue(p model.PricePoint, field string) (float64, error) {
	switch field {
	case "open":
		return p.Open, nil
	case "high":
		return p.High, nil
	case "low":
		return p.Low, nil
	case "close", "":
		return p.Close, nil
	case "volumefrom":
		return p.VolumeFrom, nil
	case "volumeto":
		return p.VolumeTo, nil
	default:
		return 0, fmt.Errorf("unknown price field %q", field)
	}
}

// WriteWideCSV writes one row per grid timestamp with a date column and one
// column per symbol holding the chosen price field. Gap filling upstream
// guarantees no cell is empty.
func WriteWideCSV(path string, rs *model.ResultSet, field string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"date"}, rs.Symbols...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	grid := rs.Grid()
	row := make([]string, len(header))
	for i, ts := range grid {
		row[0] = formatDate(ts, rs.Tick)
		for j, symbol := range rs.Symbols {
			v, err := fieldValue(rs.Series[symbol].Points[i], field)
			if err != nil {
				return err
			}
			row[j+1] = formatPrice(v)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteLongCSV writes every tick as its own row in the legacy long layout:
// ticker, priceDate, high, low, open, close, volumeFrom, volumeTo.
func WriteLongCSV(path string, rs *model.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ticker", "priceDate", "high", "low", "open", "close", "volumeFrom", "volumeTo"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, symbol := range rs.Symbols {
		ticker := symbol + "/" + rs.Currency
		for _, p := range rs.Series[symbol].Points {
			row := []string{
				ticker,
				formatDate(p.Time, rs.Tick),
				formatPrice(p.High),
				formatPrice(p.Low),
				formatPrice(p.Open),
				formatPrice(p.Close),
				formatPrice(p.VolumeFrom),
				formatPrice(p.VolumeTo),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
