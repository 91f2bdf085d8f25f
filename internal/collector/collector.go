package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"HistoFetch/internal/model"
	"HistoFetch/internal/series"
)

// DefaultPageSize is the upstream cap on points per history call.
const DefaultPageSize = 2000

// SymbolReport summarizes the fetch outcome for one symbol.
type SymbolReport struct {
	Symbol    string
	Pages     int
	RawPoints int
	Filled    int
	Duration  time.Duration
	Err       error
}

// Collector assembles a dense lookback-length series per symbol by walking
// the paginated history API backward from the end date.
type Collector struct {
	Source   Source
	Symbols  []string
	Currency string
	Tick     model.TickSize
	End      time.Time
	Lookback int
	PageSize int
}

// NewCollector creates a Collector with the default page size.
func NewCollector(src Source, symbols []string, currency string, tick model.TickSize, end time.Time, lookback int) *Collector {
	return &Collector{
		Source:   src,
		Symbols:  symbols,
		Currency: currency,
		Tick:     tick,
		End:      end,
		Lookback: lookback,
		PageSize: DefaultPageSize,
	}
}

// Fetch runs the page loop for every symbol independently. Symbols that fail
// do not affect the others: the ResultSet holds the series that succeeded and
// the reports carry the per-symbol error, if any.
func (c *Collector) Fetch(ctx context.Context) (*model.ResultSet, []SymbolReport) {
	rs := model.NewResultSet(c.Tick, c.Currency)
	reports := make([]SymbolReport, 0, len(c.Symbols))
	for _, symbol := range c.Symbols {
		start := time.Now()
		s, rep := c.fetchSymbol(ctx, symbol)
		rep.Duration = time.Since(start)
		if rep.Err != nil {
			log.Printf("[ERROR] fetch %s/%s: %v", symbol, c.Currency, rep.Err)
		} else {
			rs.Add(s)
			log.Printf("[INFO] fetched %s/%s: %d ticks (%d filled) in %d pages", symbol, c.Currency, len(s.Points), rep.Filled, rep.Pages)
		}
		reports = append(reports, rep)
	}
	return rs, reports
}

// fetchSymbol walks backward from the end date, one page per iteration, each
// page ending one tick before the earliest timestamp already retrieved.
func (c *Collector) fetchSymbol(ctx context.Context, symbol string) (*model.PriceSeries, SymbolReport) {
	rep := SymbolReport{Symbol: symbol}

	end := c.Tick.Align(c.End)
	step := c.Tick.Duration()
	grid := series.Grid(end, c.Tick, c.Lookback)
	gridStart := grid[0]

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var raw []model.PricePoint
	toTs := end
	for {
		// Ticks still uncovered between the grid start and the cursor.
		remaining := int(toTs.Sub(gridStart)/step) + 1
		limit := remaining
		if limit > pageSize {
			limit = pageSize
		}

		page, err := c.Source.FetchPage(ctx, symbol, limit, toTs)
		if err != nil {
			rep.Err = err
			return nil, rep
		}
		rep.Pages++

		usable := 0
		earliest := toTs
		for _, p := range page.Points {
			if p.Time.After(end) {
				continue
			}
			raw = append(raw, p)
			rep.RawPoints++
			if !p.IsZero() {
				usable++
			}
			if p.Time.Before(earliest) {
				earliest = p.Time
			}
		}
		if len(page.Points) == 0 || usable == 0 {
			// History exhausted: the API pads pre-listing ticks with zeros
			// and eventually returns nothing at all.
			break
		}
		if !earliest.After(gridStart) {
			break
		}
		next := earliest.Add(-step)
		if !next.Before(toTs) {
			// Cursor did not move; treat as exhausted rather than loop forever.
			break
		}
		toTs = next
	}

	points, filled, err := series.Fill(raw, grid)
	if err != nil {
		have := 0
		for _, p := range raw {
			if !p.IsZero() {
				have++
			}
		}
		rep.Err = &InsufficientHistoryError{Symbol: symbol, Want: c.Lookback, Have: have}
		return nil, rep
	}
	rep.Filled = filled

	if len(points) != c.Lookback {
		rep.Err = fmt.Errorf("assembled %d ticks for %s, expected %d", len(points), symbol, c.Lookback)
		return nil, rep
	}
	return &model.PriceSeries{Symbol: symbol, Points: points}, rep
}
