package collector

import (
	"context"
	"sort"
	"time"

	"HistoFetch/internal/model"
)

// Page is one page of raw history as returned by a Source. Points are
// ascending by time and may include zero-padded ticks.
type Page struct {
	TimeFrom time.Time
	TimeTo   time.Time
	Points   []model.PricePoint
}

// Source fetches a single page of history ending at toTs with at most
// limit ticks before it.
type Source interface {
	FetchPage(ctx context.Context, symbol string, limit int, toTs time.Time) (*Page, error)
	Name() string
}

// MockSource serves pages from pre-loaded history for development and
// testing. History may contain zero points to simulate gaps.
type MockSource struct {
	History map[string][]model.PricePoint
	Errs    map[string]error
	Calls   int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchPage(_ context.Context, symbol string, limit int, toTs time.Time) (*Page, error) {
	m.Calls++
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	all := append([]model.PricePoint(nil), m.History[symbol]...)
	sort.Slice(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })

	// Emulate the real API: up to limit+1 points ending at toTs.
	var window []model.PricePoint
	for _, p := range all {
		if !p.Time.After(toTs) {
			window = append(window, p)
		}
	}
	if len(window) > limit+1 {
		window = window[len(window)-limit-1:]
	}
	page := &Page{Points: window}
	if len(window) > 0 {
		page.TimeFrom = window[0].Time
		page.TimeTo = window[len(window)-1].Time
	}
	return page, nil
}
