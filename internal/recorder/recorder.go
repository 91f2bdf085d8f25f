package recorder

import (
	"time"

	"HistoFetch/internal/model"
)

// RunRecord is the audit entry for one symbol in one fetch invocation.
type RunRecord struct {
	Symbol    string
	Currency  string
	Tick      model.TickSize
	Lookback  int
	Pages     int
	RawPoints int
	Filled    int
	Duration  time.Duration
	Status    string // "OK" or "FAILED"
	ErrText   string
}

// Recorder persists fetch-run history for operational analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
