package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HistoFetch/internal/model"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(&RunRecord{
		Symbol:    "BTC",
		Currency:  "USD",
		Tick:      model.TickDay,
		Lookback:  5,
		Pages:     1,
		RawPoints: 6,
		Filled:    1,
		Duration:  120 * time.Millisecond,
		Status:    "OK",
	}))
	require.NoError(t, r.RecordRun(&RunRecord{
		Symbol:   "NEW",
		Currency: "USD",
		Tick:     model.TickDay,
		Lookback: 5,
		Status:   "FAILED",
		ErrText:  "insufficient history",
	}))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM fetch_runs`).Scan(&count))
	assert.Equal(t, 2, count)

	var status, errText string
	var durationMS int64
	require.NoError(t, r.db.QueryRow(
		`SELECT status, error, duration_ms FROM fetch_runs WHERE symbol = ?`, "BTC",
	).Scan(&status, &errText, &durationMS))
	assert.Equal(t, "OK", status)
	assert.Empty(t, errText)
	assert.Equal(t, int64(120), durationMS)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.RecordRun(&RunRecord{Symbol: "BTC"}))
	assert.NoError(t, n.Close())
}
