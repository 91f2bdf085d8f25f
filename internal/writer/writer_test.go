package writer

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HistoFetch/internal/model"
)

func sampleResultSet() *model.ResultSet {
	rs := model.NewResultSet(model.TickDay, "USD")
	t0 := time.Date(2019, 5, 30, 0, 0, 0, 0, time.UTC)
	for _, symbol := range []string{"BTC", "ETH"} {
		base := 8000.0
		if symbol == "ETH" {
			base = 250
		}
		points := make([]model.PricePoint, 3)
		for i := range points {
			close := base + float64(i)
			points[i] = model.PricePoint{
				Time:       t0.AddDate(0, 0, i),
				Open:       close - 1,
				High:       close + 1,
				Low:        close - 2,
				Close:      close,
				VolumeFrom: 5,
				VolumeTo:   5 * close,
			}
		}
		rs.Add(&model.PriceSeries{Symbol: symbol, Points: points})
	}
	return rs
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteWideCSV(t *testing.T) {
	rs := sampleResultSet()
	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, WriteWideCSV(path, rs, "close"))

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "BTC", "ETH"}, rows[0])
	assert.Equal(t, []string{"2019-05-30", "8000", "250"}, rows[1])
	assert.Equal(t, []string{"2019-06-01", "8002", "252"}, rows[3])

	// No empty cells anywhere.
	for _, row := range rows {
		for _, cell := range row {
			assert.NotEmpty(t, cell)
		}
	}
}

func TestWriteWideCSV_FieldSelection(t *testing.T) {
	rs := sampleResultSet()
	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, WriteWideCSV(path, rs, "high"))

	rows := readCSV(t, path)
	assert.Equal(t, "8001", rows[1][1])

	assert.Error(t, WriteWideCSV(path, rs, "vwap"))
}

func TestWriteLongCSV(t *testing.T) {
	rs := sampleResultSet()
	path := filepath.Join(t.TempDir(), "long.csv")
	require.NoError(t, WriteLongCSV(path, rs))

	rows := readCSV(t, path)
	require.Len(t, rows, 7) // header + 2 symbols * 3 ticks
	assert.Equal(t, []string{"ticker", "priceDate", "high", "low", "open", "close", "volumeFrom", "volumeTo"}, rows[0])
	assert.Equal(t, "BTC/USD", rows[1][0])
	assert.Equal(t, "ETH/USD", rows[4][0])
	assert.Equal(t, "2019-05-30", rows[1][1])
	assert.Equal(t, "8000", rows[1][5])
}

func TestWriteJSON(t *testing.T) {
	rs := sampleResultSet()
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, rs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]map[string]float64
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "BTC")
	require.Contains(t, doc, "ETH")
	require.Len(t, doc["BTC"], 3)

	first := doc["BTC"][0]
	assert.Equal(t, float64(time.Date(2019, 5, 30, 0, 0, 0, 0, time.UTC).Unix()), first["time"])
	assert.Equal(t, 8000.0, first["close"])
	assert.Equal(t, 5.0, first["volumefrom"])
}

func TestFormatDate_NonDayTickUsesRFC3339(t *testing.T) {
	ts := time.Date(2019, 6, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2019-06-01T14:00:00Z", formatDate(ts, model.TickHour))
	assert.Equal(t, "2019-06-01", formatDate(ts, model.TickDay))
}
