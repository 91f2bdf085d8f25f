package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HistoFetch/internal/model"
)

const histoBody = `{
	"Response": "Success",
	"Message": "",
	"TimeFrom": 1559088000,
	"TimeTo": 1559347200,
	"Data": [
		{"time": 1559088000, "open": 8100, "high": 8200, "low": 8000, "close": 8150, "volumefrom": 12.5, "volumeto": 101875},
		{"time": 1559174400, "open": 8150, "high": 8300, "low": 8100, "close": 8250, "volumefrom": 10.0, "volumeto": 82500},
		{"time": 1559260800, "open": 8250, "high": 8400, "low": 8200, "close": 8300, "volumefrom": 9.1, "volumeto": 75530},
		{"time": 1559347200, "open": 8300, "high": 8350, "low": 8100, "close": 8200, "volumefrom": 11.2, "volumeto": 91840}
	]
}`

func TestCryptoCompareSource_FetchPage(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		w.Write([]byte(histoBody))
	}))
	defer srv.Close()

	src := NewCryptoCompareSource(srv.URL, "test-key", "USD", model.TickDay, "")
	toTs := time.Unix(1559347200, 0).UTC()
	page, err := src.FetchPage(context.Background(), "BTC", 3, toTs)
	require.NoError(t, err)

	assert.Equal(t, "/data/histoday", gotPath)
	assert.Equal(t, "Apikey test-key", gotAuth)
	assert.Equal(t, "BTC", gotQuery["fsym"])
	assert.Equal(t, "USD", gotQuery["tsym"])
	assert.Equal(t, "3", gotQuery["limit"])
	assert.Equal(t, "1559347200", gotQuery["toTs"])

	require.Len(t, page.Points, 4)
	assert.Equal(t, time.Unix(1559088000, 0).UTC(), page.TimeFrom)
	assert.Equal(t, time.Unix(1559347200, 0).UTC(), page.TimeTo)
	first := page.Points[0]
	assert.Equal(t, 8100.0, first.Open)
	assert.Equal(t, 8150.0, first.Close)
	assert.Equal(t, 12.5, first.VolumeFrom)
}

func TestCryptoCompareSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "Error", "Message": "limit param is invalid", "Data": []}`))
	}))
	defer srv.Close()

	src := NewCryptoCompareSource(srv.URL, "", "USD", model.TickDay, "")
	_, err := src.FetchPage(context.Background(), "BTC", 5, time.Now())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, reqErr.Error(), "limit param is invalid")
}

func TestCryptoCompareSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	src := NewCryptoCompareSource(srv.URL, "", "USD", model.TickHour, "")
	_, err := src.FetchPage(context.Background(), "ETH", 5, time.Now())
	var fmtErr *ResponseFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, "ETH", fmtErr.Symbol)
}

func TestCryptoCompareSource_UnexpectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	src := NewCryptoCompareSource(srv.URL, "", "USD", model.TickDay, "")
	_, err := src.FetchPage(context.Background(), "BTC", 5, time.Now())
	var fmtErr *ResponseFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestCryptoCompareSource_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewCryptoCompareSource(srv.URL, "", "USD", model.TickDay, "")
	_, err := src.FetchPage(context.Background(), "BTC", 5, time.Now())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "BTC", reqErr.Symbol)
}
