package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"HistoFetch/internal/model"
)

// CryptoCompareSource implements Source using the CryptoCompare min-api
// histo{minute,hour,day} endpoints.
type CryptoCompareSource struct {
	BaseURL  string
	APIKey   string
	Currency string
	Tick     model.TickSize
	Client   *http.Client
}

// NewCryptoCompareSource creates a source with optional proxy support.
func NewCryptoCompareSource(baseURL, apiKey, currency string, tick model.TickSize, proxyURL string) *CryptoCompareSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://min-api.cryptocompare.com"
	}
	return &CryptoCompareSource{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Currency: currency,
		Tick:     tick,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *CryptoCompareSource) Name() string { return "cryptocompare" }

// histoPoint is the expected JSON shape of one tick in the Data array.
type histoPoint struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
	VolumeTo   float64 `json:"volumeto"`
}

// histoResponse is the expected envelope of a histo* call.
type histoResponse struct {
	Response string       `json:"Response"`
	Message  string       `json:"Message"`
	TimeFrom int64        `json:"TimeFrom"`
	TimeTo   int64        `json:"TimeTo"`
	Data     []histoPoint `json:"Data"`
}

// FetchPage requests up to limit ticks of history ending at toTs.
// The API returns limit+1 points (toTs itself plus limit before it).
func (s *CryptoCompareSource) FetchPage(ctx context.Context, symbol string, limit int, toTs time.Time) (*Page, error) {
	endpoint := fmt.Sprintf("%s/data/histo%s", s.BaseURL, s.Tick)
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &RequestError{Symbol: symbol, Err: err}
	}
	q := u.Query()
	q.Set("fsym", symbol)
	q.Set("tsym", s.Currency)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("toTs", strconv.FormatInt(toTs.Unix(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RequestError{Symbol: symbol, Err: err}
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Apikey "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &RequestError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Symbol: symbol, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Symbol: symbol, Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))}
	}

	var hr histoResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, &ResponseFormatError{Symbol: symbol, Detail: "decode history envelope", Err: err}
	}
	if hr.Response == "Error" {
		return nil, &RequestError{Symbol: symbol, Err: fmt.Errorf("api error: %s", hr.Message)}
	}
	if hr.Response != "Success" {
		return nil, &ResponseFormatError{Symbol: symbol, Detail: fmt.Sprintf("unexpected Response field %q", hr.Response)}
	}

	page := &Page{
		TimeFrom: time.Unix(hr.TimeFrom, 0).UTC(),
		TimeTo:   time.Unix(hr.TimeTo, 0).UTC(),
		Points:   make([]model.PricePoint, 0, len(hr.Data)),
	}
	for i, p := range hr.Data {
		if p.Time <= 0 {
			return nil, &ResponseFormatError{Symbol: symbol, Detail: fmt.Sprintf("tick %d has no timestamp", i)}
		}
		page.Points = append(page.Points, model.PricePoint{
			Time:       time.Unix(p.Time, 0).UTC(),
			Open:       p.Open,
			High:       p.High,
			Low:        p.Low,
			Close:      p.Close,
			VolumeFrom: p.VolumeFrom,
			VolumeTo:   p.VolumeTo,
		})
	}
	return page, nil
}
