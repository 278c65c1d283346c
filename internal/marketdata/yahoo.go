package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"ExplosionRadar/internal/model"
)

// DefaultYahooBaseURL is the public chart API endpoint.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooConfig tunes the Yahoo Finance fetcher.
type YahooConfig struct {
	BaseURL string
	Proxy   string
	Timeout time.Duration
	// TransportBackoff is the delay before retrying a timed-out request.
	TransportBackoff time.Duration
	Pacer            PacerConfig
}

// YahooFetcher implements Fetcher against the Yahoo Finance chart API.
// Requests go through a shared Pacer; transient failures are retried once.
type YahooFetcher struct {
	BaseURL          string
	Client           *http.Client
	Pacer            *Pacer
	transportBackoff time.Duration
}

// NewYahooFetcher creates a fetcher with optional proxy support.
func NewYahooFetcher(cfg YahooConfig) *YahooFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultYahooBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TransportBackoff <= 0 {
		cfg.TransportBackoff = 2 * time.Second
	}
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		Pacer:            NewPacer(cfg.Pacer),
		transportBackoff: cfg.TransportBackoff,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDaily returns up to `days` of the most recent daily bars for the
// symbol. Failures come back as *FetchError; a series shorter than
// model.MinBars is an InsufficientHistory failure, never a partial
// success. Transport and rate-limit failures get one retry each, with the
// rate-limit backoff substantially longer than the inter-request pacing.
func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	rng := rangeForDays(days)
	retried := false
	for {
		if err := f.Pacer.Wait(ctx); err != nil {
			return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport, Err: err}
		}
		bars, err := f.fetchChart(ctx, symbol, "1d", rng)
		if err == nil {
			if len(bars) > days {
				bars = bars[len(bars)-days:]
			}
			if len(bars) < model.MinBars {
				return nil, &FetchError{
					Symbol: symbol,
					Reason: model.FailInsufficientHistory,
					Err:    fmt.Errorf("%d bars, need %d", len(bars), model.MinBars),
				}
			}
			return bars, nil
		}

		var fe *FetchError
		if !errors.As(err, &fe) {
			return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport, Err: err}
		}
		switch fe.Reason {
		case model.FailTransport:
			if !retried {
				retried = true
				if serr := sleepCtx(ctx, f.transportBackoff); serr != nil {
					return nil, fe
				}
				continue
			}
			return nil, fe
		case model.FailRateLimited:
			if !retried {
				retried = true
				if serr := f.Pacer.Backoff(ctx); serr != nil {
					return nil, fe
				}
				continue
			}
			return nil, fe
		default:
			// Data failures: retrying will not help.
			return nil, fe
		}
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport, Err: err}
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &FetchError{Symbol: symbol, Reason: model.FailRateLimited,
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Symbol: symbol, Reason: model.FailMissingOrDelisted,
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &FetchError{Symbol: symbol, Reason: model.FailTransport,
			Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200))}
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailMissingOrDelisted,
			Err: fmt.Errorf("decode: %w", err)}
	}
	if chart.Chart.Error != nil {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailMissingOrDelisted,
			Err: fmt.Errorf("api error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 ||
		len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &FetchError{Symbol: symbol, Reason: model.FailMissingOrDelisted,
			Err: errors.New("empty payload")}
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// rangeForDays maps a trailing day count to the coarser Yahoo range
// parameter; the result is trimmed back down to the requested count.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
