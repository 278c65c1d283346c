package universe

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultDatahubURL serves the S&P 500 constituents as CSV with a
// "Symbol" column.
const DefaultDatahubURL = "https://datahub.io/core/s-and-p-500-companies/r/data.csv"

// DatahubSource loads the primary remote ticker list from a CSV endpoint.
type DatahubSource struct {
	URL    string
	Client *http.Client
}

// NewDatahubSource creates the CSV source with optional proxy support.
func NewDatahubSource(csvURL, proxyURL string) *DatahubSource {
	if csvURL == "" {
		csvURL = DefaultDatahubURL
	}
	return &DatahubSource{
		URL:    csvURL,
		Client: newHTTPClient(proxyURL),
	}
}

func (s *DatahubSource) Name() string { return "datahub" }

func (s *DatahubSource) Symbols() ([]string, error) {
	resp, err := s.Client.Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("datahub fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datahub: status %d", resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("datahub parse: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("datahub: empty ticker list")
	}

	symbolCol := -1
	for i, h := range records[0] {
		if h == "Symbol" {
			symbolCol = i
			break
		}
	}
	if symbolCol == -1 {
		return nil, fmt.Errorf("datahub: no Symbol column in header %v", records[0])
	}

	symbols := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if symbolCol >= len(row) {
			continue
		}
		if sym := NormalizeSymbol(row[symbolCol]); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("datahub: no symbols in payload")
	}
	return symbols, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
