package universe

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWikipediaURL lists the S&P 500 companies in an HTML table whose
// first column is the ticker.
const DefaultWikipediaURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// WikipediaSource scrapes the constituents table as the secondary ticker
// list. Tickers are normalized for the market-data provider ('.'->'-').
type WikipediaSource struct {
	URL    string
	Client *http.Client
}

// NewWikipediaSource creates the scraping source with optional proxy support.
func NewWikipediaSource(pageURL, proxyURL string) *WikipediaSource {
	if pageURL == "" {
		pageURL = DefaultWikipediaURL
	}
	return &WikipediaSource{
		URL:    pageURL,
		Client: newHTTPClient(proxyURL),
	}
}

func (s *WikipediaSource) Name() string { return "wikipedia" }

func (s *WikipediaSource) Symbols() ([]string, error) {
	req, err := http.NewRequest("GET", s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia parse: %w", err)
	}

	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		table = doc.Find("table.wikitable").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("wikipedia: constituents table not found")
	}

	var symbols []string
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return // header row
		}
		if sym := NormalizeSymbol(strings.TrimSpace(cell.Text())); sym != "" {
			symbols = append(symbols, sym)
		}
	})
	if len(symbols) == 0 {
		return nil, fmt.Errorf("wikipedia: no symbols in table")
	}
	return symbols, nil
}
