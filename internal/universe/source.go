package universe

import "strings"

// Source defines the interface for a ticker-list provider. Sources are
// best-effort: any failure (network, parse, schema) makes the resolver
// fall through to the next one.
type Source interface {
	Symbols() ([]string, error)
	Name() string
}

// NormalizeSymbol maps a listed ticker to the market-data provider's
// format: class shares use '-' instead of '.' (BRK.B -> BRK-B), and
// surrounding whitespace is dropped.
func NormalizeSymbol(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.ReplaceAll(s, ".", "-")
}
