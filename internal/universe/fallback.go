package universe

// fallbackSymbols is the embedded last-resort universe: well-known liquid
// names so a scan can always proceed when every remote source is down.
var fallbackSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
	"ADBE", "CRM", "PYPL", "INTC", "AMD", "QCOM", "TXN", "AVGO",
	"ORCL", "IBM", "NOW", "INTU", "MU", "AMAT", "ADI", "LRCX",
	"KLAC", "MCHP", "SNPS", "CDNS", "FTNT", "PANW", "CRWD", "ZS",
	"DDOG", "NET", "SNOW", "PLTR", "COIN", "SQ", "SHOP", "ROKU",
	"ZM", "DOCU", "OKTA", "TWLO", "SPLK", "WORK", "DBX", "BOX",
}

// StaticSource serves an embedded constant ticker list. It never fails,
// which makes it the terminal entry of the resolver chain.
type StaticSource struct {
	symbols []string
}

// NewFallbackSource returns the embedded liquid-ticker source.
func NewFallbackSource() *StaticSource {
	return &StaticSource{symbols: fallbackSymbols}
}

func (s *StaticSource) Name() string { return "embedded" }

func (s *StaticSource) Symbols() ([]string, error) {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out, nil
}
