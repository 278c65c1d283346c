package universe

import "log"

// Resolver produces the ordered, deduplicated scan universe by trying
// sources in priority order. Availability beats completeness: a degraded
// but non-empty universe is always preferred over aborting the run, so
// the chain must end with a source that cannot fail.
type Resolver struct {
	Sources []Source
}

// NewResolver builds the default chain: datahub CSV, then the Wikipedia
// table, then the embedded list.
func NewResolver(datahubURL, wikipediaURL, proxyURL string) *Resolver {
	return &Resolver{Sources: []Source{
		NewDatahubSource(datahubURL, proxyURL),
		NewWikipediaSource(wikipediaURL, proxyURL),
		NewFallbackSource(),
	}}
}

// Resolve returns the first source's symbols that load successfully,
// deduplicated in first-seen order. It never returns an empty list as
// long as the chain terminates with the embedded source; an empty result
// indicates a misconfigured resolver.
func (r *Resolver) Resolve() []string {
	for _, src := range r.Sources {
		symbols, err := src.Symbols()
		if err != nil {
			log.Printf("[WARN] ticker source %s failed: %v", src.Name(), err)
			continue
		}
		deduped := dedupe(symbols)
		if len(deduped) == 0 {
			log.Printf("[WARN] ticker source %s returned no symbols", src.Name())
			continue
		}
		log.Printf("[INFO] loaded %d tickers from %s", len(deduped), src.Name())
		return deduped
	}
	log.Println("[ERROR] every ticker source failed, including the embedded fallback")
	return nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
