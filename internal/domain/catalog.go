package domain

// CatalogEntry is a well-known name/ticker pair offered when adding a stock
type CatalogEntry struct {
	Name   string
	Ticker string
}

var catalog = []CatalogEntry{
	{Name: "Apple Inc.", Ticker: "AAPL"},
	{Name: "Microsoft Corporation", Ticker: "MSFT"},
	{Name: "Tesla Inc.", Ticker: "TSLA"},
	{Name: "Amazon.com Inc.", Ticker: "AMZN"},
	{Name: "Alphabet Inc.", Ticker: "GOOGL"},
	{Name: "NVIDIA Corporation", Ticker: "NVDA"},
	{Name: "Meta Platforms, Inc.", Ticker: "META"},
	{Name: "Berkshire Hathaway Inc.", Ticker: "BRK.B"},
	{Name: "Johnson & Johnson", Ticker: "JNJ"},
	{Name: "Procter & Gamble Co.", Ticker: "PG"},
}

// Catalog returns a copy of the predefined stocks
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// LookupByName finds a catalog entry by its exact display name
func LookupByName(name string) (CatalogEntry, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// LookupByTicker finds a catalog entry by its exact ticker
func LookupByTicker(ticker string) (CatalogEntry, bool) {
	for _, e := range catalog {
		if e.Ticker == ticker {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
