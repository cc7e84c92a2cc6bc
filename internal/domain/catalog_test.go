package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Lookups(t *testing.T) {
	entry, ok := LookupByName("NVIDIA Corporation")
	assert.True(t, ok)
	assert.Equal(t, "NVDA", entry.Ticker)

	entry, ok = LookupByTicker("BRK.B")
	assert.True(t, ok)
	assert.Equal(t, "Berkshire Hathaway Inc.", entry.Name)

	_, ok = LookupByTicker("aapl")
	assert.False(t, ok, "tickers match exactly")
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	entries := Catalog()
	assert.Len(t, entries, 10)

	entries[0].Name = "changed"
	assert.Equal(t, "Apple Inc.", Catalog()[0].Name)
}
