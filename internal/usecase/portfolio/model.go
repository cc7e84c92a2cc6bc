// Package portfolio holds the client-side state of the stock portfolio: the last fetched
// collection, the "new stock" draft and the single active edit draft.
//
// The server is the only source of truth. Local state changes only after a successful
// response, and Load is the only resynchronization mechanism.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

// Snapshot is a point-in-time copy of the model state
type Snapshot struct {
	Stocks  []domain.Stock
	Loading bool
	LoadErr error
	Draft   domain.NewStockDraft
	Edit    *domain.EditDraft // nil when no stock is being edited
}

// Model mediates every portfolio mutation through the remote stock API.
// It is safe for concurrent use; API calls are made without holding the lock.
type Model struct {
	API domain.StockAPI
	log zerolog.Logger

	mu      sync.Mutex
	stocks  []domain.Stock
	loading bool
	loadErr error
	loadGen uint64
	draft   domain.NewStockDraft
	edit    *domain.EditDraft
	tokens  map[int64]uint64 // latest request token per stock id
}

// NewModel creates an empty model bound to the given API
func NewModel(api domain.StockAPI, log zerolog.Logger) *Model {
	return &Model{
		API:    api,
		log:    log.With().Str("component", "portfolio").Logger(),
		draft:  domain.DefaultNewStockDraft(),
		tokens: make(map[int64]uint64),
	}
}

// Load fetches the full stock list and replaces the local collection with it.
// On failure the error is recorded, the collection is left empty and the error is returned.
// A load that completes after a newer load was started is discarded with ErrStaleResponse.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loadGen++
	gen := m.loadGen
	m.loading = true
	m.loadErr = nil
	m.mu.Unlock()

	stocks, err := m.API.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.loadGen {
		return domain.ErrStaleResponse
	}
	m.loading = false

	if err != nil {
		m.loadErr = err
		m.stocks = nil
		m.log.Error().Err(err).Msg("Failed to fetch stocks")
		return fmt.Errorf("failed to load stocks: %w", err)
	}

	m.stocks = cloneStocks(stocks)
	m.log.Debug().Int("count", len(m.stocks)).Msg("Stocks loaded")
	return nil
}

// SubmitNew validates the held draft and creates the stock remotely.
// Validation failures are returned without calling the API. On success the created
// stock is appended and the draft is reset unless it changed meanwhile; on failure nothing
// changes locally.
func (m *Model) SubmitNew(ctx context.Context) (*domain.Stock, error) {
	m.mu.Lock()
	draft := m.draft
	m.mu.Unlock()

	payload, err := draft.Parse()
	if err != nil {
		m.log.Warn().Err(err).Msg("New stock rejected before submission")
		return nil, err
	}

	created, err := m.API.Create(ctx, payload)
	if err != nil {
		m.log.Error().Err(err).Str("ticker", payload.Ticker).Msg("Error adding stock")
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}

	stock := created.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.indexOf(stock.ID); idx >= 0 {
		// Already present (a reload raced this call); keep ids unique
		m.stocks[idx] = stock
	} else {
		m.stocks = append(m.stocks, stock)
	}
	// Edits made to the draft while the request was in flight are kept
	if m.draft == draft {
		m.draft = domain.DefaultNewStockDraft()
	}

	out := stock.Clone()
	return &out, nil
}

// Remove deletes the stock remotely and, once the server acknowledged it, drops it locally.
// An active edit of the removed stock is discarded with it.
func (m *Model) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.nextToken(id)
	m.mu.Unlock()

	if err := m.API.Delete(ctx, id); err != nil {
		m.log.Error().Err(err).Int64("stock_id", id).Msg("Error deleting stock")
		return fmt.Errorf("failed to delete stock %d: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.indexOf(id); idx >= 0 {
		m.stocks = append(m.stocks[:idx], m.stocks[idx+1:]...)
	}
	if m.edit != nil && m.edit.ID == id {
		m.edit = nil
	}
	return nil
}

// BeginEdit starts editing the given stock. If another stock is already being edited,
// ErrEditInProgress is returned and the active draft is kept; call DiscardEdit first.
// Beginning an edit of the stock that is already being edited keeps its draft.
func (m *Model) BeginEdit(stock domain.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.edit != nil {
		if m.edit.ID == stock.ID {
			return nil
		}
		return domain.ErrEditInProgress
	}
	draft := domain.NewEditDraft(stock)
	m.edit = &draft
	return nil
}

// BeginEditByID starts editing the stock with the given id from the local collection
func (m *Model) BeginEditByID(id int64) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	var stock domain.Stock
	if idx >= 0 {
		stock = m.stocks[idx].Clone()
	}
	m.mu.Unlock()

	if idx < 0 {
		return domain.ErrStockNotFound
	}
	return m.BeginEdit(stock)
}

// UpdateEditField changes one field of the active edit draft. Values are validated on save.
func (m *Model) UpdateEditField(field domain.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.edit == nil {
		return domain.ErrNoActiveEdit
	}
	return m.edit.Set(field, value)
}

// DiscardEdit abandons the active edit draft without persisting it.
// It reports whether a draft was discarded.
func (m *Model) DiscardEdit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	discarded := m.edit != nil
	m.edit = nil
	return discarded
}

// SaveEdit sends the active edit draft to the server. On success the fields echoed by the
// server are merged into the matching stock and edit mode ends. On failure the draft stays
// active. A response overtaken by a newer request for the same stock returns ErrStaleResponse
// and is not applied.
func (m *Model) SaveEdit(ctx context.Context) error {
	m.mu.Lock()
	if m.edit == nil {
		m.mu.Unlock()
		return domain.ErrNoActiveEdit
	}
	draft := *m.edit
	m.mu.Unlock()

	patch, err := draft.Patch()
	if err != nil {
		m.log.Warn().Err(err).Int64("stock_id", draft.ID).Msg("Edit rejected before submission")
		return err
	}

	m.mu.Lock()
	token := m.nextToken(draft.ID)
	m.mu.Unlock()

	updated, err := m.API.Update(ctx, draft.ID, patch)
	if err != nil {
		m.log.Error().Err(err).Int64("stock_id", draft.ID).Msg("Error updating stock")
		return fmt.Errorf("failed to update stock %d: %w", draft.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens[draft.ID] != token {
		m.log.Debug().Int64("stock_id", draft.ID).Msg("Discarding superseded update response")
		return domain.ErrStaleResponse
	}
	if idx := m.indexOf(draft.ID); idx >= 0 {
		updated.Apply(&m.stocks[idx])
	}
	if m.edit != nil && m.edit.ID == draft.ID {
		m.edit = nil
	}
	return nil
}

// ComputeTotalValue returns Σ quantity × current price over the current collection,
// counting stocks without a price as zero. It is recomputed on every call.
func (m *Model) ComputeTotalValue() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.TotalValue(m.stocks)
}

// Stocks returns a copy of the local collection
func (m *Model) Stocks() []domain.Stock {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneStocks(m.stocks)
}

// Snapshot returns a copy of the whole model state
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Stocks:  cloneStocks(m.stocks),
		Loading: m.loading,
		LoadErr: m.loadErr,
		Draft:   m.draft,
	}
	if m.edit != nil {
		edit := *m.edit
		snap.Edit = &edit
	}
	return snap
}

// Draft returns the "new stock" draft
func (m *Model) Draft() domain.NewStockDraft {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.draft
}

// SetDraft replaces the "new stock" draft
func (m *Model) SetDraft(d domain.NewStockDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = d
}

// SetDraftField changes one field of the "new stock" draft with free text
func (m *Model) SetDraftField(field domain.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.draft.Set(field, value)
}

// ResetDraft clears the "new stock" draft back to its defaults
func (m *Model) ResetDraft() {
	m.SetDraft(domain.DefaultNewStockDraft())
}

// SelectCatalogName picks a catalog entry by name and fills in its ticker
func (m *Model) SelectCatalogName(name string) error {
	entry, ok := domain.LookupByName(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrNotInCatalog)
	}
	m.selectCatalog(entry)
	return nil
}

// SelectCatalogTicker picks a catalog entry by ticker and fills in its name
func (m *Model) SelectCatalogTicker(ticker string) error {
	entry, ok := domain.LookupByTicker(ticker)
	if !ok {
		return fmt.Errorf("%q: %w", ticker, domain.ErrNotInCatalog)
	}
	m.selectCatalog(entry)
	return nil
}

func (m *Model) selectCatalog(entry domain.CatalogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft.Name = entry.Name
	m.draft.Ticker = entry.Ticker
}

// nextToken issues a new request token for id. Caller must hold mu.
func (m *Model) nextToken(id int64) uint64 {
	m.tokens[id]++
	return m.tokens[id]
}

// indexOf finds a stock by id in the collection. Caller must hold mu.
func (m *Model) indexOf(id int64) int {
	for i := range m.stocks {
		if m.stocks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStocks(stocks []domain.Stock) []domain.Stock {
	out := make([]domain.Stock, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, s.Clone())
	}
	return out
}

// IsStale reports whether err means a response was discarded in favor of a newer one
func IsStale(err error) bool {
	return errors.Is(err, domain.ErrStaleResponse)
}
