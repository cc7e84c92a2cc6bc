package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stocktracker/internal/domain"
)

// MockStockAPI is a mock implementation of domain.StockAPI for testing
type MockStockAPI struct {
	mock.Mock
}

func (m *MockStockAPI) List(ctx context.Context) ([]domain.Stock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Stock), args.Error(1)
}

func (m *MockStockAPI) Create(ctx context.Context, stock domain.NewStock) (*domain.Stock, error) {
	args := m.Called(ctx, stock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}

func (m *MockStockAPI) Update(ctx context.Context, id int64, patch domain.StockPatch) (domain.StockPatch, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.StockPatch), args.Error(1)
}

func (m *MockStockAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func apple() domain.Stock {
	return domain.Stock{
		ID:           1,
		Name:         "Apple Inc.",
		Ticker:       "AAPL",
		Quantity:     decimal.NewFromInt(10),
		BuyPrice:     decimal.NewFromInt(150),
		CurrentPrice: price(180),
	}
}

func tesla() domain.Stock {
	return domain.Stock{
		ID:       2,
		Name:     "Tesla Inc.",
		Ticker:   "TSLA",
		Quantity: decimal.RequireFromString("2.5"),
		BuyPrice: decimal.NewFromInt(200),
	}
}

func newLoadedModel(t *testing.T, stocks ...domain.Stock) (*Model, *MockStockAPI) {
	t.Helper()
	api := new(MockStockAPI)
	api.On("List", mock.Anything).Return(stocks, nil).Once()

	model := NewModel(api, zerolog.Nop())
	require.NoError(t, model.Load(context.Background()))
	return model, api
}

func TestLoad_ReplacesCollection(t *testing.T) {
	model, api := newLoadedModel(t, apple())

	api.On("List", mock.Anything).Return([]domain.Stock{tesla()}, nil).Once()
	require.NoError(t, model.Load(context.Background()))

	snap := model.Snapshot()
	require.Len(t, snap.Stocks, 1)
	assert.Equal(t, int64(2), snap.Stocks[0].ID)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.LoadErr)
	api.AssertExpectations(t)
}

func TestLoad_FailureSetsErrorAndEmptiesCollection(t *testing.T) {
	model, api := newLoadedModel(t, apple())

	api.On("List", mock.Anything).Return(nil, &domain.TransportError{Op: "list stocks", StatusCode: 500}).Once()
	err := model.Load(context.Background())

	require.Error(t, err)
	var te *domain.TransportError
	assert.ErrorAs(t, err, &te)

	snap := model.Snapshot()
	assert.Empty(t, snap.Stocks)
	assert.Error(t, snap.LoadErr)
	assert.False(t, snap.Loading)
}

func TestComputeTotalValue_Scenario(t *testing.T) {
	model, _ := newLoadedModel(t, apple())

	assert.True(t, decimal.NewFromInt(1800).Equal(model.ComputeTotalValue()))
}

func TestComputeTotalValue_MissingPriceCountsAsZero(t *testing.T) {
	model, _ := newLoadedModel(t, apple(), tesla())

	assert.True(t, decimal.NewFromInt(1800).Equal(model.ComputeTotalValue()))
}

func TestSubmitNew_MissingNameSkipsAPI(t *testing.T) {
	model, api := newLoadedModel(t)
	model.SetDraft(domain.NewStockDraft{Name: "", Ticker: "AAPL", Quantity: "1", BuyPrice: "100"})

	created, err := model.SubmitNew(context.Background())

	assert.Nil(t, created)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, model.Stocks())
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitNew_AppendsAndResetsDraft(t *testing.T) {
	model, api := newLoadedModel(t, apple())

	for id := int64(101); id <= 103; id++ {
		api.On("Create", mock.Anything, mock.Anything).Return(&domain.Stock{
			ID:       id,
			Name:     "Microsoft Corporation",
			Ticker:   "MSFT",
			Quantity: decimal.NewFromInt(1),
			BuyPrice: decimal.NewFromInt(300),
		}, nil).Once()
	}

	for i := 0; i < 3; i++ {
		before := len(model.Stocks())
		require.NoError(t, model.SelectCatalogTicker("MSFT"))
		require.NoError(t, model.SetDraftField(domain.FieldBuyPrice, "300"))

		created, err := model.SubmitNew(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Microsoft Corporation", created.Name)
		assert.Len(t, model.Stocks(), before+1)
		assert.Equal(t, domain.DefaultNewStockDraft(), model.Draft())
	}

	seen := map[int64]bool{}
	for _, s := range model.Stocks() {
		assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
	}
}

func TestSubmitNew_KeepsDraftEditedDuringRequest(t *testing.T) {
	model, api := newLoadedModel(t)

	api.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		require.NoError(t, model.SetDraftField(domain.FieldName, "Tesla Inc."))
	}).Return(&domain.Stock{ID: 5, Name: "Apple Inc.", Ticker: "AAPL", Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(150)}, nil)

	require.NoError(t, model.SelectCatalogTicker("AAPL"))
	require.NoError(t, model.SetDraftField(domain.FieldBuyPrice, "150"))

	_, err := model.SubmitNew(context.Background())

	require.NoError(t, err)
	assert.Len(t, model.Stocks(), 1)
	assert.Equal(t, "Tesla Inc.", model.Draft().Name)
	assert.Equal(t, "150", model.Draft().BuyPrice)
}

func TestSubmitNew_DefaultsQuantityToOne(t *testing.T) {
	model, api := newLoadedModel(t)
	model.SetDraft(domain.NewStockDraft{Name: "Apple Inc.", Ticker: "AAPL", BuyPrice: "150"})

	api.On("Create", mock.Anything, mock.MatchedBy(func(s domain.NewStock) bool {
		return s.Quantity.Equal(decimal.NewFromInt(1))
	})).Return(&domain.Stock{ID: 5, Name: "Apple Inc.", Ticker: "AAPL", Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(150)}, nil)

	_, err := model.SubmitNew(context.Background())

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSubmitNew_FailureLeavesStateUntouched(t *testing.T) {
	model, api := newLoadedModel(t, apple())
	draft := domain.NewStockDraft{Name: "Tesla Inc.", Ticker: "TSLA", Quantity: "1", BuyPrice: "200"}
	model.SetDraft(draft)

	api.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := model.SubmitNew(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add stock")
	assert.Len(t, model.Stocks(), 1)
	assert.Equal(t, draft, model.Draft())
}

func TestSubmitNew_ReplacesEntryWithSameID(t *testing.T) {
	model, api := newLoadedModel(t, apple())
	model.SetDraft(domain.NewStockDraft{Name: "Apple Inc.", Ticker: "AAPL", Quantity: "3", BuyPrice: "150"})

	dup := apple()
	dup.Quantity = decimal.NewFromInt(3)
	api.On("Create", mock.Anything, mock.Anything).Return(&dup, nil)

	_, err := model.SubmitNew(context.Background())

	require.NoError(t, err)
	require.Len(t, model.Stocks(), 1)
	assert.True(t, decimal.NewFromInt(3).Equal(model.Stocks()[0].Quantity))
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
		wantIDs   []int64
	}{
		{"success removes the stock", nil, []int64{2}},
		{"failure keeps the collection", errors.New("server down"), []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, api := newLoadedModel(t, apple(), tesla())
			api.On("Delete", mock.Anything, int64(1)).Return(tt.deleteErr)

			err := model.Remove(context.Background(), 1)

			if tt.deleteErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			var ids []int64
			for _, s := range model.Stocks() {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRemove_DiscardsEditOfRemovedStock(t *testing.T) {
	model, api := newLoadedModel(t, apple())
	require.NoError(t, model.BeginEdit(apple()))
	api.On("Delete", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, model.Remove(context.Background(), 1))

	assert.Nil(t, model.Snapshot().Edit)
}

func TestSaveEdit_UpdatesOnlyTheEditedField(t *testing.T) {
	model, api := newLoadedModel(t, apple(), tesla())

	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldQuantity, "5"))

	updated := apple()
	updated.Quantity = decimal.NewFromInt(5)
	echo := domain.StockPatch{Quantity: &updated.Quantity}
	api.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p domain.StockPatch) bool {
		return p.Quantity != nil && p.Quantity.Equal(decimal.NewFromInt(5))
	})).Return(echo, nil)

	require.NoError(t, model.SaveEdit(context.Background()))

	stocks := model.Stocks()
	assert.Equal(t, updated, stocks[0])
	assert.Equal(t, tesla(), stocks[1])
	assert.Nil(t, model.Snapshot().Edit)
	assert.True(t, decimal.NewFromInt(900).Equal(model.ComputeTotalValue()))
}

func TestSaveEdit_TickerChangeDropsCachedPrice(t *testing.T) {
	model, api := newLoadedModel(t, apple())

	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldTicker, "AAPL.US"))

	ticker := "AAPL.US"
	api.On("Update", mock.Anything, int64(1), mock.Anything).Return(domain.StockPatch{Ticker: &ticker, ClearPrice: true}, nil)

	require.NoError(t, model.SaveEdit(context.Background()))

	stock := model.Stocks()[0]
	assert.Equal(t, "AAPL.US", stock.Ticker)
	assert.Nil(t, stock.CurrentPrice)
	assert.True(t, model.ComputeTotalValue().IsZero())
}

func TestSaveEdit_FailureKeepsEditActive(t *testing.T) {
	model, api := newLoadedModel(t, apple())
	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldName, "Apple"))

	api.On("Update", mock.Anything, int64(1), mock.Anything).Return(domain.StockPatch{}, errors.New("timeout"))

	err := model.SaveEdit(context.Background())

	assert.Error(t, err)
	edit := model.Snapshot().Edit
	require.NotNil(t, edit)
	assert.Equal(t, "Apple", edit.Name)
	assert.Equal(t, "Apple Inc.", model.Stocks()[0].Name)
}

func TestSaveEdit_InvalidDraftSkipsAPI(t *testing.T) {
	model, api := newLoadedModel(t, apple())
	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldQuantity, "-2"))

	err := model.SaveEdit(context.Background())

	assert.True(t, domain.IsValidation(err))
	assert.NotNil(t, model.Snapshot().Edit)
	api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditLifecycle(t *testing.T) {
	model, _ := newLoadedModel(t, apple(), tesla())

	assert.ErrorIs(t, model.UpdateEditField(domain.FieldName, "x"), domain.ErrNoActiveEdit)
	assert.ErrorIs(t, model.SaveEdit(context.Background()), domain.ErrNoActiveEdit)

	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldTicker, "APL"))
	assert.ErrorIs(t, model.UpdateEditField(domain.Field("currentPrice"), "1"), domain.ErrUnknownField)

	// Starting another edit must not silently drop the unsaved draft
	assert.ErrorIs(t, model.BeginEdit(tesla()), domain.ErrEditInProgress)
	assert.Equal(t, "APL", model.Snapshot().Edit.Ticker)

	// Re-entering the same stock keeps the draft
	require.NoError(t, model.BeginEdit(apple()))
	assert.Equal(t, "APL", model.Snapshot().Edit.Ticker)

	assert.True(t, model.DiscardEdit())
	assert.False(t, model.DiscardEdit())
	require.NoError(t, model.BeginEditByID(2))
	assert.Equal(t, int64(2), model.Snapshot().Edit.ID)

	model.DiscardEdit()
	assert.ErrorIs(t, model.BeginEditByID(99), domain.ErrStockNotFound)
}

func TestSaveEdit_DiscardsSupersededResponse(t *testing.T) {
	model, api := newLoadedModel(t, apple())

	started := make(chan struct{})
	release := make(chan struct{})
	five := decimal.NewFromInt(5)
	seven := decimal.NewFromInt(7)

	api.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p domain.StockPatch) bool {
		return p.Quantity.Equal(five)
	})).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(domain.StockPatch{Quantity: &five}, nil).Once()
	api.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p domain.StockPatch) bool {
		return p.Quantity.Equal(seven)
	})).Return(domain.StockPatch{Quantity: &seven}, nil).Once()

	require.NoError(t, model.BeginEdit(apple()))
	require.NoError(t, model.UpdateEditField(domain.FieldQuantity, "5"))

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = model.SaveEdit(context.Background())
	}()
	<-started

	require.NoError(t, model.UpdateEditField(domain.FieldQuantity, "7"))
	require.NoError(t, model.SaveEdit(context.Background()))

	close(release)
	wg.Wait()

	assert.True(t, IsStale(firstErr))
	assert.True(t, seven.Equal(model.Stocks()[0].Quantity))
	api.AssertExpectations(t)
}

func TestLoad_OlderResultDoesNotOverwriteNewer(t *testing.T) {
	api := new(MockStockAPI)
	model := NewModel(api, zerolog.Nop())

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("List", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.Stock{apple()}, nil).Once()
	api.On("List", mock.Anything).Return([]domain.Stock{apple(), tesla()}, nil).Once()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = model.Load(context.Background())
	}()
	<-started

	require.NoError(t, model.Load(context.Background()))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, firstErr, domain.ErrStaleResponse)
	assert.Len(t, model.Stocks(), 2)
}

func TestCatalogSelection(t *testing.T) {
	model := NewModel(new(MockStockAPI), zerolog.Nop())

	require.NoError(t, model.SelectCatalogName("NVIDIA Corporation"))
	assert.Equal(t, "NVDA", model.Draft().Ticker)

	// Free text overrides one field without reverting the other
	require.NoError(t, model.SetDraftField(domain.FieldTicker, "NVDA.DE"))
	assert.Equal(t, "NVIDIA Corporation", model.Draft().Name)
	assert.Equal(t, "NVDA.DE", model.Draft().Ticker)

	err := model.SelectCatalogTicker("ZZZ")
	assert.ErrorIs(t, err, domain.ErrNotInCatalog)
	assert.Equal(t, "NVDA.DE", model.Draft().Ticker)

	model.ResetDraft()
	assert.Equal(t, domain.DefaultNewStockDraft(), model.Draft())
}

func TestStocksReturnsCopies(t *testing.T) {
	model, _ := newLoadedModel(t, apple())

	stocks := model.Stocks()
	stocks[0].Name = "changed"
	*stocks[0].CurrentPrice = decimal.Zero

	assert.Equal(t, "Apple Inc.", model.Stocks()[0].Name)
	assert.True(t, decimal.NewFromInt(1800).Equal(model.ComputeTotalValue()))
}
