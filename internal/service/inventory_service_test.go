package service

import (
	"context"
	"testing"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventoryServiceForTest() (InventoryService, *mockInventoryRepo, *mockInventoryTxRepo, *recordingNotifier) {
	inventoryRepo := new(mockInventoryRepo)
	inventoryTxRepo := new(mockInventoryTxRepo)
	notifier := new(recordingNotifier)
	svc := NewInventoryService(inventoryRepo, inventoryTxRepo, fakeTxManager{}, notifier)
	return svc, inventoryRepo, inventoryTxRepo, notifier
}

func stockedItem(id uuid.UUID) *model.Inventory {
	return &model.Inventory{
		ID:              id,
		ItemCode:        "THR-xyz",
		ProductType:     model.ProductTypeThread,
		CurrentQuantity: decimal.NewFromInt(50),
		MinStockLevel:   decimal.NewFromInt(100),
		CostPerUnit:     decimal.NewFromInt(8),
	}
}

func TestAdjustItemRecordsAdjustmentTransaction(t *testing.T) {
	svc, inventoryRepo, inventoryTxRepo, notifier := newInventoryServiceForTest()

	itemID := uuid.New()
	inventoryRepo.On("FindByID", mock.Anything, itemID).Return(stockedItem(itemID), nil)
	inventoryRepo.On("AdjustQuantity", mock.Anything, itemID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(-30))
	})).Return(nil)

	var adjTx *model.InventoryTransaction
	inventoryTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).
		Run(func(args mock.Arguments) {
			adjTx = args.Get(1).(*model.InventoryTransaction)
		}).
		Return(nil)

	res, err := svc.AdjustItem(context.Background(), itemID.String(), AdjustInventoryRequest{
		Quantity: -30,
		Notes:    "damaged in transit",
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, res.CurrentQuantity)
	assert.True(t, res.LowStock)

	require.NotNil(t, adjTx)
	assert.Equal(t, model.TxTypeAdjustment, adjTx.TransactionType)
	assert.True(t, adjTx.Quantity.Equal(decimal.NewFromInt(30)), "movement quantity is stored unsigned")
	assert.True(t, adjTx.UnitCost.Equal(decimal.NewFromInt(8)))
	assert.True(t, adjTx.TotalCost.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, "damaged in transit", adjTx.Notes)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "THR-xyz", notifier.events[0].ItemCode)
	assert.Equal(t, 20.0, notifier.events[0].CurrentQuantity)
}

func TestAdjustItemRejectsZeroQuantity(t *testing.T) {
	svc, inventoryRepo, inventoryTxRepo, _ := newInventoryServiceForTest()

	itemID := uuid.New()
	inventoryRepo.On("FindByID", mock.Anything, itemID).Return(stockedItem(itemID), nil)

	_, err := svc.AdjustItem(context.Background(), itemID.String(), AdjustInventoryRequest{Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)
	inventoryTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdjustItemRejectsNegativeResult(t *testing.T) {
	svc, inventoryRepo, inventoryTxRepo, notifier := newInventoryServiceForTest()

	itemID := uuid.New()
	inventoryRepo.On("FindByID", mock.Anything, itemID).Return(stockedItem(itemID), nil)

	_, err := svc.AdjustItem(context.Background(), itemID.String(), AdjustInventoryRequest{Quantity: -51})
	assert.ErrorIs(t, err, ErrValidation)
	inventoryRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything)
	inventoryTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.events)
}

func TestAdjustItemInvalidID(t *testing.T) {
	svc, _, _, _ := newInventoryServiceForTest()

	_, err := svc.AdjustItem(context.Background(), "not-a-uuid", AdjustInventoryRequest{Quantity: 5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListItemTransactionsPagesHistory(t *testing.T) {
	svc, inventoryRepo, inventoryTxRepo, _ := newInventoryServiceForTest()

	itemID := uuid.New()
	inventoryRepo.On("FindByID", mock.Anything, itemID).Return(stockedItem(itemID), nil)
	inventoryTxRepo.On("ListByInventory", mock.Anything, itemID, 2, 10).Return([]model.InventoryTransaction{
		{ID: uuid.New(), TransactionType: model.TxTypeSales, Quantity: decimal.NewFromInt(5)},
	}, int64(11), nil)

	txs, total, err := svc.ListItemTransactions(context.Background(), itemID.String(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TxTypeSales, txs[0].TransactionType)
}

func TestListItemTransactionsUnknownItem(t *testing.T) {
	svc, inventoryRepo, inventoryTxRepo, _ := newInventoryServiceForTest()

	itemID := uuid.New()
	inventoryRepo.On("FindByID", mock.Anything, itemID).Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.ListItemTransactions(context.Background(), itemID.String(), 1, 20)
	assert.ErrorIs(t, err, ErrNotFound)
	inventoryTxRepo.AssertNotCalled(t, "ListByInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetItemIncludesTransactions(t *testing.T) {
	svc, inventoryRepo, _, _ := newInventoryServiceForTest()

	itemID := uuid.New()
	item := stockedItem(itemID)
	item.Transactions = []model.InventoryTransaction{
		{ID: uuid.New(), TransactionType: model.TxTypePurchase, Quantity: decimal.NewFromInt(50)},
		{ID: uuid.New(), TransactionType: model.TxTypeSales, Quantity: decimal.NewFromInt(10)},
	}
	inventoryRepo.On("FindByIDWithTransactions", mock.Anything, itemID).Return(item, nil)

	res, err := svc.GetItem(context.Background(), itemID.String())
	require.NoError(t, err)
	assert.Equal(t, "THR-xyz", res.ItemCode)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, model.TxTypePurchase, res.Transactions[0].TransactionType)
}
