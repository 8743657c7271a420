package service

import (
	"context"
	"strings"
	"testing"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newThreadServiceForTest() (ThreadService, *mockThreadPurchaseRepo, *mockThreadTypeRepo, *mockVendorRepo, *mockInventoryRepo, *mockInventoryTxRepo, *mockDyeingRepo, *mockPaymentRepo, *recordingNotifier) {
	purchaseRepo := new(mockThreadPurchaseRepo)
	threadTypeRepo := new(mockThreadTypeRepo)
	vendorRepo := new(mockVendorRepo)
	inventoryRepo := new(mockInventoryRepo)
	inventoryTxRepo := new(mockInventoryTxRepo)
	dyeingRepo := new(mockDyeingRepo)
	paymentRepo := new(mockPaymentRepo)
	notifier := new(recordingNotifier)

	svc := NewThreadService(purchaseRepo, threadTypeRepo, vendorRepo, inventoryRepo, inventoryTxRepo, dyeingRepo, paymentRepo, fakeTxManager{}, notifier)
	return svc, purchaseRepo, threadTypeRepo, vendorRepo, inventoryRepo, inventoryTxRepo, dyeingRepo, paymentRepo, notifier
}

func TestCreatePurchaseComputesTotalCost(t *testing.T) {
	svc, purchaseRepo, _, vendorRepo, _, _, _, _, _ := newThreadServiceForTest()

	vendorID := uuid.New()
	vendorRepo.On("FindByID", mock.Anything, vendorID).Return(&model.Vendor{ID: vendorID, Name: "Ali Traders"}, nil)
	purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ThreadPurchase")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*model.ThreadPurchase)
			p.ID = uuid.New()
		}).
		Return(nil)

	res, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		VendorID:   vendorID.String(),
		ThreadType: "Cotton",
		Quantity:   100,
		UnitPrice:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.TotalCost)
	assert.Equal(t, model.ColorStatusRaw, res.ColorStatus)
	assert.Equal(t, "kg", res.UnitOfMeasure)
	assert.False(t, res.Received)
	purchaseRepo.AssertExpectations(t)
}

func TestCreatePurchaseUnknownVendor(t *testing.T) {
	svc, _, _, vendorRepo, _, _, _, _, _ := newThreadServiceForTest()

	vendorID := uuid.New()
	vendorRepo.On("FindByID", mock.Anything, vendorID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		VendorID:   vendorID.String(),
		ThreadType: "Cotton",
		Quantity:   10,
		UnitPrice:  5,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePurchaseReceivedAddsInventory(t *testing.T) {
	svc, purchaseRepo, threadTypeRepo, vendorRepo, inventoryRepo, inventoryTxRepo, _, _, notifier := newThreadServiceForTest()

	vendorID := uuid.New()
	threadTypeID := uuid.New()
	vendorRepo.On("FindByID", mock.Anything, vendorID).Return(&model.Vendor{ID: vendorID}, nil)
	purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ThreadPurchase")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.ThreadPurchase).ID = uuid.New()
		}).
		Return(nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: threadTypeID, Name: "Cotton"}, nil)

	var createdItem *model.Inventory
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Run(func(args mock.Arguments) {
			createdItem = args.Get(1).(*model.Inventory)
			createdItem.ID = uuid.New()
		}).
		Return(nil)

	var createdTx *model.InventoryTransaction
	inventoryTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).
		Run(func(args mock.Arguments) {
			createdTx = args.Get(1).(*model.InventoryTransaction)
		}).
		Return(nil)

	_, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		VendorID:       vendorID.String(),
		ThreadType:     "Cotton",
		Quantity:       100,
		UnitPrice:      10,
		Received:       true,
		AddToInventory: true,
	})
	require.NoError(t, err)

	require.NotNil(t, createdItem)
	assert.True(t, strings.HasPrefix(createdItem.ItemCode, "THR-"))
	assert.Equal(t, model.ProductTypeThread, createdItem.ProductType)
	assert.Equal(t, &threadTypeID, createdItem.ThreadTypeID)
	assert.True(t, createdItem.CurrentQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, createdItem.CostPerUnit.Equal(decimal.NewFromInt(10)))
	assert.True(t, createdItem.SalePrice.Equal(decimal.NewFromInt(12)), "sale price should carry the thread markup")
	assert.True(t, createdItem.MinStockLevel.Equal(decimal.NewFromInt(100)))

	require.NotNil(t, createdTx)
	assert.Equal(t, model.TxTypePurchase, createdTx.TransactionType)
	assert.True(t, createdTx.Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, createdTx.RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, createdTx.TotalCost.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, createdTx.ThreadPurchaseID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, createdItem.ItemCode, notifier.events[0].ItemCode)
	assert.Equal(t, 100.0, notifier.events[0].CurrentQuantity)
}

func TestCreatePurchaseInventoryFailureKeepsPurchase(t *testing.T) {
	svc, purchaseRepo, threadTypeRepo, vendorRepo, inventoryRepo, _, _, _, _ := newThreadServiceForTest()

	vendorID := uuid.New()
	vendorRepo.On("FindByID", mock.Anything, vendorID).Return(&model.Vendor{ID: vendorID}, nil)
	purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ThreadPurchase")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.ThreadPurchase).ID = uuid.New()
		}).
		Return(nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: uuid.New(), Name: "Cotton"}, nil)
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Return(assert.AnError)

	res, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		VendorID:       vendorID.String(),
		ThreadType:     "Cotton",
		Quantity:       50,
		UnitPrice:      8,
		Received:       true,
		AddToInventory: true,
	})

	// The purchase survives the failed inventory conversion.
	require.NoError(t, err)
	assert.Equal(t, 400.0, res.TotalCost)
}

func TestCreatePurchaseSpawnsDyeingProcess(t *testing.T) {
	svc, purchaseRepo, _, vendorRepo, _, _, dyeingRepo, _, _ := newThreadServiceForTest()

	vendorID := uuid.New()
	vendorRepo.On("FindByID", mock.Anything, vendorID).Return(&model.Vendor{ID: vendorID}, nil)
	purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ThreadPurchase")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.ThreadPurchase).ID = uuid.New()
		}).
		Return(nil)

	var spawned *model.DyeingProcess
	dyeingRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.DyeingProcess")).
		Run(func(args mock.Arguments) {
			spawned = args.Get(1).(*model.DyeingProcess)
		}).
		Return(nil)

	_, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		VendorID:            vendorID.String(),
		ThreadType:          "Polyester",
		Quantity:            30,
		UnitPrice:           6,
		CreateDyeingProcess: true,
	})
	require.NoError(t, err)

	require.NotNil(t, spawned)
	assert.Equal(t, model.DyeStatusPending, spawned.ResultStatus)
	assert.Equal(t, model.DyeInventoryPending, spawned.InventoryStatus)
	assert.True(t, spawned.DyeQuantity.Equal(decimal.NewFromInt(30)))
}

func TestUpdatePurchaseLateReceiptAddsInventory(t *testing.T) {
	svc, purchaseRepo, threadTypeRepo, _, inventoryRepo, inventoryTxRepo, _, _, _ := newThreadServiceForTest()

	purchaseID := uuid.New()
	existing := &model.ThreadPurchase{
		ID:            purchaseID,
		VendorID:      uuid.New(),
		ThreadType:    "Cotton",
		ColorStatus:   model.ColorStatusRaw,
		Quantity:      decimal.NewFromInt(40),
		UnitOfMeasure: "kg",
		UnitPrice:     decimal.NewFromInt(5),
		TotalCost:     decimal.NewFromInt(200),
	}
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).Return(existing, nil)
	purchaseRepo.On("Update", mock.Anything, existing).Return(nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: uuid.New(), Name: "Cotton"}, nil)
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Inventory).ID = uuid.New()
		}).
		Return(nil)
	inventoryTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).Return(nil)

	received := true
	res, err := svc.UpdatePurchase(context.Background(), purchaseID.String(), UpdatePurchaseRequest{
		Received:       &received,
		AddToInventory: true,
	})
	require.NoError(t, err)

	assert.True(t, res.Received)
	require.NotNil(t, res.ReceivedAt)
	inventoryRepo.AssertExpectations(t)
	inventoryTxRepo.AssertExpectations(t)
}

func TestDeletePurchaseBlockedByFabricReferences(t *testing.T) {
	svc, purchaseRepo, _, _, _, _, _, _, _ := newThreadServiceForTest()

	purchaseID := uuid.New()
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).Return(&model.ThreadPurchase{ID: purchaseID}, nil)
	purchaseRepo.On("CountFabricReferences", mock.Anything, purchaseID).Return(int64(2), nil)

	err := svc.DeletePurchase(context.Background(), purchaseID.String())
	assert.ErrorIs(t, err, ErrHasDependents)
	purchaseRepo.AssertNotCalled(t, "Delete", mock.Anything, purchaseID)
}

func TestDeletePurchaseCascadesChildren(t *testing.T) {
	svc, purchaseRepo, _, _, _, _, _, _, _ := newThreadServiceForTest()

	purchaseID := uuid.New()
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).Return(&model.ThreadPurchase{ID: purchaseID}, nil)
	purchaseRepo.On("CountFabricReferences", mock.Anything, purchaseID).Return(int64(0), nil)
	purchaseRepo.On("DeleteChildren", mock.Anything, purchaseID).Return(nil)
	purchaseRepo.On("Delete", mock.Anything, purchaseID).Return(nil)

	err := svc.DeletePurchase(context.Background(), purchaseID.String())
	require.NoError(t, err)
	purchaseRepo.AssertExpectations(t)
}

func TestGenerateItemCode(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-0000-0000-000000000000")
	code := generateItemCode("THR", id)
	assert.True(t, strings.HasPrefix(code, "THR-1a2b3c4d-"))
}
