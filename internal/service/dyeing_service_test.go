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
)

func newDyeingServiceForTest() (DyeingService, *mockDyeingRepo, *mockThreadPurchaseRepo, *mockThreadTypeRepo, *mockInventoryRepo, *mockInventoryTxRepo, *recordingNotifier) {
	dyeingRepo := new(mockDyeingRepo)
	purchaseRepo := new(mockThreadPurchaseRepo)
	threadTypeRepo := new(mockThreadTypeRepo)
	inventoryRepo := new(mockInventoryRepo)
	inventoryTxRepo := new(mockInventoryTxRepo)
	notifier := new(recordingNotifier)

	svc := NewDyeingService(dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, fakeTxManager{}, notifier)
	return svc, dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, notifier
}

func pendingProcess(purchaseID uuid.UUID) *model.DyeingProcess {
	return &model.DyeingProcess{
		ID:               uuid.New(),
		ThreadPurchaseID: purchaseID,
		DyeQuantity:      decimal.NewFromInt(50),
		LaborCost:        decimal.NewFromInt(100),
		DyeMaterialCost:  decimal.NewFromInt(150),
		TotalCost:        decimal.NewFromInt(250),
		ResultStatus:     model.DyeStatusPending,
		InventoryStatus:  model.DyeInventoryPending,
	}
}

func TestUpdateProcessRecomputesTotalCost(t *testing.T) {
	svc, dyeingRepo, _, _, _, _, _ := newDyeingServiceForTest()

	process := pendingProcess(uuid.New())
	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)

	labor := 120.0
	clientTotal := 999.0
	res, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		LaborCost: &labor,
		TotalCost: &clientTotal,
	})
	require.NoError(t, err)

	// Server-side recomputation wins over the client total.
	assert.Equal(t, 270.0, res.TotalCost)
}

func TestUpdateProcessAcceptsClientTotalWithoutComponents(t *testing.T) {
	svc, dyeingRepo, _, _, _, _, _ := newDyeingServiceForTest()

	process := pendingProcess(uuid.New())
	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)

	clientTotal := 300.0
	res, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		TotalCost: &clientTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, res.TotalCost)
}

func TestUpdateProcessCompletionSetsCompletionDate(t *testing.T) {
	svc, dyeingRepo, _, _, _, _, _ := newDyeingServiceForTest()

	process := pendingProcess(uuid.New())
	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)

	status := model.DyeStatusCompleted
	res, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		ResultStatus: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, model.DyeStatusCompleted, res.ResultStatus)
	require.NotNil(t, res.CompletionDate)
}

func TestCompletedProcessFoldsIntoInventoryOnce(t *testing.T) {
	svc, dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, notifier := newDyeingServiceForTest()

	purchaseID := uuid.New()
	process := pendingProcess(purchaseID)
	process.OutputQuantity = decimal.NewFromInt(50)
	process.ColorName = "Navy"

	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)
	dyeingRepo.On("UpdateInventoryStatus", mock.Anything, process.ID, model.DyeInventoryAdded).Return(nil)
	inventoryTxRepo.On("ExistsForDyeingProcess", mock.Anything, process.ID).Return(false, nil)
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).
		Return(&model.ThreadPurchase{ID: purchaseID, ThreadType: "Cotton", UnitOfMeasure: "kg"}, nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: uuid.New(), Name: "Cotton"}, nil)

	var createdItem *model.Inventory
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Run(func(args mock.Arguments) {
			createdItem = args.Get(1).(*model.Inventory)
			createdItem.ID = uuid.New()
		}).
		Return(nil)
	inventoryTxRepo.On("CreateForDyeingProcess", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).
		Return(true, nil)

	status := model.DyeStatusCompleted
	res, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		ResultStatus:   &status,
		AddToInventory: true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.DyeInventoryAdded, res.InventoryStatus)
	require.NotNil(t, createdItem)
	assert.True(t, strings.HasPrefix(createdItem.ItemCode, "DT-"))
	// unit cost 250/50 = 5, sale price carries the dyed markup: 6.25
	assert.True(t, createdItem.CostPerUnit.Equal(decimal.NewFromInt(5)))
	assert.True(t, createdItem.SalePrice.Equal(decimal.NewFromFloat(6.25)))
	require.Len(t, notifier.events, 1)
}

func TestCompletedProcessSkipsWhenAlreadyConverted(t *testing.T) {
	svc, dyeingRepo, _, _, inventoryRepo, inventoryTxRepo, _ := newDyeingServiceForTest()

	process := pendingProcess(uuid.New())
	process.OutputQuantity = decimal.NewFromInt(50)

	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)
	inventoryTxRepo.On("ExistsForDyeingProcess", mock.Anything, process.ID).Return(true, nil)

	status := model.DyeStatusCompleted
	_, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		ResultStatus:   &status,
		AddToInventory: true,
	})
	require.NoError(t, err)
	inventoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompletedProcessLosesInsertRace(t *testing.T) {
	svc, dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, notifier := newDyeingServiceForTest()

	purchaseID := uuid.New()
	process := pendingProcess(purchaseID)
	process.OutputQuantity = decimal.NewFromInt(50)

	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)
	inventoryTxRepo.On("ExistsForDyeingProcess", mock.Anything, process.ID).Return(false, nil)
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).
		Return(&model.ThreadPurchase{ID: purchaseID, ThreadType: "Cotton"}, nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: uuid.New(), Name: "Cotton"}, nil)
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Inventory).ID = uuid.New()
		}).
		Return(nil)
	// Conflict clause swallowed the insert: a concurrent request won.
	inventoryTxRepo.On("CreateForDyeingProcess", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).
		Return(false, nil)

	status := model.DyeStatusCompleted
	_, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		ResultStatus:   &status,
		AddToInventory: true,
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.events, "losing the race must not broadcast a stock change")
	dyeingRepo.AssertNotCalled(t, "UpdateInventoryStatus", mock.Anything, process.ID, model.DyeInventoryAdded)
}

func TestZeroOutputQuantityYieldsZeroUnitCost(t *testing.T) {
	svc, dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, _ := newDyeingServiceForTest()

	purchaseID := uuid.New()
	process := pendingProcess(purchaseID)

	dyeingRepo.On("FindByID", mock.Anything, process.ID).Return(process, nil)
	dyeingRepo.On("Update", mock.Anything, process).Return(nil)
	dyeingRepo.On("UpdateInventoryStatus", mock.Anything, process.ID, model.DyeInventoryAdded).Return(nil)
	inventoryTxRepo.On("ExistsForDyeingProcess", mock.Anything, process.ID).Return(false, nil)
	purchaseRepo.On("FindByID", mock.Anything, purchaseID).
		Return(&model.ThreadPurchase{ID: purchaseID, ThreadType: "Cotton"}, nil)
	threadTypeRepo.On("FindByNameInsensitive", mock.Anything, "Cotton").
		Return(&model.ThreadType{ID: uuid.New(), Name: "Cotton"}, nil)

	var createdItem *model.Inventory
	inventoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Inventory")).
		Run(func(args mock.Arguments) {
			createdItem = args.Get(1).(*model.Inventory)
			createdItem.ID = uuid.New()
		}).
		Return(nil)
	inventoryTxRepo.On("CreateForDyeingProcess", mock.Anything, mock.AnythingOfType("*model.InventoryTransaction")).
		Return(true, nil)

	status := model.DyeStatusCompleted
	_, err := svc.UpdateProcess(context.Background(), process.ID.String(), UpdateDyeingRequest{
		ResultStatus:   &status,
		AddToInventory: true,
	})
	require.NoError(t, err)

	require.NotNil(t, createdItem)
	assert.True(t, createdItem.CostPerUnit.IsZero())
	assert.True(t, createdItem.SalePrice.IsZero())
}
