package service

import (
	"context"
	"time"

	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the body without a database transaction so unit tests
// can observe repository calls directly.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// recordingNotifier captures broadcast stock events for assertions.
type recordingNotifier struct {
	events []StockEvent
}

func (n *recordingNotifier) BroadcastStockChange(event StockEvent) {
	n.events = append(n.events, event)
}

type mockVendorRepo struct{ mock.Mock }

func (m *mockVendorRepo) Create(ctx context.Context, vendor *model.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *mockVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVendorRepo) List(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error) {
	args := m.Called(ctx, search, page, limit)
	return args.Get(0).([]model.Vendor), args.Get(1).(int64), args.Error(2)
}

func (m *mockVendorRepo) Update(ctx context.Context, vendor *model.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *mockVendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) List(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error) {
	args := m.Called(ctx, search, page, limit)
	return args.Get(0).([]model.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockThreadPurchaseRepo struct{ mock.Mock }

func (m *mockThreadPurchaseRepo) Create(ctx context.Context, purchase *model.ThreadPurchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *mockThreadPurchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ThreadPurchase, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.ThreadPurchase), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockThreadPurchaseRepo) List(ctx context.Context, filter repository.ThreadPurchaseFilter) ([]model.ThreadPurchase, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.ThreadPurchase), args.Get(1).(int64), args.Error(2)
}

func (m *mockThreadPurchaseRepo) Update(ctx context.Context, purchase *model.ThreadPurchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *mockThreadPurchaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockThreadPurchaseRepo) CountFabricReferences(ctx context.Context, purchaseID uuid.UUID) (int64, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockThreadPurchaseRepo) DeleteChildren(ctx context.Context, purchaseID uuid.UUID) error {
	return m.Called(ctx, purchaseID).Error(0)
}

type mockThreadTypeRepo struct{ mock.Mock }

func (m *mockThreadTypeRepo) FindByNameInsensitive(ctx context.Context, name string) (*model.ThreadType, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*model.ThreadType), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockThreadTypeRepo) Create(ctx context.Context, threadType *model.ThreadType) error {
	return m.Called(ctx, threadType).Error(0)
}

func (m *mockThreadTypeRepo) List(ctx context.Context) ([]model.ThreadType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.ThreadType), args.Error(1)
}

type mockDyeingRepo struct{ mock.Mock }

func (m *mockDyeingRepo) Create(ctx context.Context, process *model.DyeingProcess) error {
	return m.Called(ctx, process).Error(0)
}

func (m *mockDyeingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DyeingProcess, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.DyeingProcess), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDyeingRepo) List(ctx context.Context, resultStatus string, page, limit int) ([]model.DyeingProcess, int64, error) {
	args := m.Called(ctx, resultStatus, page, limit)
	return args.Get(0).([]model.DyeingProcess), args.Get(1).(int64), args.Error(2)
}

func (m *mockDyeingRepo) Update(ctx context.Context, process *model.DyeingProcess) error {
	return m.Called(ctx, process).Error(0)
}

func (m *mockDyeingRepo) UpdateInventoryStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockDyeingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDyeingRepo) DeleteChildren(ctx context.Context, processID uuid.UUID) error {
	return m.Called(ctx, processID).Error(0)
}

type mockFabricRepo struct{ mock.Mock }

func (m *mockFabricRepo) Create(ctx context.Context, production *model.FabricProduction) error {
	return m.Called(ctx, production).Error(0)
}

func (m *mockFabricRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FabricProduction, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.FabricProduction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFabricRepo) List(ctx context.Context, status string, page, limit int) ([]model.FabricProduction, int64, error) {
	args := m.Called(ctx, status, page, limit)
	return args.Get(0).([]model.FabricProduction), args.Get(1).(int64), args.Error(2)
}

func (m *mockFabricRepo) Update(ctx context.Context, production *model.FabricProduction) error {
	return m.Called(ctx, production).Error(0)
}

func (m *mockFabricRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFabricRepo) CountSalesReferences(ctx context.Context, productionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFabricRepo) DeleteChildren(ctx context.Context, productionID uuid.UUID) error {
	return m.Called(ctx, productionID).Error(0)
}

type mockInventoryRepo struct{ mock.Mock }

func (m *mockInventoryRepo) Create(ctx context.Context, item *model.Inventory) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Inventory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryRepo) FindByIDWithTransactions(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Inventory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryRepo) FindByThreadPurchase(ctx context.Context, purchaseID uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, purchaseID)
	if v := args.Get(0); v != nil {
		return v.(*model.Inventory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryRepo) FindByFabricProduction(ctx context.Context, productionID uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, productionID)
	if v := args.Get(0); v != nil {
		return v.(*model.Inventory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]model.Inventory, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Inventory), args.Get(1).(int64), args.Error(2)
}

func (m *mockInventoryRepo) Update(ctx context.Context, item *model.Inventory) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockInventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockInventoryTxRepo struct{ mock.Mock }

func (m *mockInventoryTxRepo) Create(ctx context.Context, tx *model.InventoryTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockInventoryTxRepo) CreateForDyeingProcess(ctx context.Context, tx *model.InventoryTransaction) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}

func (m *mockInventoryTxRepo) ListByInventory(ctx context.Context, inventoryID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error) {
	args := m.Called(ctx, inventoryID, page, limit)
	return args.Get(0).([]model.InventoryTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockInventoryTxRepo) ExistsForDyeingProcess(ctx context.Context, processID uuid.UUID) (bool, error) {
	args := m.Called(ctx, processID)
	return args.Bool(0), args.Error(1)
}

type mockSalesOrderRepo struct{ mock.Mock }

func (m *mockSalesOrderRepo) Create(ctx context.Context, order *model.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockSalesOrderRepo) CreateItem(ctx context.Context, item *model.SalesOrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockSalesOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSalesOrderRepo) List(ctx context.Context, filter repository.SalesOrderFilter) ([]model.SalesOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *mockSalesOrderRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.SalesOrder, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

func (m *mockSalesOrderRepo) Update(ctx context.Context, order *model.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockSalesOrderRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

type mockLedgerBillRepo struct{ mock.Mock }

func (m *mockLedgerBillRepo) Create(ctx context.Context, bill *model.LedgerBill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockLedgerBillRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerBill, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.LedgerBill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedgerBillRepo) List(ctx context.Context, khataID *uuid.UUID, billType, status string, page, limit int) ([]model.LedgerBill, int64, error) {
	args := m.Called(ctx, khataID, billType, status, page, limit)
	return args.Get(0).([]model.LedgerBill), args.Get(1).(int64), args.Error(2)
}

func (m *mockLedgerBillRepo) Update(ctx context.Context, bill *model.LedgerBill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockLedgerBillRepo) CountByKhataAndType(ctx context.Context, khataID uuid.UUID, billType string) (int64, error) {
	args := m.Called(ctx, khataID, billType)
	return args.Get(0).(int64), args.Error(1)
}

type mockLedgerTxRepo struct{ mock.Mock }

func (m *mockLedgerTxRepo) Create(ctx context.Context, tx *model.LedgerTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockLedgerTxRepo) ListByBill(ctx context.Context, billID uuid.UUID) ([]model.LedgerTransaction, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]model.LedgerTransaction), args.Error(1)
}

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockPaymentRepo) ListBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.Payment), args.Error(1)
}
