package repository

import (
	"context"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows List results
type InventoryFilter struct {
	ProductType string
	LowStock    bool
	Search      string
	Page        int
	Limit       int
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.Inventory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	FindByIDWithTransactions(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	FindByThreadPurchase(ctx context.Context, purchaseID uuid.UUID) (*model.Inventory, error)
	FindByFabricProduction(ctx context.Context, productionID uuid.UUID) (*model.Inventory, error)
	List(ctx context.Context, filter InventoryFilter) ([]model.Inventory, int64, error)
	Update(ctx context.Context, item *model.Inventory) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.Inventory) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	if err := GetDB(ctx, r.db).Preload("ThreadType").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByIDWithTransactions(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	if err := GetDB(ctx, r.db).
		Preload("ThreadType").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_date DESC")
		}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByThreadPurchase(ctx context.Context, purchaseID uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	err := GetDB(ctx, r.db).
		Joins("JOIN inventory_transactions ON inventory_transactions.inventory_id = inventories.id").
		Where("inventory_transactions.thread_purchase_id = ?", purchaseID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByFabricProduction(ctx context.Context, productionID uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	err := GetDB(ctx, r.db).
		Joins("JOIN inventory_transactions ON inventory_transactions.inventory_id = inventories.id").
		Where("inventory_transactions.fabric_production_id = ?", productionID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) ([]model.Inventory, int64, error) {
	var items []model.Inventory
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Inventory{})
	if filter.ProductType != "" {
		query = query.Where("product_type = ?", filter.ProductType)
	}
	if filter.LowStock {
		query = query.Where("current_quantity < min_stock_level")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("item_code ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("ThreadType").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.Inventory) error {
	return GetDB(ctx, r.db).Save(item).Error
}

// AdjustQuantity moves current_quantity by delta atomically on the database
// side, avoiding read-modify-write races between concurrent movements.
func (r *inventoryRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Inventory{}).
		Where("id = ?", id).
		Update("current_quantity", gorm.Expr("current_quantity + ?", delta)).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Inventory{}, "id = ?", id).Error
}

type InventoryTxRepository interface {
	Create(ctx context.Context, tx *model.InventoryTransaction) error
	// CreateForDyeingProcess inserts the PRODUCTION transaction for a dyeing
	// process, relying on the partial unique index on dyeing_process_id to
	// make the insert a no-op when the process was already folded into
	// inventory. Returns false when the conflict clause swallowed the insert.
	CreateForDyeingProcess(ctx context.Context, tx *model.InventoryTransaction) (bool, error)
	ListByInventory(ctx context.Context, inventoryID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error)
	ExistsForDyeingProcess(ctx context.Context, processID uuid.UUID) (bool, error)
}

type inventoryTxRepository struct {
	db *gorm.DB
}

func NewInventoryTxRepository(db *gorm.DB) InventoryTxRepository {
	return &inventoryTxRepository{db: db}
}

func (r *inventoryTxRepository) Create(ctx context.Context, tx *model.InventoryTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *inventoryTxRepository) CreateForDyeingProcess(ctx context.Context, tx *model.InventoryTransaction) (bool, error) {
	// The arbiter index is partial, so the conflict target must repeat its
	// predicate or Postgres refuses to infer it.
	result := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "dyeing_process_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{gorm.Expr("dyeing_process_id IS NOT NULL")}},
			DoNothing:   true,
		}).
		Create(tx)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *inventoryTxRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error) {
	var txs []model.InventoryTransaction
	var total int64

	query := GetDB(ctx, r.db).Model(&model.InventoryTransaction{}).Where("inventory_id = ?", inventoryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("transaction_date DESC").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *inventoryTxRepository) ExistsForDyeingProcess(ctx context.Context, processID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.InventoryTransaction{}).
		Where("dyeing_process_id = ?", processID).
		Count(&count).Error
	return count > 0, err
}
