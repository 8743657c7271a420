package repository

import (
	"context"
	"time"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreadPurchaseFilter narrows List results
type ThreadPurchaseFilter struct {
	VendorID  *uuid.UUID
	Received  *bool
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type ThreadPurchaseRepository interface {
	Create(ctx context.Context, purchase *model.ThreadPurchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ThreadPurchase, error)
	List(ctx context.Context, filter ThreadPurchaseFilter) ([]model.ThreadPurchase, int64, error)
	Update(ctx context.Context, purchase *model.ThreadPurchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountFabricReferences(ctx context.Context, purchaseID uuid.UUID) (int64, error)
	DeleteChildren(ctx context.Context, purchaseID uuid.UUID) error
}

type threadPurchaseRepository struct {
	db *gorm.DB
}

func NewThreadPurchaseRepository(db *gorm.DB) ThreadPurchaseRepository {
	return &threadPurchaseRepository{db: db}
}

func (r *threadPurchaseRepository) Create(ctx context.Context, purchase *model.ThreadPurchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *threadPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ThreadPurchase, error) {
	var purchase model.ThreadPurchase
	if err := GetDB(ctx, r.db).
		Preload("Vendor").
		Preload("DyeingProcesses").
		Preload("Payments").
		First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *threadPurchaseRepository) List(ctx context.Context, filter ThreadPurchaseFilter) ([]model.ThreadPurchase, int64, error) {
	var purchases []model.ThreadPurchase
	var total int64

	query := GetDB(ctx, r.db).Model(&model.ThreadPurchase{})
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Received != nil {
		query = query.Where("received = ?", *filter.Received)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Vendor").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}

func (r *threadPurchaseRepository) Update(ctx context.Context, purchase *model.ThreadPurchase) error {
	return GetDB(ctx, r.db).Save(purchase).Error
}

func (r *threadPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.ThreadPurchase{}, "id = ?", id).Error
}

// CountFabricReferences reports how many fabric productions consume this
// purchase; deletion is blocked while any exist.
func (r *threadPurchaseRepository) CountFabricReferences(ctx context.Context, purchaseID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.FabricProduction{}).
		Where("source_thread_id = ?", purchaseID).
		Count(&count).Error
	return count, err
}

// DeleteChildren removes dyeing processes, payments and inventory
// transactions belonging to the purchase, including PRODUCTION transactions
// created when a dyeing process was folded into inventory. Callers run this
// inside a transaction together with Delete.
func (r *threadPurchaseRepository) DeleteChildren(ctx context.Context, purchaseID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	processIDs := db.Model(&model.DyeingProcess{}).
		Select("id").
		Where("thread_purchase_id = ?", purchaseID)
	if err := db.Delete(&model.InventoryTransaction{}, "dyeing_process_id IN (?)", processIDs).Error; err != nil {
		return err
	}
	if err := db.Delete(&model.InventoryTransaction{}, "thread_purchase_id = ?", purchaseID).Error; err != nil {
		return err
	}
	if err := db.Delete(&model.Payment{}, "thread_purchase_id = ?", purchaseID).Error; err != nil {
		return err
	}
	return db.Delete(&model.DyeingProcess{}, "thread_purchase_id = ?", purchaseID).Error
}

// ThreadTypeRepository resolves thread type catalog entries
type ThreadTypeRepository interface {
	FindByNameInsensitive(ctx context.Context, name string) (*model.ThreadType, error)
	Create(ctx context.Context, threadType *model.ThreadType) error
	List(ctx context.Context) ([]model.ThreadType, error)
}

type threadTypeRepository struct {
	db *gorm.DB
}

func NewThreadTypeRepository(db *gorm.DB) ThreadTypeRepository {
	return &threadTypeRepository{db: db}
}

func (r *threadTypeRepository) FindByNameInsensitive(ctx context.Context, name string) (*model.ThreadType, error) {
	var threadType model.ThreadType
	if err := GetDB(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&threadType).Error; err != nil {
		return nil, err
	}
	return &threadType, nil
}

func (r *threadTypeRepository) Create(ctx context.Context, threadType *model.ThreadType) error {
	return GetDB(ctx, r.db).Create(threadType).Error
}

func (r *threadTypeRepository) List(ctx context.Context) ([]model.ThreadType, error) {
	var types []model.ThreadType
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
