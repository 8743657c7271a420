package repository

import (
	"context"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FabricProductionRepository interface {
	Create(ctx context.Context, production *model.FabricProduction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FabricProduction, error)
	List(ctx context.Context, status string, page, limit int) ([]model.FabricProduction, int64, error)
	Update(ctx context.Context, production *model.FabricProduction) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSalesReferences(ctx context.Context, productionID uuid.UUID) (int64, error)
	DeleteChildren(ctx context.Context, productionID uuid.UUID) error
}

type fabricProductionRepository struct {
	db *gorm.DB
}

func NewFabricProductionRepository(db *gorm.DB) FabricProductionRepository {
	return &fabricProductionRepository{db: db}
}

func (r *fabricProductionRepository) Create(ctx context.Context, production *model.FabricProduction) error {
	return GetDB(ctx, r.db).Create(production).Error
}

func (r *fabricProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FabricProduction, error) {
	var production model.FabricProduction
	if err := GetDB(ctx, r.db).
		Preload("SourceThread").
		Preload("DyeingProcess").
		First(&production, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &production, nil
}

func (r *fabricProductionRepository) List(ctx context.Context, status string, page, limit int) ([]model.FabricProduction, int64, error) {
	var productions []model.FabricProduction
	var total int64

	query := GetDB(ctx, r.db).Model(&model.FabricProduction{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("SourceThread").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&productions).Error; err != nil {
		return nil, 0, err
	}

	return productions, total, nil
}

func (r *fabricProductionRepository) Update(ctx context.Context, production *model.FabricProduction) error {
	return GetDB(ctx, r.db).Save(production).Error
}

func (r *fabricProductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.FabricProduction{}, "id = ?", id).Error
}

// CountSalesReferences reports how many sales order items reference this
// production; deletion is blocked while any exist.
func (r *fabricProductionRepository) CountSalesReferences(ctx context.Context, productionID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.SalesOrderItem{}).
		Where("fabric_production_id = ?", productionID).
		Count(&count).Error
	return count, err
}

func (r *fabricProductionRepository) DeleteChildren(ctx context.Context, productionID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.InventoryTransaction{}, "fabric_production_id = ?", productionID).Error
}
