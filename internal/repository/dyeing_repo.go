package repository

import (
	"context"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DyeingProcessRepository interface {
	Create(ctx context.Context, process *model.DyeingProcess) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DyeingProcess, error)
	List(ctx context.Context, resultStatus string, page, limit int) ([]model.DyeingProcess, int64, error)
	Update(ctx context.Context, process *model.DyeingProcess) error
	UpdateInventoryStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteChildren(ctx context.Context, processID uuid.UUID) error
}

type dyeingProcessRepository struct {
	db *gorm.DB
}

func NewDyeingProcessRepository(db *gorm.DB) DyeingProcessRepository {
	return &dyeingProcessRepository{db: db}
}

func (r *dyeingProcessRepository) Create(ctx context.Context, process *model.DyeingProcess) error {
	return GetDB(ctx, r.db).Create(process).Error
}

func (r *dyeingProcessRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DyeingProcess, error) {
	var process model.DyeingProcess
	if err := GetDB(ctx, r.db).
		Preload("ThreadPurchase").
		Preload("ThreadPurchase.Vendor").
		First(&process, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &process, nil
}

func (r *dyeingProcessRepository) List(ctx context.Context, resultStatus string, page, limit int) ([]model.DyeingProcess, int64, error) {
	var processes []model.DyeingProcess
	var total int64

	query := GetDB(ctx, r.db).Model(&model.DyeingProcess{})
	if resultStatus != "" {
		query = query.Where("result_status = ?", resultStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("ThreadPurchase").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&processes).Error; err != nil {
		return nil, 0, err
	}

	return processes, total, nil
}

func (r *dyeingProcessRepository) Update(ctx context.Context, process *model.DyeingProcess) error {
	return GetDB(ctx, r.db).Save(process).Error
}

func (r *dyeingProcessRepository) UpdateInventoryStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.DyeingProcess{}).
		Where("id = ?", id).
		Update("inventory_status", status).Error
}

func (r *dyeingProcessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.DyeingProcess{}, "id = ?", id).Error
}

func (r *dyeingProcessRepository) DeleteChildren(ctx context.Context, processID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.InventoryTransaction{}, "dyeing_process_id = ?", processID).Error
}
