package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dyedItemCodePrefix = "DT"
	dyedMarkup         = 1.25
)

// errAlreadyConverted aborts the conversion transaction when a concurrent
// request won the unique-index race; the rollback discards the duplicate
// inventory row and the caller treats the outcome as a silent skip.
var errAlreadyConverted = errors.New("dyeing process already folded into inventory")

// --- DTOs ---

type CreateDyeingRequest struct {
	ThreadPurchaseID string  `json:"thread_purchase_id" binding:"required"`
	DyeDate          string  `json:"dye_date"`
	DyeParameters    string  `json:"dye_parameters"`
	ColorName        string  `json:"color_name"`
	ColorCode        string  `json:"color_code"`
	DyeQuantity      float64 `json:"dye_quantity" binding:"required,gt=0"`
	LaborCost        float64 `json:"labor_cost"`
	DyeMaterialCost  float64 `json:"dye_material_cost"`
	Remarks          string  `json:"remarks"`
}

type UpdateDyeingRequest struct {
	ResultStatus    *string  `json:"result_status" binding:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
	ColorName       *string  `json:"color_name"`
	ColorCode       *string  `json:"color_code"`
	OutputQuantity  *float64 `json:"output_quantity"`
	LaborCost       *float64 `json:"labor_cost"`
	DyeMaterialCost *float64 `json:"dye_material_cost"`
	TotalCost       *float64 `json:"total_cost"`
	CompletionDate  *string  `json:"completion_date"`
	Remarks         *string  `json:"remarks"`
	AddToInventory  bool     `json:"add_to_inventory"`
}

type DyeingResponse struct {
	ID               string  `json:"id"`
	ThreadPurchaseID string  `json:"thread_purchase_id"`
	ThreadType       string  `json:"thread_type,omitempty"`
	DyeDate          string  `json:"dye_date"`
	ColorName        string  `json:"color_name"`
	ColorCode        string  `json:"color_code"`
	DyeQuantity      float64 `json:"dye_quantity"`
	OutputQuantity   float64 `json:"output_quantity"`
	LaborCost        float64 `json:"labor_cost"`
	DyeMaterialCost  float64 `json:"dye_material_cost"`
	TotalCost        float64 `json:"total_cost"`
	ResultStatus     string  `json:"result_status"`
	InventoryStatus  string  `json:"inventory_status"`
	CompletionDate   *string `json:"completion_date"`
	Remarks          string  `json:"remarks"`
	CreatedAt        string  `json:"created_at"`
}

func toDyeingResponse(p model.DyeingProcess) DyeingResponse {
	res := DyeingResponse{
		ID:               p.ID.String(),
		ThreadPurchaseID: p.ThreadPurchaseID.String(),
		DyeDate:          p.DyeDate.Format(time.RFC3339),
		ColorName:        p.ColorName,
		ColorCode:        p.ColorCode,
		DyeQuantity:      p.DyeQuantity.InexactFloat64(),
		OutputQuantity:   p.OutputQuantity.InexactFloat64(),
		LaborCost:        p.LaborCost.InexactFloat64(),
		DyeMaterialCost:  p.DyeMaterialCost.InexactFloat64(),
		TotalCost:        p.TotalCost.InexactFloat64(),
		ResultStatus:     p.ResultStatus,
		InventoryStatus:  p.InventoryStatus,
		Remarks:          p.Remarks,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.ThreadPurchase != nil {
		res.ThreadType = p.ThreadPurchase.ThreadType
	}
	if p.CompletionDate != nil {
		s := p.CompletionDate.Format(time.RFC3339)
		res.CompletionDate = &s
	}
	return res
}

// --- Interface ---

type DyeingService interface {
	CreateProcess(ctx context.Context, req CreateDyeingRequest) (DyeingResponse, error)
	GetProcess(ctx context.Context, id string) (DyeingResponse, error)
	ListProcesses(ctx context.Context, resultStatus string, page, limit int) ([]DyeingResponse, int64, error)
	UpdateProcess(ctx context.Context, id string, req UpdateDyeingRequest) (DyeingResponse, error)
	DeleteProcess(ctx context.Context, id string) error
}

type dyeingService struct {
	dyeingRepo      repository.DyeingProcessRepository
	purchaseRepo    repository.ThreadPurchaseRepository
	threadTypeRepo  repository.ThreadTypeRepository
	inventoryRepo   repository.InventoryRepository
	inventoryTxRepo repository.InventoryTxRepository
	txManager       repository.TransactionManager
	notifier        StockNotifier
}

func NewDyeingService(
	dyeingRepo repository.DyeingProcessRepository,
	purchaseRepo repository.ThreadPurchaseRepository,
	threadTypeRepo repository.ThreadTypeRepository,
	inventoryRepo repository.InventoryRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	txManager repository.TransactionManager,
	notifier StockNotifier,
) DyeingService {
	return &dyeingService{
		dyeingRepo:      dyeingRepo,
		purchaseRepo:    purchaseRepo,
		threadTypeRepo:  threadTypeRepo,
		inventoryRepo:   inventoryRepo,
		inventoryTxRepo: inventoryTxRepo,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// --- Implementation ---

func (s *dyeingService) CreateProcess(ctx context.Context, req CreateDyeingRequest) (DyeingResponse, error) {
	purchaseID, err := uuid.Parse(req.ThreadPurchaseID)
	if err != nil {
		return DyeingResponse{}, fmt.Errorf("%w: invalid thread_purchase_id", ErrValidation)
	}
	if _, err := s.purchaseRepo.FindByID(ctx, purchaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DyeingResponse{}, fmt.Errorf("%w: thread purchase", ErrNotFound)
		}
		return DyeingResponse{}, fmt.Errorf("database error: %w", err)
	}

	laborCost := decimal.NewFromFloat(req.LaborCost)
	materialCost := decimal.NewFromFloat(req.DyeMaterialCost)

	process := model.DyeingProcess{
		ThreadPurchaseID: purchaseID,
		DyeDate:          time.Now(),
		DyeParameters:    req.DyeParameters,
		ColorName:        req.ColorName,
		ColorCode:        req.ColorCode,
		DyeQuantity:      decimal.NewFromFloat(req.DyeQuantity),
		LaborCost:        laborCost,
		DyeMaterialCost:  materialCost,
		TotalCost:        laborCost.Add(materialCost),
		ResultStatus:     model.DyeStatusPending,
		InventoryStatus:  model.DyeInventoryPending,
		Remarks:          req.Remarks,
	}
	if req.DyeDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.DyeDate)
		if parseErr != nil {
			return DyeingResponse{}, fmt.Errorf("%w: invalid dye_date", ErrValidation)
		}
		process.DyeDate = parsed
	}

	if err := s.dyeingRepo.Create(ctx, &process); err != nil {
		return DyeingResponse{}, fmt.Errorf("failed to create dyeing process: %w", err)
	}
	return toDyeingResponse(process), nil
}

func (s *dyeingService) GetProcess(ctx context.Context, id string) (DyeingResponse, error) {
	process, err := s.findProcess(ctx, id)
	if err != nil {
		return DyeingResponse{}, err
	}
	return toDyeingResponse(*process), nil
}

func (s *dyeingService) ListProcesses(ctx context.Context, resultStatus string, page, limit int) ([]DyeingResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	processes, total, err := s.dyeingRepo.List(ctx, resultStatus, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]DyeingResponse, 0, len(processes))
	for _, p := range processes {
		res = append(res, toDyeingResponse(p))
	}
	return res, total, nil
}

func (s *dyeingService) UpdateProcess(ctx context.Context, id string, req UpdateDyeingRequest) (DyeingResponse, error) {
	process, err := s.findProcess(ctx, id)
	if err != nil {
		return DyeingResponse{}, err
	}

	wasCompleted := process.ResultStatus == model.DyeStatusCompleted

	if req.ColorName != nil {
		process.ColorName = *req.ColorName
	}
	if req.ColorCode != nil {
		process.ColorCode = *req.ColorCode
	}
	if req.OutputQuantity != nil {
		process.OutputQuantity = decimal.NewFromFloat(*req.OutputQuantity)
	}
	if req.LaborCost != nil {
		process.LaborCost = decimal.NewFromFloat(*req.LaborCost)
	}
	if req.DyeMaterialCost != nil {
		process.DyeMaterialCost = decimal.NewFromFloat(*req.DyeMaterialCost)
	}
	// Server-side cost recomputation wins over any client-supplied total as
	// soon as either component is present.
	if req.LaborCost != nil || req.DyeMaterialCost != nil {
		process.TotalCost = process.LaborCost.Add(process.DyeMaterialCost)
	} else if req.TotalCost != nil {
		process.TotalCost = decimal.NewFromFloat(*req.TotalCost)
	}
	if req.ResultStatus != nil {
		process.ResultStatus = *req.ResultStatus
	}
	if req.CompletionDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.CompletionDate)
		if parseErr != nil {
			return DyeingResponse{}, fmt.Errorf("%w: invalid completion_date", ErrValidation)
		}
		process.CompletionDate = &parsed
	}
	if req.Remarks != nil {
		process.Remarks = *req.Remarks
	}

	completing := !wasCompleted && process.ResultStatus == model.DyeStatusCompleted
	if completing && process.CompletionDate == nil {
		now := time.Now()
		process.CompletionDate = &now
	}

	if err := s.dyeingRepo.Update(ctx, process); err != nil {
		return DyeingResponse{}, fmt.Errorf("failed to update dyeing process: %w", err)
	}

	if process.ResultStatus == model.DyeStatusCompleted && req.AddToInventory {
		if err := s.addProcessToInventory(ctx, process); err != nil {
			return DyeingResponse{}, err
		}
	}

	return toDyeingResponse(*process), nil
}

// addProcessToInventory converts a completed dyeing process into stock at
// most once. The PRODUCTION transaction row is guarded by a partial unique
// index on dyeing_process_id; losing the insert race rolls the whole
// conversion back and the call degrades to a no-op.
func (s *dyeingService) addProcessToInventory(ctx context.Context, process *model.DyeingProcess) error {
	exists, err := s.inventoryTxRepo.ExistsForDyeingProcess(ctx, process.ID)
	if err != nil {
		return fmt.Errorf("failed to check existing conversion: %w", err)
	}
	if exists {
		return nil
	}

	unitCost := decimal.Zero
	if !process.OutputQuantity.IsZero() {
		unitCost = process.TotalCost.Div(process.OutputQuantity)
	}

	var item model.Inventory
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		purchase, err := s.purchaseRepo.FindByID(txCtx, process.ThreadPurchaseID)
		if err != nil {
			return fmt.Errorf("failed to load parent purchase: %w", err)
		}

		threadType, err := s.resolveThreadType(txCtx, purchase.ThreadType)
		if err != nil {
			return err
		}

		item = model.Inventory{
			ItemCode:        generateItemCode(dyedItemCodePrefix, process.ID),
			Description:     fmt.Sprintf("%s thread dyed %s", purchase.ThreadType, process.ColorName),
			ProductType:     model.ProductTypeThread,
			ThreadTypeID:    &threadType.ID,
			CurrentQuantity: process.OutputQuantity,
			UnitOfMeasure:   purchase.UnitOfMeasure,
			MinStockLevel:   decimal.NewFromInt(defaultMinStockLevel),
			CostPerUnit:     unitCost,
			SalePrice:       unitCost.Mul(decimal.NewFromFloat(dyedMarkup)),
		}
		if err := s.inventoryRepo.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		tx := &model.InventoryTransaction{
			InventoryID:       item.ID,
			TransactionType:   model.TxTypeProduction,
			TransactionDate:   time.Now(),
			Quantity:          process.OutputQuantity,
			RemainingQuantity: process.OutputQuantity,
			UnitCost:          unitCost,
			TotalCost:         process.TotalCost,
			DyeingProcessID:   &process.ID,
		}
		inserted, err := s.inventoryTxRepo.CreateForDyeingProcess(txCtx, tx)
		if err != nil {
			return fmt.Errorf("failed to create inventory transaction: %w", err)
		}
		if !inserted {
			return errAlreadyConverted
		}

		if err := s.dyeingRepo.UpdateInventoryStatus(txCtx, process.ID, model.DyeInventoryAdded); err != nil {
			return fmt.Errorf("failed to mark process inventory status: %w", err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyConverted) {
		return nil
	}
	if err != nil {
		return err
	}

	process.InventoryStatus = model.DyeInventoryAdded
	notifyStockChange(s.notifier, item.ID, item.ItemCode, item.CurrentQuantity)
	return nil
}

func (s *dyeingService) resolveThreadType(ctx context.Context, name string) (*model.ThreadType, error) {
	threadType, err := s.threadTypeRepo.FindByNameInsensitive(ctx, name)
	if err == nil {
		return threadType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up thread type: %w", err)
	}
	created := &model.ThreadType{Name: name, Units: "kg"}
	if err := s.threadTypeRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create thread type: %w", err)
	}
	return created, nil
}

func (s *dyeingService) DeleteProcess(ctx context.Context, id string) error {
	process, err := s.findProcess(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.dyeingRepo.DeleteChildren(txCtx, process.ID); err != nil {
			return fmt.Errorf("failed to delete process children: %w", err)
		}
		if err := s.dyeingRepo.Delete(txCtx, process.ID); err != nil {
			return fmt.Errorf("failed to delete dyeing process: %w", err)
		}
		return nil
	})
}

func (s *dyeingService) findProcess(ctx context.Context, id string) (*model.DyeingProcess, error) {
	processID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid process id", ErrValidation)
	}
	process, err := s.dyeingRepo.FindByID(ctx, processID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dyeing process", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return process, nil
}
