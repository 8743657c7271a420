package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-backend/internal/config"
	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	fabricItemCodePrefix = "FAB"
	fabricMarkup         = 1.3
)

// --- DTOs ---

type CreateFabricRequest struct {
	SourceThreadID   string  `json:"source_thread_id" binding:"required"`
	DyeingProcessID  string  `json:"dyeing_process_id"`
	FabricType       string  `json:"fabric_type" binding:"required"`
	Dimensions       string  `json:"dimensions"`
	QuantityProduced float64 `json:"quantity_produced" binding:"required,gt=0"`
	ThreadUsed       float64 `json:"thread_used" binding:"required,gt=0"`
	ThreadWastage    float64 `json:"thread_wastage"`
	UnitOfMeasure    string  `json:"unit_of_measure"`
	ProductionCost   float64 `json:"production_cost"`
	LaborCost        float64 `json:"labor_cost"`
	ProductionDate   string  `json:"production_date"`
	Remarks          string  `json:"remarks"`
	AddToInventory   bool    `json:"add_to_inventory"`
}

type UpdateFabricRequest struct {
	Status           *string  `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	FabricType       *string  `json:"fabric_type"`
	Dimensions       *string  `json:"dimensions"`
	QuantityProduced *float64 `json:"quantity_produced"`
	ThreadUsed       *float64 `json:"thread_used"`
	ThreadWastage    *float64 `json:"thread_wastage"`
	ProductionCost   *float64 `json:"production_cost"`
	LaborCost        *float64 `json:"labor_cost"`
	CompletionDate   *string  `json:"completion_date"`
	Remarks          *string  `json:"remarks"`
}

type FabricResponse struct {
	ID               string  `json:"id"`
	SourceThreadID   string  `json:"source_thread_id"`
	DyeingProcessID  *string `json:"dyeing_process_id"`
	FabricType       string  `json:"fabric_type"`
	Dimensions       string  `json:"dimensions"`
	QuantityProduced float64 `json:"quantity_produced"`
	ThreadUsed       float64 `json:"thread_used"`
	ThreadWastage    float64 `json:"thread_wastage"`
	UnitOfMeasure    string  `json:"unit_of_measure"`
	ProductionCost   float64 `json:"production_cost"`
	LaborCost        float64 `json:"labor_cost"`
	TotalCost        float64 `json:"total_cost"`
	Status           string  `json:"status"`
	ProductionDate   string  `json:"production_date"`
	CompletionDate   *string `json:"completion_date"`
	Remarks          string  `json:"remarks"`
	CreatedAt        string  `json:"created_at"`
}

func toFabricResponse(p model.FabricProduction) FabricResponse {
	res := FabricResponse{
		ID:               p.ID.String(),
		SourceThreadID:   p.SourceThreadID.String(),
		FabricType:       p.FabricType,
		Dimensions:       p.Dimensions,
		QuantityProduced: p.QuantityProduced.InexactFloat64(),
		ThreadUsed:       p.ThreadUsed.InexactFloat64(),
		ThreadWastage:    p.ThreadWastage.InexactFloat64(),
		UnitOfMeasure:    p.UnitOfMeasure,
		ProductionCost:   p.ProductionCost.InexactFloat64(),
		LaborCost:        p.LaborCost.InexactFloat64(),
		TotalCost:        p.TotalCost.InexactFloat64(),
		Status:           p.Status,
		ProductionDate:   p.ProductionDate.Format(time.RFC3339),
		Remarks:          p.Remarks,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.DyeingProcessID != nil {
		s := p.DyeingProcessID.String()
		res.DyeingProcessID = &s
	}
	if p.CompletionDate != nil {
		s := p.CompletionDate.Format(time.RFC3339)
		res.CompletionDate = &s
	}
	return res
}

// --- Interface ---

type FabricService interface {
	CreateProduction(ctx context.Context, req CreateFabricRequest) (FabricResponse, error)
	GetProduction(ctx context.Context, id string) (FabricResponse, error)
	ListProductions(ctx context.Context, status string, page, limit int) ([]FabricResponse, int64, error)
	UpdateProduction(ctx context.Context, id string, req UpdateFabricRequest) (FabricResponse, error)
	DeleteProduction(ctx context.Context, id string) error
}

type fabricService struct {
	fabricRepo      repository.FabricProductionRepository
	purchaseRepo    repository.ThreadPurchaseRepository
	inventoryRepo   repository.InventoryRepository
	inventoryTxRepo repository.InventoryTxRepository
	txManager       repository.TransactionManager
	notifier        StockNotifier
}

func NewFabricService(
	fabricRepo repository.FabricProductionRepository,
	purchaseRepo repository.ThreadPurchaseRepository,
	inventoryRepo repository.InventoryRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	txManager repository.TransactionManager,
	notifier StockNotifier,
) FabricService {
	return &fabricService{
		fabricRepo:      fabricRepo,
		purchaseRepo:    purchaseRepo,
		inventoryRepo:   inventoryRepo,
		inventoryTxRepo: inventoryTxRepo,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// --- Implementation ---

func (s *fabricService) CreateProduction(ctx context.Context, req CreateFabricRequest) (FabricResponse, error) {
	sourceID, err := uuid.Parse(req.SourceThreadID)
	if err != nil {
		return FabricResponse{}, fmt.Errorf("%w: invalid source_thread_id", ErrValidation)
	}
	if _, err := s.purchaseRepo.FindByID(ctx, sourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FabricResponse{}, fmt.Errorf("%w: source thread purchase", ErrNotFound)
		}
		return FabricResponse{}, fmt.Errorf("database error: %w", err)
	}

	productionCost := decimal.NewFromFloat(req.ProductionCost)
	laborCost := decimal.NewFromFloat(req.LaborCost)

	production := model.FabricProduction{
		SourceThreadID:   sourceID,
		FabricType:       req.FabricType,
		Dimensions:       req.Dimensions,
		QuantityProduced: decimal.NewFromFloat(req.QuantityProduced),
		ThreadUsed:       decimal.NewFromFloat(req.ThreadUsed),
		ThreadWastage:    decimal.NewFromFloat(req.ThreadWastage),
		UnitOfMeasure:    req.UnitOfMeasure,
		ProductionCost:   productionCost,
		LaborCost:        laborCost,
		TotalCost:        productionCost.Add(laborCost),
		Status:           model.ProductionPending,
		ProductionDate:   time.Now(),
		Remarks:          req.Remarks,
	}
	if production.UnitOfMeasure == "" {
		production.UnitOfMeasure = "meters"
	}
	if req.DyeingProcessID != "" {
		processID, parseErr := uuid.Parse(req.DyeingProcessID)
		if parseErr != nil {
			return FabricResponse{}, fmt.Errorf("%w: invalid dyeing_process_id", ErrValidation)
		}
		production.DyeingProcessID = &processID
	}
	if req.ProductionDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.ProductionDate)
		if parseErr != nil {
			return FabricResponse{}, fmt.Errorf("%w: invalid production_date", ErrValidation)
		}
		production.ProductionDate = parsed
	}
	if req.AddToInventory {
		production.Status = model.ProductionCompleted
		now := time.Now()
		production.CompletionDate = &now
	}

	if err := s.fabricRepo.Create(ctx, &production); err != nil {
		return FabricResponse{}, fmt.Errorf("failed to create fabric production: %w", err)
	}

	if req.AddToInventory {
		if convErr := s.addProductionToInventory(ctx, &production); convErr != nil {
			config.LogError(config.GetLogger(), "fabric", "CreateProduction", "add production to inventory", production.ID.String(), convErr)
		}
	}

	return toFabricResponse(production), nil
}

func (s *fabricService) addProductionToInventory(ctx context.Context, production *model.FabricProduction) error {
	unitCost := decimal.Zero
	if !production.QuantityProduced.IsZero() {
		unitCost = production.TotalCost.Div(production.QuantityProduced)
	}

	var item model.Inventory
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item = model.Inventory{
			ItemCode:        generateItemCode(fabricItemCodePrefix, production.ID),
			Description:     fmt.Sprintf("%s fabric %s", production.FabricType, production.Dimensions),
			ProductType:     model.ProductTypeFabric,
			CurrentQuantity: production.QuantityProduced,
			UnitOfMeasure:   production.UnitOfMeasure,
			MinStockLevel:   decimal.NewFromInt(defaultMinStockLevel),
			CostPerUnit:     unitCost,
			SalePrice:       unitCost.Mul(decimal.NewFromFloat(fabricMarkup)),
		}
		if err := s.inventoryRepo.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		tx := &model.InventoryTransaction{
			InventoryID:        item.ID,
			TransactionType:    model.TxTypeProduction,
			TransactionDate:    time.Now(),
			Quantity:           production.QuantityProduced,
			RemainingQuantity:  production.QuantityProduced,
			UnitCost:           unitCost,
			TotalCost:          production.TotalCost,
			FabricProductionID: &production.ID,
		}
		if err := s.inventoryTxRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("failed to create inventory transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	notifyStockChange(s.notifier, item.ID, item.ItemCode, item.CurrentQuantity)
	return nil
}

func (s *fabricService) GetProduction(ctx context.Context, id string) (FabricResponse, error) {
	production, err := s.findProduction(ctx, id)
	if err != nil {
		return FabricResponse{}, err
	}
	return toFabricResponse(*production), nil
}

func (s *fabricService) ListProductions(ctx context.Context, status string, page, limit int) ([]FabricResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	productions, total, err := s.fabricRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]FabricResponse, 0, len(productions))
	for _, p := range productions {
		res = append(res, toFabricResponse(p))
	}
	return res, total, nil
}

func (s *fabricService) UpdateProduction(ctx context.Context, id string, req UpdateFabricRequest) (FabricResponse, error) {
	production, err := s.findProduction(ctx, id)
	if err != nil {
		return FabricResponse{}, err
	}

	if req.FabricType != nil {
		production.FabricType = *req.FabricType
	}
	if req.Dimensions != nil {
		production.Dimensions = *req.Dimensions
	}
	if req.QuantityProduced != nil {
		production.QuantityProduced = decimal.NewFromFloat(*req.QuantityProduced)
	}
	if req.ThreadUsed != nil {
		production.ThreadUsed = decimal.NewFromFloat(*req.ThreadUsed)
	}
	if req.ThreadWastage != nil {
		production.ThreadWastage = decimal.NewFromFloat(*req.ThreadWastage)
	}
	if req.ProductionCost != nil {
		production.ProductionCost = decimal.NewFromFloat(*req.ProductionCost)
	}
	if req.LaborCost != nil {
		production.LaborCost = decimal.NewFromFloat(*req.LaborCost)
	}
	if req.ProductionCost != nil || req.LaborCost != nil {
		production.TotalCost = production.ProductionCost.Add(production.LaborCost)
	}
	if req.Status != nil {
		production.Status = *req.Status
		if *req.Status == model.ProductionCompleted && production.CompletionDate == nil {
			now := time.Now()
			production.CompletionDate = &now
		}
	}
	if req.CompletionDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.CompletionDate)
		if parseErr != nil {
			return FabricResponse{}, fmt.Errorf("%w: invalid completion_date", ErrValidation)
		}
		production.CompletionDate = &parsed
	}
	if req.Remarks != nil {
		production.Remarks = *req.Remarks
	}

	if err := s.fabricRepo.Update(ctx, production); err != nil {
		return FabricResponse{}, fmt.Errorf("failed to update fabric production: %w", err)
	}
	return toFabricResponse(*production), nil
}

func (s *fabricService) DeleteProduction(ctx context.Context, id string) error {
	production, err := s.findProduction(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.fabricRepo.CountSalesReferences(ctx, production.ID)
	if err != nil {
		return fmt.Errorf("failed to check sales references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: production is referenced by %d sales order item(s)", ErrHasDependents, refs)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.fabricRepo.DeleteChildren(txCtx, production.ID); err != nil {
			return fmt.Errorf("failed to delete production children: %w", err)
		}
		if err := s.fabricRepo.Delete(txCtx, production.ID); err != nil {
			return fmt.Errorf("failed to delete fabric production: %w", err)
		}
		return nil
	})
}

func (s *fabricService) findProduction(ctx context.Context, id string) (*model.FabricProduction, error) {
	productionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid production id", ErrValidation)
	}
	production, err := s.fabricRepo.FindByID(ctx, productionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fabric production", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return production, nil
}
