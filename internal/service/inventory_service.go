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

// --- DTOs ---

type InventoryResponse struct {
	ID              string  `json:"id"`
	ItemCode        string  `json:"item_code"`
	Description     string  `json:"description"`
	ProductType     string  `json:"product_type"`
	ThreadTypeName  string  `json:"thread_type_name,omitempty"`
	CurrentQuantity float64 `json:"current_quantity"`
	UnitOfMeasure   string  `json:"unit_of_measure"`
	MinStockLevel   float64 `json:"min_stock_level"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	SalePrice       float64 `json:"sale_price"`
	Location        string  `json:"location"`
	LowStock        bool    `json:"low_stock"`
	CreatedAt       string  `json:"created_at"`
}

type InventoryTxResponse struct {
	ID                string  `json:"id"`
	TransactionType   string  `json:"transaction_type"`
	TransactionDate   string  `json:"transaction_date"`
	Quantity          float64 `json:"quantity"`
	RemainingQuantity float64 `json:"remaining_quantity"`
	UnitCost          float64 `json:"unit_cost"`
	TotalCost         float64 `json:"total_cost"`
	Notes             string  `json:"notes"`
}

type InventoryDetailResponse struct {
	InventoryResponse
	Transactions []InventoryTxResponse `json:"transactions"`
}

type AdjustInventoryRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
	Notes    string  `json:"notes"`
}

func toInventoryResponse(item model.Inventory) InventoryResponse {
	res := InventoryResponse{
		ID:              item.ID.String(),
		ItemCode:        item.ItemCode,
		Description:     item.Description,
		ProductType:     item.ProductType,
		CurrentQuantity: item.CurrentQuantity.InexactFloat64(),
		UnitOfMeasure:   item.UnitOfMeasure,
		MinStockLevel:   item.MinStockLevel.InexactFloat64(),
		CostPerUnit:     item.CostPerUnit.InexactFloat64(),
		SalePrice:       item.SalePrice.InexactFloat64(),
		Location:        item.Location,
		LowStock:        item.CurrentQuantity.LessThan(item.MinStockLevel),
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
	}
	if item.ThreadType != nil {
		res.ThreadTypeName = item.ThreadType.Name
	}
	return res
}

func toInventoryTxResponse(tx model.InventoryTransaction) InventoryTxResponse {
	return InventoryTxResponse{
		ID:                tx.ID.String(),
		TransactionType:   tx.TransactionType,
		TransactionDate:   tx.TransactionDate.Format(time.RFC3339),
		Quantity:          tx.Quantity.InexactFloat64(),
		RemainingQuantity: tx.RemainingQuantity.InexactFloat64(),
		UnitCost:          tx.UnitCost.InexactFloat64(),
		TotalCost:         tx.TotalCost.InexactFloat64(),
		Notes:             tx.Notes,
	}
}

// --- Interface ---

type InventoryService interface {
	ListItems(ctx context.Context, filter repository.InventoryFilter) ([]InventoryResponse, int64, error)
	GetItem(ctx context.Context, id string) (InventoryDetailResponse, error)
	ListItemTransactions(ctx context.Context, id string, page, limit int) ([]InventoryTxResponse, int64, error)
	AdjustItem(ctx context.Context, id string, req AdjustInventoryRequest) (InventoryResponse, error)
}

type inventoryService struct {
	inventoryRepo   repository.InventoryRepository
	inventoryTxRepo repository.InventoryTxRepository
	txManager       repository.TransactionManager
	notifier        StockNotifier
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	txManager repository.TransactionManager,
	notifier StockNotifier,
) InventoryService {
	return &inventoryService{
		inventoryRepo:   inventoryRepo,
		inventoryTxRepo: inventoryTxRepo,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// --- Implementation ---

func (s *inventoryService) ListItems(ctx context.Context, filter repository.InventoryFilter) ([]InventoryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	items, total, err := s.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	res := make([]InventoryResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toInventoryResponse(item))
	}
	return res, total, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id string) (InventoryDetailResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return InventoryDetailResponse{}, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}
	item, err := s.inventoryRepo.FindByIDWithTransactions(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InventoryDetailResponse{}, fmt.Errorf("%w: inventory item", ErrNotFound)
		}
		return InventoryDetailResponse{}, fmt.Errorf("database error: %w", err)
	}

	res := InventoryDetailResponse{
		InventoryResponse: toInventoryResponse(*item),
		Transactions:      make([]InventoryTxResponse, 0, len(item.Transactions)),
	}
	for _, tx := range item.Transactions {
		res.Transactions = append(res.Transactions, toInventoryTxResponse(tx))
	}
	return res, nil
}

// ListItemTransactions pages through the movement history of one item.
func (s *inventoryService) ListItemTransactions(ctx context.Context, id string, page, limit int) ([]InventoryTxResponse, int64, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}
	if _, err := s.inventoryRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: inventory item", ErrNotFound)
		}
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	txs, total, err := s.inventoryTxRepo.ListByInventory(ctx, itemID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]InventoryTxResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, toInventoryTxResponse(tx))
	}
	return res, total, nil
}

// AdjustItem records a manual ADJUSTMENT movement, positive or negative,
// atomically with the stock level change.
func (s *inventoryService) AdjustItem(ctx context.Context, id string, req AdjustInventoryRequest) (InventoryResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return InventoryResponse{}, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InventoryResponse{}, fmt.Errorf("%w: inventory item", ErrNotFound)
		}
		return InventoryResponse{}, fmt.Errorf("database error: %w", err)
	}

	delta := decimal.NewFromFloat(req.Quantity)
	if delta.IsZero() {
		return InventoryResponse{}, fmt.Errorf("%w: adjustment quantity cannot be zero", ErrValidation)
	}
	if delta.IsNegative() && item.CurrentQuantity.Add(delta).IsNegative() {
		return InventoryResponse{}, fmt.Errorf("%w: adjustment would drive stock negative", ErrValidation)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.AdjustQuantity(txCtx, itemID, delta); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}
		tx := &model.InventoryTransaction{
			InventoryID:       itemID,
			TransactionType:   model.TxTypeAdjustment,
			TransactionDate:   time.Now(),
			Quantity:          delta.Abs(),
			RemainingQuantity: delta.Abs(),
			UnitCost:          item.CostPerUnit,
			TotalCost:         item.CostPerUnit.Mul(delta.Abs()),
			Notes:             req.Notes,
		}
		return s.inventoryTxRepo.Create(txCtx, tx)
	})
	if err != nil {
		return InventoryResponse{}, err
	}

	item.CurrentQuantity = item.CurrentQuantity.Add(delta)
	notifyStockChange(s.notifier, item.ID, item.ItemCode, item.CurrentQuantity)
	return toInventoryResponse(*item), nil
}
