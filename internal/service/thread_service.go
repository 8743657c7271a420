package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"textile-backend/internal/config"
	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	threadItemCodePrefix = "THR"
	threadMarkup         = 1.2
	defaultMinStockLevel = 100
)

// generateItemCode builds a unique inventory item code from the originating
// record's id plus a timestamp suffix, e.g. THR-1a2b3c4d-48213.
func generateItemCode(prefix string, id uuid.UUID) string {
	short := strings.SplitN(id.String(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%d", prefix, short, time.Now().UnixMilli()%100000)
}

// --- DTOs ---

type PurchasePaymentRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Mode            string  `json:"mode" binding:"omitempty,oneof=CASH CHEQUE ONLINE TRANSFER"`
	ReferenceNumber string  `json:"reference_number"`
	Remarks         string  `json:"remarks"`
}

type CreatePurchaseRequest struct {
	VendorID            string                  `json:"vendor_id" binding:"required"`
	ThreadType          string                  `json:"thread_type" binding:"required"`
	Color               string                  `json:"color"`
	ColorStatus         string                  `json:"color_status" binding:"omitempty,oneof=RAW COLORED"`
	Quantity            float64                 `json:"quantity" binding:"required,gt=0"`
	UnitPrice           float64                 `json:"unit_price" binding:"required,gt=0"`
	UnitOfMeasure       string                  `json:"unit_of_measure"`
	DeliveryDate        string                  `json:"delivery_date"`
	Received            bool                    `json:"received"`
	Remarks             string                  `json:"remarks"`
	AddToInventory      bool                    `json:"add_to_inventory"`
	CreateDyeingProcess bool                    `json:"create_dyeing_process"`
	Payment             *PurchasePaymentRequest `json:"payment"`
}

type UpdatePurchaseRequest struct {
	ThreadType     *string  `json:"thread_type"`
	Color          *string  `json:"color"`
	ColorStatus    *string  `json:"color_status"`
	Quantity       *float64 `json:"quantity"`
	UnitPrice      *float64 `json:"unit_price"`
	DeliveryDate   *string  `json:"delivery_date"`
	Received       *bool    `json:"received"`
	Remarks        *string  `json:"remarks"`
	AddToInventory bool     `json:"add_to_inventory"`
}

type PurchaseResponse struct {
	ID            string  `json:"id"`
	VendorID      string  `json:"vendor_id"`
	VendorName    string  `json:"vendor_name,omitempty"`
	ThreadType    string  `json:"thread_type"`
	Color         string  `json:"color"`
	ColorStatus   string  `json:"color_status"`
	Quantity      float64 `json:"quantity"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	UnitPrice     float64 `json:"unit_price"`
	TotalCost     float64 `json:"total_cost"`
	DeliveryDate  *string `json:"delivery_date"`
	ReceivedAt    *string `json:"received_at"`
	Received      bool    `json:"received"`
	Remarks       string  `json:"remarks"`
	CreatedAt     string  `json:"created_at"`
}

func toPurchaseResponse(p model.ThreadPurchase) PurchaseResponse {
	res := PurchaseResponse{
		ID:            p.ID.String(),
		VendorID:      p.VendorID.String(),
		ThreadType:    p.ThreadType,
		Color:         p.Color,
		ColorStatus:   p.ColorStatus,
		Quantity:      p.Quantity.InexactFloat64(),
		UnitOfMeasure: p.UnitOfMeasure,
		UnitPrice:     p.UnitPrice.InexactFloat64(),
		TotalCost:     p.TotalCost.InexactFloat64(),
		Received:      p.Received,
		Remarks:       p.Remarks,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.Vendor != nil {
		res.VendorName = p.Vendor.Name
	}
	if p.DeliveryDate != nil {
		s := p.DeliveryDate.Format(time.RFC3339)
		res.DeliveryDate = &s
	}
	if p.ReceivedAt != nil {
		s := p.ReceivedAt.Format(time.RFC3339)
		res.ReceivedAt = &s
	}
	return res
}

// --- Interface ---

type ThreadService interface {
	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (PurchaseResponse, error)
	GetPurchase(ctx context.Context, id string) (PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter repository.ThreadPurchaseFilter) ([]PurchaseResponse, int64, error)
	UpdatePurchase(ctx context.Context, id string, req UpdatePurchaseRequest) (PurchaseResponse, error)
	DeletePurchase(ctx context.Context, id string) error
	ListThreadTypes(ctx context.Context) ([]model.ThreadType, error)
}

type threadService struct {
	purchaseRepo    repository.ThreadPurchaseRepository
	threadTypeRepo  repository.ThreadTypeRepository
	vendorRepo      repository.VendorRepository
	inventoryRepo   repository.InventoryRepository
	inventoryTxRepo repository.InventoryTxRepository
	dyeingRepo      repository.DyeingProcessRepository
	paymentRepo     repository.PaymentRepository
	txManager       repository.TransactionManager
	notifier        StockNotifier
}

func NewThreadService(
	purchaseRepo repository.ThreadPurchaseRepository,
	threadTypeRepo repository.ThreadTypeRepository,
	vendorRepo repository.VendorRepository,
	inventoryRepo repository.InventoryRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	dyeingRepo repository.DyeingProcessRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TransactionManager,
	notifier StockNotifier,
) ThreadService {
	return &threadService{
		purchaseRepo:    purchaseRepo,
		threadTypeRepo:  threadTypeRepo,
		vendorRepo:      vendorRepo,
		inventoryRepo:   inventoryRepo,
		inventoryTxRepo: inventoryTxRepo,
		dyeingRepo:      dyeingRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// --- Implementation ---

func (s *threadService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (PurchaseResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("%w: invalid vendor_id", ErrValidation)
	}
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, fmt.Errorf("%w: vendor", ErrNotFound)
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}

	quantity := decimal.NewFromFloat(req.Quantity)
	unitPrice := decimal.NewFromFloat(req.UnitPrice)

	purchase := model.ThreadPurchase{
		VendorID:      vendorID,
		ThreadType:    req.ThreadType,
		Color:         req.Color,
		ColorStatus:   req.ColorStatus,
		Quantity:      quantity,
		UnitOfMeasure: req.UnitOfMeasure,
		UnitPrice:     unitPrice,
		TotalCost:     quantity.Mul(unitPrice),
		Received:      req.Received,
		Remarks:       req.Remarks,
	}
	if purchase.ColorStatus == "" {
		purchase.ColorStatus = model.ColorStatusRaw
	}
	if purchase.UnitOfMeasure == "" {
		purchase.UnitOfMeasure = "kg"
	}
	if req.DeliveryDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.DeliveryDate)
		if parseErr != nil {
			return PurchaseResponse{}, fmt.Errorf("%w: invalid delivery_date", ErrValidation)
		}
		purchase.DeliveryDate = &parsed
	}
	if req.Received {
		now := time.Now()
		purchase.ReceivedAt = &now
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.Create(txCtx, &purchase); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}
		if req.Payment != nil {
			payment := &model.Payment{
				ThreadPurchaseID: &purchase.ID,
				Amount:           decimal.NewFromFloat(req.Payment.Amount),
				Mode:             req.Payment.Mode,
				ReferenceNumber:  req.Payment.ReferenceNumber,
				PaymentDate:      time.Now(),
				Remarks:          req.Payment.Remarks,
			}
			if payment.Mode == "" {
				payment.Mode = model.PaymentModeCash
			}
			if err := s.paymentRepo.Create(txCtx, payment); err != nil {
				return fmt.Errorf("failed to record payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseResponse{}, err
	}

	// Side-effect flags are best effort: the purchase stands even when a
	// follow-up workflow fails, each failure is logged for reconciliation.
	if req.Received && req.AddToInventory {
		if convErr := s.addPurchaseToInventory(ctx, &purchase); convErr != nil {
			config.LogError(config.GetLogger(), "thread", "CreatePurchase", "add purchase to inventory", purchase.ID.String(), convErr)
		}
	}
	if req.CreateDyeingProcess {
		process := &model.DyeingProcess{
			ThreadPurchaseID: purchase.ID,
			DyeDate:          time.Now(),
			DyeQuantity:      purchase.Quantity,
			ResultStatus:     model.DyeStatusPending,
			InventoryStatus:  model.DyeInventoryPending,
		}
		if dyeErr := s.dyeingRepo.Create(ctx, process); dyeErr != nil {
			config.LogError(config.GetLogger(), "thread", "CreatePurchase", "spawn dyeing process", purchase.ID.String(), dyeErr)
		}
	}

	return toPurchaseResponse(purchase), nil
}

// addPurchaseToInventory folds a received purchase into stock: one Inventory
// item plus one PURCHASE transaction, atomically.
func (s *threadService) addPurchaseToInventory(ctx context.Context, purchase *model.ThreadPurchase) error {
	var item model.Inventory

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		threadType, err := s.resolveThreadType(txCtx, purchase.ThreadType)
		if err != nil {
			return err
		}

		item = model.Inventory{
			ItemCode:        generateItemCode(threadItemCodePrefix, purchase.ID),
			Description:     fmt.Sprintf("%s thread (%s)", purchase.ThreadType, purchase.ColorStatus),
			ProductType:     model.ProductTypeThread,
			ThreadTypeID:    &threadType.ID,
			CurrentQuantity: purchase.Quantity,
			UnitOfMeasure:   purchase.UnitOfMeasure,
			MinStockLevel:   decimal.NewFromInt(defaultMinStockLevel),
			CostPerUnit:     purchase.UnitPrice,
			SalePrice:       purchase.UnitPrice.Mul(decimal.NewFromFloat(threadMarkup)),
		}
		if err := s.inventoryRepo.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		tx := &model.InventoryTransaction{
			InventoryID:       item.ID,
			TransactionType:   model.TxTypePurchase,
			TransactionDate:   time.Now(),
			Quantity:          purchase.Quantity,
			RemainingQuantity: purchase.Quantity,
			UnitCost:          purchase.UnitPrice,
			TotalCost:         purchase.TotalCost,
			ThreadPurchaseID:  &purchase.ID,
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

// resolveThreadType matches the catalog case-insensitively, creating the
// entry on first sight of a new type name.
func (s *threadService) resolveThreadType(ctx context.Context, name string) (*model.ThreadType, error) {
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

func (s *threadService) GetPurchase(ctx context.Context, id string) (PurchaseResponse, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("%w: invalid purchase id", ErrValidation)
	}
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, fmt.Errorf("%w: thread purchase", ErrNotFound)
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toPurchaseResponse(*purchase), nil
}

func (s *threadService) ListPurchases(ctx context.Context, filter repository.ThreadPurchaseFilter) ([]PurchaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	purchases, total, err := s.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		res = append(res, toPurchaseResponse(p))
	}
	return res, total, nil
}

func (s *threadService) UpdatePurchase(ctx context.Context, id string, req UpdatePurchaseRequest) (PurchaseResponse, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("%w: invalid purchase id", ErrValidation)
	}
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, fmt.Errorf("%w: thread purchase", ErrNotFound)
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}

	wasReceived := purchase.Received

	if req.ThreadType != nil {
		purchase.ThreadType = *req.ThreadType
	}
	if req.Color != nil {
		purchase.Color = *req.Color
	}
	if req.ColorStatus != nil {
		purchase.ColorStatus = *req.ColorStatus
	}
	if req.Quantity != nil {
		purchase.Quantity = decimal.NewFromFloat(*req.Quantity)
	}
	if req.UnitPrice != nil {
		purchase.UnitPrice = decimal.NewFromFloat(*req.UnitPrice)
	}
	if req.Quantity != nil || req.UnitPrice != nil {
		purchase.TotalCost = purchase.Quantity.Mul(purchase.UnitPrice)
	}
	if req.DeliveryDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.DeliveryDate)
		if parseErr != nil {
			return PurchaseResponse{}, fmt.Errorf("%w: invalid delivery_date", ErrValidation)
		}
		purchase.DeliveryDate = &parsed
	}
	if req.Received != nil {
		purchase.Received = *req.Received
		if *req.Received && purchase.ReceivedAt == nil {
			now := time.Now()
			purchase.ReceivedAt = &now
		}
	}
	if req.Remarks != nil {
		purchase.Remarks = *req.Remarks
	}

	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return PurchaseResponse{}, fmt.Errorf("failed to update purchase: %w", err)
	}

	// Late inventory add when the goods arrive after purchase entry.
	if !wasReceived && purchase.Received && req.AddToInventory {
		if convErr := s.addPurchaseToInventory(ctx, purchase); convErr != nil {
			config.LogError(config.GetLogger(), "thread", "UpdatePurchase", "add purchase to inventory", purchase.ID.String(), convErr)
		}
	}

	return toPurchaseResponse(*purchase), nil
}

func (s *threadService) DeletePurchase(ctx context.Context, id string) error {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid purchase id", ErrValidation)
	}
	if _, err := s.purchaseRepo.FindByID(ctx, purchaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: thread purchase", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	refs, err := s.purchaseRepo.CountFabricReferences(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to check fabric references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: purchase is consumed by %d fabric production(s)", ErrHasDependents, refs)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.DeleteChildren(txCtx, purchaseID); err != nil {
			return fmt.Errorf("failed to delete purchase children: %w", err)
		}
		if err := s.purchaseRepo.Delete(txCtx, purchaseID); err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}
		return nil
	})
}

func (s *threadService) ListThreadTypes(ctx context.Context) ([]model.ThreadType, error) {
	return s.threadTypeRepo.List(ctx)
}
