package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SalesItemRequest struct {
	ProductType        string  `json:"product_type" binding:"required,oneof=THREAD FABRIC"`
	ThreadPurchaseID   string  `json:"thread_purchase_id"`
	FabricProductionID string  `json:"fabric_production_id"`
	QuantitySold       float64 `json:"quantity_sold" binding:"required,gt=0"`
	UnitPrice          float64 `json:"unit_price" binding:"required,gt=0"`
}

type SalesPaymentRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Mode            string  `json:"mode" binding:"omitempty,oneof=CASH CHEQUE ONLINE TRANSFER"`
	ReferenceNumber string  `json:"reference_number"`
	ChequeStatus    string  `json:"cheque_status"`
	Remarks         string  `json:"remarks"`
}

type CreateSalesOrderRequest struct {
	OrderNumber    string               `json:"order_number" binding:"required"`
	CustomerID     string               `json:"customer_id" binding:"required"`
	OrderDate      string               `json:"order_date"`
	DeliveryDate   string               `json:"delivery_date"`
	PaymentMode    string               `json:"payment_mode" binding:"omitempty,oneof=CASH CHEQUE ONLINE TRANSFER"`
	DiscountAmount float64              `json:"discount_amount"`
	TaxAmount      float64              `json:"tax_amount"`
	Remarks        string               `json:"remarks"`
	Items          []SalesItemRequest   `json:"items" binding:"required,min=1,dive"`
	Payment        *SalesPaymentRequest `json:"payment"`
}

type SalesOrderItemResponse struct {
	ID                 string  `json:"id"`
	ProductType        string  `json:"product_type"`
	ThreadPurchaseID   *string `json:"thread_purchase_id"`
	FabricProductionID *string `json:"fabric_production_id"`
	ProductName        string  `json:"product_name"`
	QuantitySold       float64 `json:"quantity_sold"`
	UnitPrice          float64 `json:"unit_price"`
	Subtotal           float64 `json:"subtotal"`
}

type SalesPaymentResponse struct {
	ID              string  `json:"id"`
	Amount          float64 `json:"amount"`
	Mode            string  `json:"mode"`
	ReferenceNumber string  `json:"reference_number"`
	ChequeStatus    string  `json:"cheque_status"`
	PaymentDate     string  `json:"payment_date"`
	Remarks         string  `json:"remarks"`
}

// SalesOrderResponse flattens single-item orders into top-level
// ProductName/ProductType/UnitPrice for legacy display compatibility;
// multi-item orders aggregate QuantitySold across items instead.
type SalesOrderResponse struct {
	ID             string                   `json:"id"`
	OrderNumber    string                   `json:"order_number"`
	CustomerID     string                   `json:"customer_id"`
	CustomerName   string                   `json:"customer_name,omitempty"`
	OrderDate      string                   `json:"order_date"`
	DeliveryDate   *string                  `json:"delivery_date"`
	Status         string                   `json:"status"`
	PaymentStatus  string                   `json:"payment_status"`
	PaymentMode    string                   `json:"payment_mode"`
	TotalAmount    float64                  `json:"total_amount"`
	DiscountAmount float64                  `json:"discount_amount"`
	TaxAmount      float64                  `json:"tax_amount"`
	QuantitySold   float64                  `json:"quantity_sold"`
	ProductName    string                   `json:"product_name,omitempty"`
	ProductType    string                   `json:"product_type,omitempty"`
	UnitPrice      float64                  `json:"unit_price,omitempty"`
	Items          []SalesOrderItemResponse `json:"items"`
	Payments       []SalesPaymentResponse   `json:"payments,omitempty"`
	Remarks        string                   `json:"remarks"`
	CreatedAt      string                   `json:"created_at"`
}

func toSalesPaymentResponse(p model.Payment) SalesPaymentResponse {
	return SalesPaymentResponse{
		ID:              p.ID.String(),
		Amount:          p.Amount.InexactFloat64(),
		Mode:            p.Mode,
		ReferenceNumber: p.ReferenceNumber,
		ChequeStatus:    p.ChequeStatus,
		PaymentDate:     p.PaymentDate.Format(time.RFC3339),
		Remarks:         p.Remarks,
	}
}

type SalesAnalyticsResponse struct {
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	TotalRevenue    float64            `json:"total_revenue"`
	OrderCount      int                `json:"order_count"`
	PreviousRevenue float64            `json:"previous_revenue"`
	RevenueTrend    float64            `json:"revenue_trend"`
	PaymentModes    map[string]float64 `json:"payment_modes"`
	TopCustomers    []CustomerRevenue  `json:"top_customers"`
}

type CustomerRevenue struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Revenue      float64 `json:"revenue"`
	OrderCount   int     `json:"order_count"`
}

func itemProductName(item model.SalesOrderItem) string {
	switch {
	case item.ThreadPurchase != nil:
		if item.ThreadPurchase.Color != "" {
			return fmt.Sprintf("%s (%s)", item.ThreadPurchase.ThreadType, item.ThreadPurchase.Color)
		}
		return item.ThreadPurchase.ThreadType
	case item.FabricProduction != nil:
		return item.FabricProduction.FabricType
	default:
		return ""
	}
}

func toSalesOrderResponse(order model.SalesOrder) SalesOrderResponse {
	res := SalesOrderResponse{
		ID:             order.ID.String(),
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID.String(),
		OrderDate:      order.OrderDate.Format(time.RFC3339),
		Status:         order.Status,
		PaymentStatus:  order.PaymentStatus,
		PaymentMode:    order.PaymentMode,
		TotalAmount:    order.TotalAmount.InexactFloat64(),
		DiscountAmount: order.DiscountAmount.InexactFloat64(),
		TaxAmount:      order.TaxAmount.InexactFloat64(),
		Remarks:        order.Remarks,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
		Items:          make([]SalesOrderItemResponse, 0, len(order.Items)),
	}
	if order.Customer != nil {
		res.CustomerName = order.Customer.Name
	}
	if order.DeliveryDate != nil {
		s := order.DeliveryDate.Format(time.RFC3339)
		res.DeliveryDate = &s
	}

	quantity := decimal.Zero
	for _, item := range order.Items {
		quantity = quantity.Add(item.QuantitySold)

		itemRes := SalesOrderItemResponse{
			ID:           item.ID.String(),
			ProductType:  item.ProductType,
			ProductName:  itemProductName(item),
			QuantitySold: item.QuantitySold.InexactFloat64(),
			UnitPrice:    item.UnitPrice.InexactFloat64(),
			Subtotal:     item.Subtotal.InexactFloat64(),
		}
		if item.ThreadPurchaseID != nil {
			s := item.ThreadPurchaseID.String()
			itemRes.ThreadPurchaseID = &s
		}
		if item.FabricProductionID != nil {
			s := item.FabricProductionID.String()
			itemRes.FabricProductionID = &s
		}
		res.Items = append(res.Items, itemRes)
	}
	res.QuantitySold = quantity.InexactFloat64()

	if len(order.Items) == 1 {
		sole := order.Items[0]
		res.ProductName = itemProductName(sole)
		res.ProductType = sole.ProductType
		res.UnitPrice = sole.UnitPrice.InexactFloat64()
	}
	return res
}

// --- Interface ---

type SalesService interface {
	SubmitOrder(ctx context.Context, req CreateSalesOrderRequest) (SalesOrderResponse, error)
	GetOrder(ctx context.Context, id string) (SalesOrderResponse, error)
	ListOrders(ctx context.Context, filter repository.SalesOrderFilter) ([]SalesOrderResponse, int64, error)
	CheckOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	GetAnalytics(ctx context.Context, start, end time.Time) (SalesAnalyticsResponse, error)
}

type salesService struct {
	salesRepo       repository.SalesOrderRepository
	customerRepo    repository.CustomerRepository
	purchaseRepo    repository.ThreadPurchaseRepository
	fabricRepo      repository.FabricProductionRepository
	inventoryRepo   repository.InventoryRepository
	inventoryTxRepo repository.InventoryTxRepository
	paymentRepo     repository.PaymentRepository
	txManager       repository.TransactionManager
	notifier        StockNotifier
}

func NewSalesService(
	salesRepo repository.SalesOrderRepository,
	customerRepo repository.CustomerRepository,
	purchaseRepo repository.ThreadPurchaseRepository,
	fabricRepo repository.FabricProductionRepository,
	inventoryRepo repository.InventoryRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TransactionManager,
	notifier StockNotifier,
) SalesService {
	return &salesService{
		salesRepo:       salesRepo,
		customerRepo:    customerRepo,
		purchaseRepo:    purchaseRepo,
		fabricRepo:      fabricRepo,
		inventoryRepo:   inventoryRepo,
		inventoryTxRepo: inventoryTxRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// --- Implementation ---

// SubmitOrder validates the order, reconciles each line item against its
// thread or fabric source, decrements matching inventory and records the
// optional payment, all inside one transaction.
func (s *salesService) SubmitOrder(ctx context.Context, req CreateSalesOrderRequest) (SalesOrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("%w: invalid customer_id", ErrValidation)
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalesOrderResponse{}, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return SalesOrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	exists, err := s.salesRepo.OrderNumberExists(ctx, req.OrderNumber)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("failed to check order number: %w", err)
	}
	if exists {
		return SalesOrderResponse{}, fmt.Errorf("%w: order number %s already exists", ErrValidation, req.OrderNumber)
	}

	type resolvedItem struct {
		item model.SalesOrderItem
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		hasThread := itemReq.ThreadPurchaseID != ""
		hasFabric := itemReq.FabricProductionID != ""
		if hasThread == hasFabric {
			return SalesOrderResponse{}, fmt.Errorf("%w: item %d must reference exactly one of thread_purchase_id or fabric_production_id", ErrValidation, i)
		}

		quantity := decimal.NewFromFloat(itemReq.QuantitySold)
		unitPrice := decimal.NewFromFloat(itemReq.UnitPrice)
		item := model.SalesOrderItem{
			ProductType:  itemReq.ProductType,
			QuantitySold: quantity,
			UnitPrice:    unitPrice,
			Subtotal:     quantity.Mul(unitPrice),
		}

		switch {
		case hasThread:
			if itemReq.ProductType != model.ProductTypeThread {
				return SalesOrderResponse{}, fmt.Errorf("%w: item %d references a thread purchase but product_type is %s", ErrValidation, i, itemReq.ProductType)
			}
			purchaseID, parseErr := uuid.Parse(itemReq.ThreadPurchaseID)
			if parseErr != nil {
				return SalesOrderResponse{}, fmt.Errorf("%w: item %d has invalid thread_purchase_id", ErrValidation, i)
			}
			if _, findErr := s.purchaseRepo.FindByID(ctx, purchaseID); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return SalesOrderResponse{}, fmt.Errorf("%w: thread purchase for item %d", ErrNotFound, i)
				}
				return SalesOrderResponse{}, fmt.Errorf("database error: %w", findErr)
			}
			item.ThreadPurchaseID = &purchaseID
		case hasFabric:
			if itemReq.ProductType != model.ProductTypeFabric {
				return SalesOrderResponse{}, fmt.Errorf("%w: item %d references a fabric production but product_type is %s", ErrValidation, i, itemReq.ProductType)
			}
			productionID, parseErr := uuid.Parse(itemReq.FabricProductionID)
			if parseErr != nil {
				return SalesOrderResponse{}, fmt.Errorf("%w: item %d has invalid fabric_production_id", ErrValidation, i)
			}
			if _, findErr := s.fabricRepo.FindByID(ctx, productionID); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return SalesOrderResponse{}, fmt.Errorf("%w: fabric production for item %d", ErrNotFound, i)
				}
				return SalesOrderResponse{}, fmt.Errorf("database error: %w", findErr)
			}
			item.FabricProductionID = &productionID
		}
		resolved = append(resolved, resolvedItem{item: item})
	}

	order := model.SalesOrder{
		OrderNumber:    req.OrderNumber,
		CustomerID:     customerID,
		OrderDate:      time.Now(),
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusPending,
		PaymentMode:    req.PaymentMode,
		DiscountAmount: decimal.NewFromFloat(req.DiscountAmount),
		TaxAmount:      decimal.NewFromFloat(req.TaxAmount),
		Remarks:        req.Remarks,
	}
	if req.OrderDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.OrderDate)
		if parseErr != nil {
			return SalesOrderResponse{}, fmt.Errorf("%w: invalid order_date", ErrValidation)
		}
		order.OrderDate = parsed
	}
	if req.DeliveryDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.DeliveryDate)
		if parseErr != nil {
			return SalesOrderResponse{}, fmt.Errorf("%w: invalid delivery_date", ErrValidation)
		}
		order.DeliveryDate = &parsed
	}

	subtotal := decimal.Zero
	for _, r := range resolved {
		subtotal = subtotal.Add(r.item.Subtotal)
	}
	order.TotalAmount = subtotal.Sub(order.DiscountAmount).Add(order.TaxAmount)

	type stockChange struct {
		inventoryID uuid.UUID
		itemCode    string
		quantity    decimal.Decimal
	}
	var changes []stockChange

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.salesRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create sales order: %w", err)
		}

		for _, r := range resolved {
			item := r.item
			item.SalesOrderID = order.ID
			if err := s.salesRepo.CreateItem(txCtx, &item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			order.Items = append(order.Items, item)

			inv, findErr := s.findSourceInventory(txCtx, item)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					// The sold source was never folded into inventory;
					// nothing to decrement.
					continue
				}
				return fmt.Errorf("failed to resolve inventory for item: %w", findErr)
			}

			if err := s.inventoryRepo.AdjustQuantity(txCtx, inv.ID, item.QuantitySold.Neg()); err != nil {
				return fmt.Errorf("failed to decrement inventory: %w", err)
			}
			saleTx := &model.InventoryTransaction{
				InventoryID:       inv.ID,
				TransactionType:   model.TxTypeSales,
				TransactionDate:   order.OrderDate,
				Quantity:          item.QuantitySold,
				RemainingQuantity: item.QuantitySold,
				UnitCost:          inv.CostPerUnit,
				TotalCost:         inv.CostPerUnit.Mul(item.QuantitySold),
				SalesOrderID:      &order.ID,
			}
			if err := s.inventoryTxRepo.Create(txCtx, saleTx); err != nil {
				return fmt.Errorf("failed to create sales inventory transaction: %w", err)
			}
			changes = append(changes, stockChange{
				inventoryID: inv.ID,
				itemCode:    inv.ItemCode,
				quantity:    inv.CurrentQuantity.Sub(item.QuantitySold),
			})
		}

		if req.Payment != nil {
			paid := decimal.NewFromFloat(req.Payment.Amount)
			payment := &model.Payment{
				SalesOrderID:    &order.ID,
				Amount:          paid,
				Mode:            req.Payment.Mode,
				ReferenceNumber: req.Payment.ReferenceNumber,
				ChequeStatus:    req.Payment.ChequeStatus,
				PaymentDate:     time.Now(),
				Remarks:         req.Payment.Remarks,
			}
			if payment.Mode == "" {
				payment.Mode = model.PaymentModeCash
			}
			if err := s.paymentRepo.Create(txCtx, payment); err != nil {
				return fmt.Errorf("failed to record payment: %w", err)
			}

			switch {
			case paid.GreaterThanOrEqual(order.TotalAmount):
				order.PaymentStatus = model.PaymentStatusPaid
			case paid.GreaterThan(decimal.Zero):
				order.PaymentStatus = model.PaymentStatusPartial
			}
			if err := s.salesRepo.Update(txCtx, &order); err != nil {
				return fmt.Errorf("failed to update payment status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SalesOrderResponse{}, err
	}

	for _, change := range changes {
		notifyStockChange(s.notifier, change.inventoryID, change.itemCode, change.quantity)
	}

	return toSalesOrderResponse(order), nil
}

func (s *salesService) findSourceInventory(ctx context.Context, item model.SalesOrderItem) (*model.Inventory, error) {
	if item.ThreadPurchaseID != nil {
		return s.inventoryRepo.FindByThreadPurchase(ctx, *item.ThreadPurchaseID)
	}
	return s.inventoryRepo.FindByFabricProduction(ctx, *item.FabricProductionID)
}

func (s *salesService) GetOrder(ctx context.Context, id string) (SalesOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("%w: invalid order id", ErrValidation)
	}
	order, err := s.salesRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalesOrderResponse{}, fmt.Errorf("%w: sales order", ErrNotFound)
		}
		return SalesOrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	res := toSalesOrderResponse(*order)
	payments, err := s.paymentRepo.ListBySalesOrder(ctx, orderID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("failed to load payments: %w", err)
	}
	for _, p := range payments {
		res.Payments = append(res.Payments, toSalesPaymentResponse(p))
	}
	return res, nil
}

func (s *salesService) ListOrders(ctx context.Context, filter repository.SalesOrderFilter) ([]SalesOrderResponse, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	orders, total, err := s.salesRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	res := make([]SalesOrderResponse, 0, len(orders))
	for _, order := range orders {
		res = append(res, toSalesOrderResponse(order))
	}
	return res, total, nil
}

func (s *salesService) CheckOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	if orderNumber == "" {
		return false, fmt.Errorf("%w: order number is required", ErrValidation)
	}
	return s.salesRepo.OrderNumberExists(ctx, orderNumber)
}

// GetAnalytics aggregates revenue in memory over the fetched order set and
// compares it with the previous period of equal length.
func (s *salesService) GetAnalytics(ctx context.Context, start, end time.Time) (SalesAnalyticsResponse, error) {
	if !end.After(start) {
		return SalesAnalyticsResponse{}, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	orders, err := s.salesRepo.ListBetween(ctx, start, end)
	if err != nil {
		return SalesAnalyticsResponse{}, fmt.Errorf("failed to load orders: %w", err)
	}

	periodLength := end.Sub(start)
	prevOrders, err := s.salesRepo.ListBetween(ctx, start.Add(-periodLength), start)
	if err != nil {
		return SalesAnalyticsResponse{}, fmt.Errorf("failed to load previous period orders: %w", err)
	}

	res := SalesAnalyticsResponse{
		StartDate:    start.Format(time.RFC3339),
		EndDate:      end.Format(time.RFC3339),
		OrderCount:   len(orders),
		PaymentModes: make(map[string]float64),
	}

	revenue := decimal.Zero
	type customerAgg struct {
		name    string
		revenue decimal.Decimal
		orders  int
	}
	byCustomer := make(map[uuid.UUID]*customerAgg)

	for _, order := range orders {
		if order.Status == model.OrderStatusCancelled {
			continue
		}
		revenue = revenue.Add(order.TotalAmount)

		mode := order.PaymentMode
		if mode == "" {
			mode = model.PaymentModeCash
		}
		res.PaymentModes[mode] += order.TotalAmount.InexactFloat64()

		agg, ok := byCustomer[order.CustomerID]
		if !ok {
			agg = &customerAgg{}
			if order.Customer != nil {
				agg.name = order.Customer.Name
			}
			byCustomer[order.CustomerID] = agg
		}
		agg.revenue = agg.revenue.Add(order.TotalAmount)
		agg.orders++
	}

	prevRevenue := decimal.Zero
	for _, order := range prevOrders {
		if order.Status == model.OrderStatusCancelled {
			continue
		}
		prevRevenue = prevRevenue.Add(order.TotalAmount)
	}

	res.TotalRevenue = revenue.InexactFloat64()
	res.PreviousRevenue = prevRevenue.InexactFloat64()
	if !prevRevenue.IsZero() {
		res.RevenueTrend = revenue.Sub(prevRevenue).
			Div(prevRevenue).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
	}

	top := make([]CustomerRevenue, 0, len(byCustomer))
	for id, agg := range byCustomer {
		top = append(top, CustomerRevenue{
			CustomerID:   id.String(),
			CustomerName: agg.name,
			Revenue:      agg.revenue.InexactFloat64(),
			OrderCount:   agg.orders,
		})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 5 {
		top = top[:5]
	}
	res.TopCustomers = top

	return res, nil
}
