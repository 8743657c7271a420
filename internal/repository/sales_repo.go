package repository

import (
	"context"
	"time"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesOrderFilter narrows List results. ProductType filters through a join
// against line items.
type SalesOrderFilter struct {
	CustomerID    *uuid.UUID
	ProductType   string
	PaymentStatus string
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int
}

type SalesOrderRepository interface {
	Create(ctx context.Context, order *model.SalesOrder) error
	CreateItem(ctx context.Context, item *model.SalesOrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	List(ctx context.Context, filter SalesOrderFilter) ([]model.SalesOrder, int64, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.SalesOrder, error)
	Update(ctx context.Context, order *model.SalesOrder) error
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
}

type salesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

func (r *salesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *salesOrderRepository) CreateItem(ctx context.Context, item *model.SalesOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *salesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Items").
		Preload("Items.ThreadPurchase").
		Preload("Items.FabricProduction").
		Preload("Payments").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepository) List(ctx context.Context, filter SalesOrderFilter) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64

	query := GetDB(ctx, r.db).Model(&model.SalesOrder{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.StartDate != nil {
		query = query.Where("order_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("order_date <= ?", *filter.EndDate)
	}
	if filter.ProductType != "" {
		query = query.
			Joins("JOIN sales_order_items ON sales_order_items.sales_order_id = sales_orders.id").
			Where("sales_order_items.product_type = ?", filter.ProductType).
			Distinct("sales_orders.*")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Customer").
		Preload("Items").
		Preload("Items.ThreadPurchase").
		Preload("Items.FabricProduction").
		Preload("Payments").
		Order("order_date DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListBetween fetches all orders in [start, end] with items and payments for
// in-memory analytics aggregation.
func (r *salesOrderRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	if err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		Where("order_date >= ? AND order_date <= ?", start, end).
		Order("order_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *salesOrderRepository) Update(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *salesOrderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) ListBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).Where("sales_order_id = ?", orderID).Order("payment_date ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
