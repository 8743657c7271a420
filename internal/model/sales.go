package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants
const (
	PaymentStatusPaid      = "PAID"
	PaymentStatusPartial   = "PARTIAL"
	PaymentStatusPending   = "PENDING"
	PaymentStatusCancelled = "CANCELLED"
)

// PaymentMode enum constants
const (
	PaymentModeCash     = "CASH"
	PaymentModeCheque   = "CHEQUE"
	PaymentModeOnline   = "ONLINE"
	PaymentModeTransfer = "TRANSFER"
)

// OrderStatus enum constants
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// SalesOrder is a customer order with one or more line items
type SalesOrder struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_number"`
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer       *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	OrderDate      time.Time        `json:"order_date"`
	DeliveryDate   *time.Time       `json:"delivery_date"`
	Status         string           `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentStatus  string           `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"payment_status"`
	PaymentMode    string           `gorm:"type:varchar(20)" json:"payment_mode"` // CASH, CHEQUE, ONLINE, TRANSFER
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(18,4);default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal  `gorm:"type:decimal(18,4);default:0" json:"tax_amount"`
	Remarks        string           `gorm:"type:text" json:"remarks"`
	Items          []SalesOrderItem `gorm:"foreignKey:SalesOrderID" json:"items"`
	Payments       []Payment        `gorm:"foreignKey:SalesOrderID" json:"payments,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SalesOrderItem is a single line of a sales order. Exactly one of
// ThreadPurchaseID and FabricProductionID must be set, matching ProductType.
type SalesOrderItem struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SalesOrderID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	ProductType        string            `gorm:"type:varchar(20);not null" json:"product_type"` // THREAD, FABRIC
	ThreadPurchaseID   *uuid.UUID        `gorm:"type:uuid;index" json:"thread_purchase_id"`
	ThreadPurchase     *ThreadPurchase   `gorm:"foreignKey:ThreadPurchaseID" json:"thread_purchase,omitempty"`
	FabricProductionID *uuid.UUID        `gorm:"type:uuid;index" json:"fabric_production_id"`
	FabricProduction   *FabricProduction `gorm:"foreignKey:FabricProductionID" json:"fabric_production,omitempty"`
	QuantitySold       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"quantity_sold"`
	UnitPrice          decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal           decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Payment records money received against either a thread purchase (money we
// paid the vendor) or a sales order (money the customer paid us).
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ThreadPurchaseID *uuid.UUID      `gorm:"type:uuid;index" json:"thread_purchase_id"`
	SalesOrderID     *uuid.UUID      `gorm:"type:uuid;index" json:"sales_order_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Mode             string          `gorm:"type:varchar(20);not null;default:'CASH'" json:"mode"`
	ReferenceNumber  string          `gorm:"type:varchar(100)" json:"reference_number"`
	ChequeStatus     string          `gorm:"type:varchar(20)" json:"cheque_status"` // PENDING, CLEARED, BOUNCED
	PaymentDate      time.Time       `json:"payment_date"`
	Remarks          string          `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
