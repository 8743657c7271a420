package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType enum constants
const (
	ProductTypeThread = "THREAD"
	ProductTypeFabric = "FABRIC"
)

// TransactionType enum constants
const (
	TxTypePurchase   = "PURCHASE"
	TxTypeProduction = "PRODUCTION"
	TxTypeSales      = "SALES"
	TxTypeAdjustment = "ADJUSTMENT"
	TxTypeTransfer   = "TRANSFER"
)

// Inventory is a stock-keeping unit for thread or fabric
type Inventory struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemCode        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"item_code"`
	Description     string          `gorm:"type:text" json:"description"`
	ProductType     string          `gorm:"type:varchar(20);not null;index" json:"product_type"` // THREAD, FABRIC
	ThreadTypeID    *uuid.UUID      `gorm:"type:uuid;index" json:"thread_type_id"`
	ThreadType      *ThreadType     `gorm:"foreignKey:ThreadTypeID" json:"thread_type,omitempty"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"current_quantity"`
	UnitOfMeasure   string          `gorm:"type:varchar(20);default:'kg'" json:"unit_of_measure"`
	MinStockLevel   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"min_stock_level"`
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_unit"`
	SalePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sale_price"`
	Location        string          `gorm:"type:varchar(100)" json:"location"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Transactions []InventoryTransaction `gorm:"foreignKey:InventoryID" json:"transactions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InventoryTransaction is an immutable stock movement against an Inventory
// item. RemainingQuantity is fixed at creation time; running balances live on
// Inventory.CurrentQuantity.
//
// DyeingProcessID carries a partial unique index so a completed dyeing process
// can be folded into inventory at most once even under concurrent requests.
type InventoryTransaction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory          *Inventory      `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	TransactionType    string          `gorm:"type:varchar(20);not null;index" json:"transaction_type"` // PURCHASE, PRODUCTION, SALES, ADJUSTMENT, TRANSFER
	TransactionDate    time.Time       `json:"transaction_date"`
	Quantity           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	RemainingQuantity  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"remaining_quantity"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"unit_cost"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_cost"`
	ThreadPurchaseID   *uuid.UUID      `gorm:"type:uuid;index" json:"thread_purchase_id"`
	DyeingProcessID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex:uniq_inventory_tx_dyeing,where:dyeing_process_id IS NOT NULL" json:"dyeing_process_id"`
	FabricProductionID *uuid.UUID      `gorm:"type:uuid;index" json:"fabric_production_id"`
	SalesOrderID       *uuid.UUID      `gorm:"type:uuid;index" json:"sales_order_id"`
	Notes              string          `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
