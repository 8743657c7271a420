package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResultStatus enum constants
const (
	DyeStatusPending   = "PENDING"
	DyeStatusCompleted = "COMPLETED"
	DyeStatusFailed    = "FAILED"
	DyeStatusCancelled = "CANCELLED"
)

// InventoryStatus enum constants
const (
	DyeInventoryPending = "PENDING"
	DyeInventoryAdded   = "ADDED"
)

// DyeingProcess tracks the conversion of raw thread into colored thread,
// with cost and yield. Completing a process may fold its output into
// inventory exactly once.
type DyeingProcess struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ThreadPurchaseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"thread_purchase_id"`
	ThreadPurchase   *ThreadPurchase `gorm:"foreignKey:ThreadPurchaseID" json:"thread_purchase,omitempty"`
	DyeDate          time.Time       `json:"dye_date"`
	DyeParameters    string          `gorm:"type:text" json:"dye_parameters"` // free-form JSON from the dye house
	ColorName        string          `gorm:"type:varchar(100)" json:"color_name"`
	ColorCode        string          `gorm:"type:varchar(50)" json:"color_code"`
	DyeQuantity      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"dye_quantity"`
	OutputQuantity   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"output_quantity"`
	LaborCost        decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"labor_cost"`
	DyeMaterialCost  decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"dye_material_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_cost"` // labor_cost + dye_material_cost
	ResultStatus     string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"result_status"`
	InventoryStatus  string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"inventory_status"`
	CompletionDate   *time.Time      `json:"completion_date"`
	Remarks          string          `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
