package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ThreadType is a catalog entry for a kind of thread (cotton, polyester, ...).
// Names are matched case-insensitively when purchases and dyeing outputs are
// folded into inventory.
type ThreadType struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Units       string    `gorm:"type:varchar(20);default:'kg'" json:"units"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ColorStatus enum constants
const (
	ColorStatusRaw     = "RAW"
	ColorStatusColored = "COLORED"
)

// ThreadPurchase represents a single purchase of thread from a vendor
type ThreadPurchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor        *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ThreadType    string          `gorm:"type:varchar(100);not null" json:"thread_type"`
	ColorStatus   string          `gorm:"type:varchar(20);not null;default:'RAW'" json:"color_status"` // RAW, COLORED
	Color         string          `gorm:"type:varchar(100)" json:"color"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitOfMeasure string          `gorm:"type:varchar(20);default:'kg'" json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_cost"` // quantity * unit_price
	DeliveryDate  *time.Time      `json:"delivery_date"`
	ReceivedAt    *time.Time      `json:"received_at"`
	Received      bool            `gorm:"default:false;index" json:"received"`
	Remarks       string          `gorm:"type:text" json:"remarks"`

	DyeingProcesses   []DyeingProcess    `gorm:"foreignKey:ThreadPurchaseID" json:"dyeing_processes,omitempty"`
	FabricProductions []FabricProduction `gorm:"foreignKey:SourceThreadID" json:"fabric_productions,omitempty"`
	Payments          []Payment          `gorm:"foreignKey:ThreadPurchaseID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
