package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionStatus enum constants
const (
	ProductionPending    = "PENDING"
	ProductionInProgress = "IN_PROGRESS"
	ProductionCompleted  = "COMPLETED"
	ProductionCancelled  = "CANCELLED"
)

// FabricProduction represents a weaving batch converting thread into fabric.
// A production cannot be deleted while sales order items reference it.
type FabricProduction struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SourceThreadID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"source_thread_id"`
	SourceThread     *ThreadPurchase `gorm:"foreignKey:SourceThreadID" json:"source_thread,omitempty"`
	DyeingProcessID  *uuid.UUID      `gorm:"type:uuid;index" json:"dyeing_process_id"`
	DyeingProcess    *DyeingProcess  `gorm:"foreignKey:DyeingProcessID" json:"dyeing_process,omitempty"`
	FabricType       string          `gorm:"type:varchar(100);not null" json:"fabric_type"`
	Dimensions       string          `gorm:"type:varchar(100)" json:"dimensions"`
	QuantityProduced decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity_produced"`
	ThreadUsed       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"thread_used"`
	ThreadWastage    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"thread_wastage"`
	UnitOfMeasure    string          `gorm:"type:varchar(20);default:'meters'" json:"unit_of_measure"`
	ProductionCost   decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"production_cost"`
	LaborCost        decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"labor_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_cost"`
	Status           string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ProductionDate   time.Time       `json:"production_date"`
	CompletionDate   *time.Time      `json:"completion_date"`
	Remarks          string          `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
