package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor represents a thread supplier
type Vendor struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string           `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string           `gorm:"type:varchar(50)" json:"phone"`
	Email         string           `gorm:"type:varchar(255)" json:"email"`
	Address       string           `gorm:"type:text" json:"address"`
	Notes         string           `gorm:"type:text" json:"notes"`
	IsActive      bool             `gorm:"default:true" json:"is_active"`
	Purchases     []ThreadPurchase `gorm:"foreignKey:VendorID" json:"purchases,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

// Customer represents a sales order buyer
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Address   string         `gorm:"type:text" json:"address"`
	City      string         `gorm:"type:varchar(100)" json:"city"`
	Notes     string         `gorm:"type:text" json:"notes"`
	Orders    []SalesOrder   `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
