package database

import (
	"log"

	"textile-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Vendor{},
		&model.Customer{},
		&model.ThreadType{},
		&model.ThreadPurchase{},
		&model.DyeingProcess{},
		&model.FabricProduction{},
		&model.Inventory{},
		&model.InventoryTransaction{},
		&model.SalesOrder{},
		&model.SalesOrderItem{},
		&model.Payment{},
		&model.Khata{},
		&model.LedgerParty{},
		&model.LedgerBill{},
		&model.LedgerTransaction{},
		&model.BankAccount{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
