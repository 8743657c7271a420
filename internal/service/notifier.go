package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEvent is pushed to connected dashboards whenever stock moves
type StockEvent struct {
	Event           string  `json:"event"`
	InventoryID     string  `json:"inventory_id"`
	ItemCode        string  `json:"item_code"`
	CurrentQuantity float64 `json:"current_quantity"`
}

// StockNotifier decouples services from the websocket hub
type StockNotifier interface {
	BroadcastStockChange(event StockEvent)
}

func notifyStockChange(n StockNotifier, inventoryID uuid.UUID, itemCode string, quantity decimal.Decimal) {
	if n == nil {
		return
	}
	n.BroadcastStockChange(StockEvent{
		Event:           "stock_changed",
		InventoryID:     inventoryID.String(),
		ItemCode:        itemCode,
		CurrentQuantity: quantity.InexactFloat64(),
	})
}
