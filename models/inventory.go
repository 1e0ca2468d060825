package models

import "time"

type InventoryItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	IngredientName  string    `json:"ingredient_name" gorm:"not null"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	ReorderLevel    float64   `json:"reorder_level"`
	SupplierName    string    `json:"supplier_name"`
	SupplierContact string    `json:"supplier_contact"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NeedsReorder is true when stock dropped to or below the reorder level
func (i InventoryItem) NeedsReorder() bool {
	return i.Quantity <= i.ReorderLevel
}
