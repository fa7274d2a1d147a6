package model

import "time"

// Movement types recorded against a product.
const (
	MovementSale       = "sale"
	MovementRestock    = "restock"
	MovementAdjustment = "adjustment"
)

// StockMovement records every quantity change on a product: sales, restocks,
// and absolute adjustments made through the quantity-only update path.
type StockMovement struct {
	ID           uint   `gorm:"primaryKey"`
	ProductID    uint   `gorm:"not null;index"`
	Type         string `gorm:"not null"` // "sale" | "restock" | "adjustment"
	Delta        int    `gorm:"not null"` // positive = in, negative = out
	PrevQuantity int    `gorm:"not null"`
	NewQuantity  int    `gorm:"not null"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
