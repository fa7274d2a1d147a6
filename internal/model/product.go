package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory item. Quantity never goes negative: sales go
// through a conditional decrement in the repository rather than a blind save.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	Category    string          `gorm:"index;not null"`
	Description string          `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
