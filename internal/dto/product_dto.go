package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string           `json:"name"        validate:"required,min=1,max=120"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Quantity    *int             `json:"quantity"    validate:"required,min=0"`
	Category    string           `json:"category"    validate:"required"`
	Description string           `json:"description" validate:"required"`
}

// UpdateProductRequest is accepted by PUT /api/products/:id. The handler
// serves two bodies on one route: the full record, or just {quantity}.
// All fields are pointers so the service can tell "absent" from "zero".
type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=120"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"    validate:"omitempty,min=0"`
	Category    *string          `json:"category"    validate:"omitempty,min=1"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
}

// IsQuantityOnly reports whether the body carried nothing but a quantity —
// the partial stock-set path inherited from the legacy API.
func (r UpdateProductRequest) IsQuantityOnly() bool {
	return r.Quantity != nil && r.Name == nil && r.Price == nil &&
		r.Category == nil && r.Description == nil
}

// IsFullRecord reports whether every updatable field was supplied.
func (r UpdateProductRequest) IsFullRecord() bool {
	return r.Name != nil && r.Price != nil && r.Quantity != nil &&
		r.Category != nil && r.Description != nil
}

// AdjustStockRequest is the delta-based path: sales decrement atomically and
// fail when stock would go negative; restocks increment.
type AdjustStockRequest struct {
	Type     string `json:"type"     validate:"required,oneof=sale restock"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// QuantityUpdateResponse mirrors the legacy quantity-only update reply.
type QuantityUpdateResponse struct {
	ID          uint `json:"id"`
	NewQuantity int  `json:"newQuantity"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StockMovementResponse struct {
	ID           uint   `json:"id"`
	ProductID    uint   `json:"product_id"`
	Type         string `json:"type"`
	Delta        int    `json:"delta"`
	PrevQuantity int    `json:"prev_quantity"`
	NewQuantity  int    `json:"new_quantity"`
	CreatedAt    string `json:"created_at"`
}
