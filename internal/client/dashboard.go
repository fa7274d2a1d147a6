package client

import (
	"sort"

	"github.com/ThatoMphasane/thato/internal/dto"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold mirrors the dashboard's "below 10" rule.
const DefaultLowStockThreshold = 10

// Categories returns the distinct product categories, sorted.
func (s *State) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// InventoryValue sums price × quantity over the mirror, optionally filtered
// by category (empty means all).
func (s *State) InventoryValue(category string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}

// LowStock lists products whose quantity is below threshold.
func (s *State) LowStock(threshold int) []dto.ProductResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []dto.ProductResponse
	for _, p := range s.products {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out
}
