package service

import (
	"context"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/model"
	"github.com/ThatoMphasane/thato/internal/repository"
	"github.com/ThatoMphasane/thato/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InventoryService handles the delta-based stock paths (sell / restock) and
// the movement audit trail. Sales decrement through a conditional update, so
// two concurrent sells can never overdraw a product.
type InventoryService interface {
	AdjustStock(ctx context.Context, productID uint, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, productID uint) ([]dto.StockMovementResponse, error)
}

type inventoryService struct {
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
	lowStock   int
}

func NewInventoryService(products repository.ProductRepository, movements repository.StockMovementRepository,
	rdb *redis.Client, dispatcher *worker.Dispatcher, lowStock int) InventoryService {
	return &inventoryService{products: products, movements: movements, rdb: rdb, dispatcher: dispatcher, lowStock: lowStock}
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID uint, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	delta := req.Quantity
	if req.Type == model.MovementSale {
		delta = -req.Quantity
	}

	p, err := s.products.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	m := &model.StockMovement{
		ProductID:    p.ID,
		Type:         req.Type,
		Delta:        delta,
		PrevQuantity: p.Quantity - delta,
		NewQuantity:  p.Quantity,
	}
	if err := s.movements.Create(ctx, m); err != nil {
		log.Error().Err(err).Uint("product_id", p.ID).Msg("stock movement write failed")
	}

	invalidateProductCache(ctx, s.rdb)

	if p.Quantity < s.lowStock {
		if err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
			ProductID: p.ID, ProductName: p.Name, Quantity: p.Quantity, Threshold: s.lowStock,
		}); err != nil {
			log.Warn().Err(err).Uint("product_id", p.ID).Msg("stock alert enqueue failed")
		}
	}

	resp := toProductResponse(p)
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, productID uint) ([]dto.StockMovementResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		resp[i] = dto.StockMovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			Type:         m.Type,
			Delta:        m.Delta,
			PrevQuantity: m.PrevQuantity,
			NewQuantity:  m.NewQuantity,
			CreatedAt:    m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return resp, nil
}
