package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/model"
	"github.com/ThatoMphasane/thato/internal/repository"
	"github.com/ThatoMphasane/thato/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productCacheKey = "cache:products"
	productCacheTTL = 60 * time.Second
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	ListRecords(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	SetQuantity(ctx context.Context, id uint, quantity int) (*dto.QuantityUpdateResponse, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo       repository.ProductRepository
	movements  repository.StockMovementRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
	lowStock   int
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository,
	rdb *redis.Client, dispatcher *worker.Dispatcher, lowStock int) ProductService {
	return &productService{repo: repo, movements: movements, rdb: rdb, dispatcher: dispatcher, lowStock: lowStock}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidateProductCache(ctx, s.rdb)
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// List serves the full product array, fronted by a short-lived redis cache.
// A nil redis client degrades to direct reads.
func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productCacheKey).Bytes(); err == nil {
			var resp []dto.ProductResponse
			if json.Unmarshal(cached, &resp) == nil {
				return resp, nil
			}
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, productCacheKey, data, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("product cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) ListRecords(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevQty := p.Quantity
	p.Name = *req.Name
	p.Price = *req.Price
	p.Quantity = *req.Quantity
	p.Category = *req.Category
	p.Description = *req.Description

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.Quantity != prevQty {
		s.recordMovement(ctx, p, model.MovementAdjustment, prevQty)
	}
	invalidateProductCache(ctx, s.rdb)
	s.maybeAlertLowStock(ctx, p)

	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) SetQuantity(ctx context.Context, id uint, quantity int) (*dto.QuantityUpdateResponse, error) {
	prev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.SetQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if p.Quantity != prev.Quantity {
		s.recordMovement(ctx, p, model.MovementAdjustment, prev.Quantity)
	}
	invalidateProductCache(ctx, s.rdb)
	s.maybeAlertLowStock(ctx, p)

	return &dto.QuantityUpdateResponse{ID: p.ID, NewQuantity: p.Quantity}, nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateProductCache(ctx, s.rdb)
	return nil
}

func (s *productService) recordMovement(ctx context.Context, p *model.Product, movType string, prevQty int) {
	m := &model.StockMovement{
		ProductID:    p.ID,
		Type:         movType,
		Delta:        p.Quantity - prevQty,
		PrevQuantity: prevQty,
		NewQuantity:  p.Quantity,
	}
	// Audit only — a failed movement write must not fail the update itself.
	if err := s.movements.Create(ctx, m); err != nil {
		log.Error().Err(err).Uint("product_id", p.ID).Msg("stock movement write failed")
	}
}

func (s *productService) maybeAlertLowStock(ctx context.Context, p *model.Product) {
	if p.Quantity >= s.lowStock {
		return
	}
	if err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
		ProductID: p.ID, ProductName: p.Name, Quantity: p.Quantity, Threshold: s.lowStock,
	}); err != nil {
		log.Warn().Err(err).Uint("product_id", p.ID).Msg("stock alert enqueue failed")
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		Description: p.Description,
	}
}

func invalidateProductCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, productCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
