package repository

import (
	"context"
	"errors"

	"github.com/ThatoMphasane/thato/internal/apierror"
	"github.com/ThatoMphasane/thato/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error

	// SetQuantity writes an absolute quantity (the legacy partial-update path)
	// and returns the refreshed row.
	SetQuantity(ctx context.Context, id uint, quantity int) (*model.Product, error)

	// AdjustStock applies a signed delta with a conditional update so the
	// quantity can never go negative, and returns the refreshed row.
	AdjustStock(ctx context.Context, id uint, delta int) (*model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *productRepo) SetQuantity(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apierror.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *productRepo) AdjustStock(ctx context.Context, id uint, delta int) (*model.Product, error) {
	// Conditional update: sales only land when enough stock remains.
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row does not exist or the decrement would overdraw.
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apierror.ErrInsufficientStock
	}
	return r.FindByID(ctx, id)
}
