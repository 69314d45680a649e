package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CartsRepository struct {
	db *gorm.DB
}

func NewCartsRepository(db *gorm.DB) *CartsRepository {
	return &CartsRepository{db: db}
}

func (r *CartsRepository) CreateCart(ctx context.Context) (*Cart, error) {
	cart := &Cart{Items: []CartItem{}}
	if err := r.db.WithContext(ctx).Omit("Items").Create(cart).Error; err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return cart, nil
}

func (r *CartsRepository) GetCartByID(ctx context.Context, id uuid.UUID) (*Cart, error) {
	var cart Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errors.Wrap(err, "get cart")
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}

// SaveCartItems replaces the stored line items of cart with cart.Items in one transaction.
func (r *CartsRepository) SaveCartItems(ctx context.Context, cart *Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&Cart{}).Where("id = ?", cart.ID).Update("updated_at", now)
		if res.Error != nil {
			return errors.Wrap(res.Error, "touch cart")
		}
		if res.RowsAffected == 0 {
			return ErrCartNotFound
		}
		cart.UpdatedAt = now

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
			return errors.Wrap(err, "delete cart items")
		}
		if len(cart.Items) == 0 {
			return nil
		}

		items := make([]CartItem, len(cart.Items))
		for i, it := range cart.Items {
			items[i] = CartItem{
				CartID:    cart.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Position:  i,
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return errors.Wrap(err, "insert cart items")
		}
		cart.Items = items
		return nil
	})
}

func (r *CartsRepository) CountCarts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Cart{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count carts")
	}
	return n, nil
}
