package database

import (
	"context"

	"github.com/lib/pq"
	"github.com/mytheresa/storefront/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ProductSeeder interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
}

type CartSeeder interface {
	CountCarts(ctx context.Context) (int64, error)
	CreateCart(ctx context.Context) (*models.Cart, error)
}

// Seed fills an empty catalog with sample products and makes sure one cart exists.
// Tables that already hold rows are left alone.
func Seed(ctx context.Context, products ProductSeeder, carts CartSeeder, log logrus.FieldLogger) error {
	n, err := products.CountProducts(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, p := range sampleProducts() {
			product := p
			if err := products.CreateProduct(ctx, &product); err != nil {
				return errors.Wrapf(err, "seed product %s", product.Code)
			}
		}
		log.WithField("count", len(sampleProducts())).Info("seeded products")
	}

	n, err = carts.CountCarts(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		cart, err := carts.CreateCart(ctx)
		if err != nil {
			return errors.Wrap(err, "seed cart")
		}
		log.WithField("cart_id", cart.ID).Info("seeded cart")
	}
	return nil
}

func sampleProducts() []models.Product {
	item := func(code, title, category, price string, stock int, status bool) models.Product {
		return models.Product{
			Title:       title,
			Description: title + " from the sample catalog",
			Code:        code,
			Price:       decimal.RequireFromString(price),
			Status:      status,
			Stock:       stock,
			Category:    category,
			Thumbnails:  pq.StringArray{},
		}
	}
	return []models.Product{
		item("BOOT-001", "Leather ankle boots", "Shoes", "189.90", 12, true),
		item("SNK-002", "Canvas sneakers", "Shoes", "69.00", 30, true),
		item("SND-003", "Strappy sandals", "Shoes", "54.50", 0, false),
		item("DRS-004", "Silk midi dress", "Clothing", "320.00", 5, true),
		item("JKT-005", "Wool blazer", "Clothing", "415.00", 3, true),
		item("TEE-006", "Organic cotton tee", "Clothing", "29.99", 80, true),
		item("BAG-007", "Leather tote bag", "Bags", "275.00", 8, true),
		item("BAG-008", "Mini crossbody bag", "Bags", "149.00", 0, false),
		item("ACC-009", "Cashmere scarf", "Accessories", "120.00", 14, true),
		item("ACC-010", "Aviator sunglasses", "Accessories", "98.00", 20, true),
		item("ACC-011", "Leather belt", "Accessories", "65.00", 25, true),
		item("WCH-012", "Steel wristwatch", "Accessories", "450.00", 2, true),
	}
}
