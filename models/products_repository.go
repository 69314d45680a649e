package models

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// GetAllProducts returns the whole catalog, most recently created first.
func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filters ProductFilters, sort SortOrder, page, limit int) (ProductPage, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return ProductPage{}, errors.Wrap(err, "count products")
	}

	switch sort {
	case SortPriceAsc:
		query = query.Order("price ASC")
	case SortPriceDesc:
		query = query.Order("price DESC")
	}

	// Apply pagination
	if page < 1 {
		page = 1
	}
	offset, ok := PageOffset(page, limit)
	if !ok {
		return NewProductPage([]Product{}, total, page, limit), nil
	}
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return ProductPage{}, errors.Wrap(err, "query products")
	}

	return NewProductPage(products, total, page, limit), nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	return &product, nil
}

// GetByIDs returns the products that still exist among ids, in no particular order.
func (r *ProductsRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	var products []Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "get products by id")
	}
	return products, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translateWriteError(err, "create product")
	}
	return nil
}

func (r *ProductsRepository) SaveProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return translateWriteError(err, "update product")
	}
	return nil
}

// DeleteProduct hard-deletes a product and returns it as it was before deletion.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetCategories returns the distinct product categories in alphabetical order.
func (r *ProductsRepository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *ProductsRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return n, nil
}

func translateWriteError(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return errors.Wrap(err, op)
}
