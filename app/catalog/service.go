package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mytheresa/storefront/app/listing"
	"github.com/mytheresa/storefront/models"
)

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, filters models.ProductFilters, sort models.SortOrder, page, limit int) (models.ProductPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SaveProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Notifier is told after every successful catalog mutation.
type Notifier interface {
	ProductsChanged(ctx context.Context)
}

// Service implements the catalog operations and triggers a snapshot broadcast after each mutation.
type Service struct {
	repo     ProductProvider
	notifier Notifier
}

func NewService(repo ProductProvider, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) List(ctx context.Context, q listing.Query) (models.ProductPage, error) {
	return s.repo.GetFilteredProducts(ctx, q.Filters, q.Sort, q.Page, q.Limit)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := models.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product, err := in.NewProduct()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return product, nil
}

func (s *Service) Update(ctx context.Context, rawID string, in models.ProductInput) (*models.Product, error) {
	id, err := models.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.ApplyTo(product); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := models.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return product, nil
}

func (s *Service) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.ProductsChanged(ctx)
	}
}
