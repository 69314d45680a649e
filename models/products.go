package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Prices are stored as decimal(10,2).
const priceScale = 2

var maxPrice = decimal.New(1, 8)

// Product represents a product in the catalog.
// Code is unique across the catalog.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title       string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	Code        string          `gorm:"uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      bool            `gorm:"not null"`
	Stock       int             `gorm:"not null"`
	Category    string          `gorm:"index;not null"`
	Thumbnails  pq.StringArray  `gorm:"type:text[]"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate checks the invariants every stored product must satisfy.
func (p *Product) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(p.Code) == "" {
		problems = append(problems, "code is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		problems = append(problems, "category is required")
	}
	switch {
	case p.Price.IsNegative():
		problems = append(problems, "price must be >= 0")
	case p.Price.GreaterThanOrEqual(maxPrice):
		problems = append(problems, "price must be less than "+maxPrice.String())
	}
	if !p.Price.Equal(p.Price.Round(priceScale)) {
		problems = append(problems, "price must have at most 2 decimal places")
	}
	if p.Stock < 0 {
		problems = append(problems, "stock must be >= 0")
	}
	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

// ProductInput is the writable part of a product as received from clients.
// Nil fields were absent from the payload.
type ProductInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Code        *string          `json:"code"`
	Price       *decimal.Decimal `json:"price"`
	Status      *bool            `json:"status"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Thumbnails  []string         `json:"thumbnails"`

	// Server-assigned fields; their presence in an update is rejected.
	ID        json.RawMessage `json:"id,omitempty"`
	MongoID   json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}

// NewProduct builds a product from a create payload.
// Status defaults to available and thumbnails to an empty list.
func (in ProductInput) NewProduct() (*Product, error) {
	var problems []string
	if in.Price == nil {
		problems = append(problems, "price is required")
	}
	if in.Stock == nil {
		problems = append(problems, "stock is required")
	}

	p := &Product{
		Status:     true,
		Thumbnails: pq.StringArray{},
	}
	in.apply(p)

	if err := p.Validate(); err != nil {
		problems = append(problems, err.(*ValidationError).Problems...)
	}
	if len(problems) > 0 {
		return nil, NewValidationError(problems...)
	}
	return p, nil
}

// ApplyTo merges an update payload into p and revalidates the result.
func (in ProductInput) ApplyTo(p *Product) error {
	var problems []string
	if len(in.ID) > 0 || len(in.MongoID) > 0 {
		problems = append(problems, "id cannot be modified")
	}
	if len(in.CreatedAt) > 0 || len(in.UpdatedAt) > 0 {
		problems = append(problems, "timestamps cannot be modified")
	}
	if len(problems) > 0 {
		return NewValidationError(problems...)
	}

	in.apply(p)
	return p.Validate()
}

func (in ProductInput) apply(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Code != nil {
		p.Code = strings.TrimSpace(*in.Code)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Thumbnails != nil {
		p.Thumbnails = pq.StringArray(append([]string{}, in.Thumbnails...))
	}
}
