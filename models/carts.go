package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart holds an ordered list of line items, at most one per product.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem references a product by id; the product is not copied into the cart.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"not null"`
	Position  int       `gorm:"not null"`
}

func (i *CartItem) TableName() string {
	return "cart_items"
}

// FindItem returns the index of the line item for productID, or -1.
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of an existing line or appends a new one.
// A sum that would overflow int is rejected and leaves the line unchanged.
func (c *Cart) AddItem(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.FindItem(productID); i >= 0 {
		if c.Items[i].Quantity > math.MaxInt-quantity {
			return ErrInvalidQuantity
		}
		c.Items[i].Quantity += quantity
		return nil
	}
	c.Items = append(c.Items, CartItem{
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

// RemoveItem drops the line for productID. It reports whether a line was removed.
func (c *Cart) RemoveItem(productID uuid.UUID) bool {
	i := c.FindItem(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetQuantity overwrites the quantity of an existing line.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.FindItem(productID)
	if i < 0 {
		return ErrProductNotInCart
	}
	c.Items[i].Quantity = quantity
	return nil
}

// ReplaceItems swaps the whole line list. Nothing changes unless every line is valid.
// Repeated products are merged into one line, keeping the first position.
func (c *Cart) ReplaceItems(items []CartItem) error {
	for _, it := range items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	next := &Cart{ID: c.ID, Items: []CartItem{}}
	for _, it := range items {
		if err := next.AddItem(it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	c.Items = next.Items
	return nil
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// ProductIDs returns the referenced product ids in line order.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}
