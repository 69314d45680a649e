package carts

import (
	"context"

	"github.com/google/uuid"
	"github.com/mytheresa/storefront/models"
	"github.com/shopspring/decimal"
)

type CartProvider interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	SaveCartItems(ctx context.Context, cart *models.Cart) error
}

type ProductLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Line is a cart line joined with its product.
type Line struct {
	Product  models.Product
	Quantity int
	Subtotal decimal.Decimal
}

// Details is a cart with every reference resolved. Lines whose product no longer exists are dropped.
type Details struct {
	Cart  *models.Cart
	Lines []Line
	Total decimal.Decimal
}

// ItemInput is one requested line of a full cart replacement.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// Service enforces the cart rules: one line per product, positive quantities,
// and product references that exist when they are written.
type Service struct {
	carts    CartProvider
	products ProductLookup
}

func NewService(carts CartProvider, products ProductLookup) *Service {
	return &Service{carts: carts, products: products}
}

func (s *Service) Create(ctx context.Context) (*Details, error) {
	cart, err := s.carts.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	return &Details{Cart: cart, Lines: []Line{}, Total: decimal.Zero}, nil
}

func (s *Service) GetWithDetails(ctx context.Context, rawCartID string) (*Details, error) {
	cart, err := s.load(ctx, rawCartID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, cart)
}

func (s *Service) AddProduct(ctx context.Context, rawCartID, rawProductID string, quantity int) (*Details, error) {
	cartID, productID, err := parseIDs(rawCartID, rawProductID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.SaveCartItems(ctx, cart); err != nil {
		return nil, err
	}
	return s.details(ctx, cart)
}

// RemoveProduct is idempotent: removing a product the cart does not hold succeeds unchanged.
func (s *Service) RemoveProduct(ctx context.Context, rawCartID, rawProductID string) (*Details, error) {
	cartID, productID, err := parseIDs(rawCartID, rawProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.RemoveItem(productID) {
		if err := s.carts.SaveCartItems(ctx, cart); err != nil {
			return nil, err
		}
	}
	return s.details(ctx, cart)
}

// UpdateCart replaces every line of the cart. All items are validated before anything is written.
func (s *Service) UpdateCart(ctx context.Context, rawCartID string, items []ItemInput) (*Details, error) {
	cartID, err := models.ParseID(rawCartID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartItem, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i, it := range items {
		productID, err := models.ParseID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if it.Quantity < 1 {
			return nil, models.ErrInvalidQuantity
		}
		lines[i] = models.CartItem{ProductID: productID, Quantity: it.Quantity}
		ids = append(ids, productID)
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, models.ErrProductNotFound
		}
	}

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.ReplaceItems(lines); err != nil {
		return nil, err
	}
	if err := s.carts.SaveCartItems(ctx, cart); err != nil {
		return nil, err
	}
	return s.details(ctx, cart)
}

// UpdateProductQuantity sets, not increments, the quantity of a line already in the cart.
func (s *Service) UpdateProductQuantity(ctx context.Context, rawCartID, rawProductID string, quantity int) (*Details, error) {
	cartID, productID, err := parseIDs(rawCartID, rawProductID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.SaveCartItems(ctx, cart); err != nil {
		return nil, err
	}
	return s.details(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, rawCartID string) (*Details, error) {
	cart, err := s.load(ctx, rawCartID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.carts.SaveCartItems(ctx, cart); err != nil {
		return nil, err
	}
	return &Details{Cart: cart, Lines: []Line{}, Total: decimal.Zero}, nil
}

func (s *Service) load(ctx context.Context, rawCartID string) (*models.Cart, error) {
	id, err := models.ParseID(rawCartID)
	if err != nil {
		return nil, err
	}
	return s.carts.GetCartByID(ctx, id)
}

// details joins the cart lines with the catalog and prices them, rounding to cents.
func (s *Service) details(ctx context.Context, cart *models.Cart) (*Details, error) {
	products, err := s.products.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	d := &Details{Cart: cart, Lines: make([]Line, 0, len(cart.Items)), Total: decimal.Zero}
	for _, it := range cart.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		d.Lines = append(d.Lines, Line{Product: p, Quantity: it.Quantity, Subtotal: subtotal})
		d.Total = d.Total.Add(subtotal)
	}
	d.Total = d.Total.Round(2)
	return d, nil
}

func parseIDs(rawCartID, rawProductID string) (uuid.UUID, uuid.UUID, error) {
	cartID, err := models.ParseID(rawCartID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	productID, err := models.ParseID(rawProductID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cartID, productID, nil
}
