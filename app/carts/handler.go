package carts

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mytheresa/storefront/app/api"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type CartLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal float64         `json:"subtotal"`
}

type Cart struct {
	ID        string     `json:"id"`
	Products  []CartLine `json:"products"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewCart(d *Details) Cart {
	lines := make([]CartLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = CartLine{
			Product:  catalog.NewProduct(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal.InexactFloat64(),
		}
	}
	return Cart{
		ID:        d.Cart.ID.String(),
		Products:  lines,
		Total:     d.Total.InexactFloat64(),
		CreatedAt: d.Cart.CreatedAt,
		UpdatedAt: d.Cart.UpdatedAt,
	}
}

type quantityReq struct {
	Quantity *json.Number `json:"quantity"`
}

type itemReq struct {
	Product  string       `json:"product"`
	Quantity *json.Number `json:"quantity"`
}

type CartHandler struct {
	svc *Service
	log logrus.FieldLogger
}

func NewCartHandler(svc *Service, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

func (h *CartHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/carts", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/carts/{id}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/carts/{id}", h.HandleUpdateCart).Methods(http.MethodPut)
	r.HandleFunc("/api/carts/{id}", h.HandleClear).Methods(http.MethodDelete)
	r.HandleFunc("/api/carts/{id}/product/{pid}", h.HandleAddProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/carts/{id}/products/{pid}", h.HandleRemoveProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/carts/{id}/products/{pid}", h.HandleUpdateQuantity).Methods(http.MethodPut)
}

func (h *CartHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Create(r.Context())
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	h.log.WithField("cart_id", d.Cart.ID).Info("cart created")
	api.WriteSuccess(w, http.StatusCreated, NewCart(d))
}

func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.svc.GetWithDetails(r.Context(), mux.Vars(r)["id"]))
}

// HandleAddProduct handles POST /api/carts/{id}/product/{pid}
// body (optional): { "quantity": 2 }, defaults to 1
func (h *CartHandler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quantity, err := decodeQuantity(r, 1)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	h.respond(w)(h.svc.AddProduct(r.Context(), vars["id"], vars["pid"], quantity))
}

func (h *CartHandler) HandleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.respond(w)(h.svc.RemoveProduct(r.Context(), vars["id"], vars["pid"]))
}

// HandleUpdateCart handles PUT /api/carts/{id}
// body: [{ "product": "<id>", "quantity": 2 }, ...] or { "products": [...] }
func (h *CartHandler) HandleUpdateCart(w http.ResponseWriter, r *http.Request) {
	items, err := decodeItems(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	h.respond(w)(h.svc.UpdateCart(r.Context(), mux.Vars(r)["id"], items))
}

// HandleUpdateQuantity handles PUT /api/carts/{id}/products/{pid}
// body: { "quantity": 3 }
func (h *CartHandler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quantity, err := decodeQuantity(r, 0)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	h.respond(w)(h.svc.UpdateProductQuantity(r.Context(), vars["id"], vars["pid"], quantity))
}

func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.svc.Clear(r.Context(), mux.Vars(r)["id"]))
}

func (h *CartHandler) respond(w http.ResponseWriter) func(*Details, error) {
	return func(d *Details, err error) {
		if err != nil {
			api.WriteError(w, h.log, err)
			return
		}
		api.WriteSuccess(w, http.StatusOK, NewCart(d))
	}
}

// decodeQuantity reads an optional { "quantity": n } body. An empty body or a
// missing field yields fallback; non-integral values are ErrInvalidQuantity.
func decodeQuantity(r *http.Request, fallback int) (int, error) {
	var req quantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			return fallback, nil
		}
		return 0, errors.Wrap(api.ErrMalformedBody, err.Error())
	}
	return toQuantity(req.Quantity, fallback)
}

func decodeItems(r *http.Request) ([]ItemInput, error) {
	var raw json.RawMessage
	if err := api.DecodeJSON(r, &raw); err != nil {
		return nil, err
	}

	var reqs []itemReq
	switch trimmed := bytes.TrimSpace(raw); {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			return nil, models.NewValidationError("products must be a list of {product, quantity}")
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		var wrapped struct {
			Products []itemReq `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Products == nil {
			return nil, models.NewValidationError("products must be a list of {product, quantity}")
		}
		reqs = wrapped.Products
	default:
		return nil, models.NewValidationError("products must be a list of {product, quantity}")
	}

	items := make([]ItemInput, len(reqs))
	for i, req := range reqs {
		q, err := toQuantity(req.Quantity, 0)
		if err != nil {
			return nil, err
		}
		items[i] = ItemInput{ProductID: req.Product, Quantity: q}
	}
	return items, nil
}

func toQuantity(n *json.Number, fallback int) (int, error) {
	if n == nil {
		return fallback, nil
	}
	v, err := n.Int64()
	if err != nil || v < 1 {
		return 0, models.ErrInvalidQuantity
	}
	return int(v), nil
}
