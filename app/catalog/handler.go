package catalog

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mytheresa/storefront/app/api"
	"github.com/mytheresa/storefront/app/listing"
	"github.com/mytheresa/storefront/models"
	"github.com/sirupsen/logrus"
)

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Status      bool      `json:"status"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Page is the payload of a product listing.
type Page struct {
	Items       []Product `json:"items"`
	TotalCount  int64     `json:"totalCount"`
	TotalPages  int       `json:"totalPages"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
	PrevPage    *int      `json:"prevPage"`
	NextPage    *int      `json:"nextPage"`
	PrevLink    *string   `json:"prevLink"`
	NextLink    *string   `json:"nextLink"`
}

func NewProduct(p models.Product) Product {
	thumbnails := make([]string, len(p.Thumbnails))
	copy(thumbnails, p.Thumbnails)
	return Product{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price.InexactFloat64(),
		Status:      p.Status,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnails:  thumbnails,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProducts(ps []models.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = NewProduct(p)
	}
	return out
}

// NewPage flattens a listing page, attaching links relative to path.
func NewPage(q listing.Query, path string, page models.ProductPage) Page {
	prev, next := q.Links(path, page)
	return Page{
		Items:       NewProducts(page.Items),
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
		Page:        page.Page,
		Limit:       page.Limit,
		HasPrevPage: page.HasPrevPage,
		HasNextPage: page.HasNextPage,
		PrevPage:    page.PrevPage,
		NextPage:    page.NextPage,
		PrevLink:    prev,
		NextLink:    next,
	}
}

type CatalogHandler struct {
	svc *Service
	log logrus.FieldLogger
}

func NewCatalogHandler(svc *Service, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
		log: log,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/products", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", h.HandleGetProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.HandleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", h.HandleDelete).Methods(http.MethodDelete)
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := listing.Resolve(r.URL.Query())

	res, err := h.svc.List(r.Context(), q)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, NewPage(q, r.URL.Path, res))
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, NewProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	product, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	h.log.WithField("product_id", product.ID).Info("product created")
	api.WriteSuccess(w, http.StatusCreated, NewProduct(*product))
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := models.ParseID(id); err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	var input models.ProductInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	product, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, NewProduct(*product))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	h.log.WithField("product_id", product.ID).Info("product deleted")
	api.WriteSuccess(w, http.StatusOK, NewProduct(*product))
}
