// Package views renders the HTML pages of the storefront from the same data
// the JSON API serves.
package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mytheresa/storefront/app/api"
	"github.com/mytheresa/storefront/app/carts"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/app/listing"
	"github.com/mytheresa/storefront/models"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

type ProductLister interface {
	List(ctx context.Context, q listing.Query) (models.ProductPage, error)
	Get(ctx context.Context, rawID string) (*models.Product, error)
}

type CartReader interface {
	GetWithDetails(ctx context.Context, rawCartID string) (*carts.Details, error)
}

type ViewHandler struct {
	products ProductLister
	carts    CartReader
	log      logrus.FieldLogger
	tmpl     *template.Template
}

func NewViewHandler(products ProductLister, carts CartReader, log logrus.FieldLogger) (*ViewHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &ViewHandler{
		products: products,
		carts:    carts,
		log:      log,
		tmpl:     tmpl,
	}, nil
}

func (h *ViewHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.HandleProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.HandleProduct).Methods(http.MethodGet)
	r.HandleFunc("/carts/{id}", h.HandleCart).Methods(http.MethodGet)
	r.HandleFunc("/realtimeproducts", h.HandleRealtime).Methods(http.MethodGet)
}

func (h *ViewHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	q := listing.Resolve(r.URL.Query())
	page, err := h.products.List(r.Context(), q)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.render(w, http.StatusOK, "products.html", catalog.NewPage(q, r.URL.Path, page))
}

func (h *ViewHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.render(w, http.StatusOK, "product.html", catalog.NewProduct(*product))
}

func (h *ViewHandler) HandleCart(w http.ResponseWriter, r *http.Request) {
	d, err := h.carts.GetWithDetails(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.render(w, http.StatusOK, "cart.html", carts.NewCart(d))
}

func (h *ViewHandler) HandleRealtime(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "realtime.html", nil)
}

func (h *ViewHandler) renderError(w http.ResponseWriter, err error) {
	code, env := api.Classify(err)
	if code == http.StatusInternalServerError {
		h.log.WithError(err).Error("view failed")
	}
	h.render(w, code, "error.html", env)
}

// render executes into a buffer first so a template failure never leaves a half-written page.
func (h *ViewHandler) render(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
