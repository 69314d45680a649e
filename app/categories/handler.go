package categories

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mytheresa/storefront/app/api"
	"github.com/sirupsen/logrus"
)

// CategoryProvider lists the categories currently used by the catalog.
type CategoryProvider interface {
	GetCategories(ctx context.Context) ([]string, error)
}

type CategoryHandler struct {
	repo CategoryProvider
	log  logrus.FieldLogger
}

func NewCategoryHandler(r CategoryProvider, log logrus.FieldLogger) *CategoryHandler {
	return &CategoryHandler{repo: r, log: log}
}

func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/categories", h.HandleGetAll).Methods(http.MethodGet)
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetCategories(r.Context())
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}
	api.WriteSuccess(w, http.StatusOK, categories)
}
