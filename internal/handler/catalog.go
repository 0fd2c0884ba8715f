package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/catalog"
	"github.com/sakif/seedhaven/internal/model"
)

// CatalogHandler serves the static product catalog and the custom-pack
// composer. The catalog has no storage behind it — it is fixed at build
// time — so these handlers are read-only and session-free.
type CatalogHandler struct {
	logger *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

// HandleList returns catalog products, optionally filtered by category and
// ordered by the requested sort key. Without a sort parameter the list
// comes back by popularity, the storefront's default.
//
// HTTP: GET /api/products[?type=white|black|mixed][&sort=popularity|rating|price-asc|price-desc]
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var items []model.Product
	if t := r.URL.Query().Get("type"); t != "" {
		items = catalog.ByCategory(model.Category(t))
	} else {
		items = catalog.All()
	}
	catalog.Sort(items, catalog.SortKey(r.URL.Query().Get("sort")))
	writeJSON(w, http.StatusOK, items)
}

// HandleGet returns one product by ID.
//
// HTTP: GET /api/products/{id}
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := catalog.ByID(id)
	if !ok {
		writeError(w, apperror.NotFound("product", id))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// HandleCompose quotes a custom seed pack for a white/black composition.
// Nothing is added to any cart — the client takes the quoted product to the
// cart endpoint separately.
//
// HTTP: POST /api/products/compose
// BODY: {"white":5,"black":3}
func (h *CatalogHandler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		White int `json:"white"`
		Black int `json:"black"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	product, err := catalog.ComposePack(req.White, req.Black)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
