package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/catalog"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/service"
)

// CartHandler serves the cart endpoints.
//
// Cart routes run behind OptionalAuth: a signed-in session resolves to the
// account's user ID and a persisted cart, an anonymous request gets the
// in-memory visitor cart (empty user ID). Prices are server-authoritative —
// the client sends product IDs or compositions, never prices.
//
// KNOWN LIMITATION: there is one anonymous cart per process, not per
// visitor — all unauthenticated requests share it. The system is built for
// a single local user; an anonymous cart is a pre-signup scratch space that
// is lost on restart anyway. Per-visitor anonymous carts would need their
// own cookie-keyed storage and are deliberately not implemented.
type CartHandler struct {
	identity *service.IdentityService
	cart     *service.CartService
	logger   *slog.Logger
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(identity *service.IdentityService, cart *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{identity: identity, cart: cart, logger: logger}
}

// resolveUserID maps the session (if any) to a cart owner ID.
// Anonymous requests get "".
func (h *CartHandler) resolveUserID(r *http.Request) (string, error) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		return "", nil
	}
	user, err := h.identity.UserByEmail(r.Context(), email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// cartResponse is the wire shape for every cart endpoint: the lines plus
// the derived item count and subtotal, recomputed on each response.
type cartResponse struct {
	Items     []model.CartItem `json:"items"`
	ItemCount int              `json:"itemCount"`
	Subtotal  model.Cents      `json:"subtotal"`
}

func newCartResponse(items []model.CartItem) cartResponse {
	if items == nil {
		items = []model.CartItem{}
	}
	return cartResponse{
		Items:     items,
		ItemCount: service.ItemCount(items),
		Subtotal:  service.Subtotal(items),
	}
}

// HandleGet returns the current cart.
//
// HTTP: GET /api/cart
func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolveUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(items))
}

// HandleAdd puts a product in the cart.
//
// HTTP: POST /api/cart/items
// BODY: {"productId":"p1","quantity":2}
//
//	or  {"composition":{"white":5,"black":3},"quantity":1}
//
// A composition request composes the custom pack server-side, so the price
// on the line is always the catalog's, not the client's.
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string             `json:"productId"`
		Quantity    int                `json:"quantity"`
		Composition *model.Composition `json:"composition"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var product model.Product
	if req.Composition != nil {
		composed, err := catalog.ComposePack(req.Composition.White, req.Composition.Black)
		if err != nil {
			writeError(w, err)
			return
		}
		product = composed
	} else {
		found, ok := catalog.ByID(req.ProductID)
		if !ok {
			writeError(w, apperror.NotFound("product", req.ProductID))
			return
		}
		product = found
	}

	userID, err := h.resolveUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.cart.Add(r.Context(), userID, product, req.Quantity, req.Composition)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(items))
}

// HandleUpdateQuantity sets a line's quantity. Quantity 0 removes the line.
//
// HTTP: PUT /api/cart/items/{id}
// BODY: {"quantity":3}
func (h *CartHandler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, err := h.resolveUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.cart.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(items))
}

// HandleRemove deletes a cart line.
//
// HTTP: DELETE /api/cart/items/{id}
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolveUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.cart.Remove(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(items))
}

// HandleClear empties the cart.
//
// HTTP: DELETE /api/cart
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolveUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.cart.Clear(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(nil))
}
