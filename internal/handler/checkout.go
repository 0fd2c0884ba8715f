package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/service"
)

// CheckoutHandler serves the checkout endpoints. Both run behind
// RequireAuth — checkout is meaningless without an account to attach the
// order to.
type CheckoutHandler struct {
	identity *service.IdentityService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a CheckoutHandler.
func NewCheckoutHandler(identity *service.IdentityService, checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{identity: identity, checkout: checkout, logger: logger}
}

func (h *CheckoutHandler) sessionUserID(r *http.Request) (string, error) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		return "", apperror.Unauthorized("no active session")
	}
	user, err := h.identity.UserByEmail(r.Context(), email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// HandleTotals returns the price breakdown for the session user's cart.
// Always freshly derived: subtotal, flat shipping, tax on the subtotal.
//
// HTTP: GET /api/checkout/totals
func (h *CheckoutHandler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	userID, err := h.sessionUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	totals, err := h.checkout.Totals(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandlePlaceOrder commits the cart as an order.
//
// HTTP: POST /api/checkout/order
// BODY: {"addressId":"addr-...","paymentMethodId":"pm-..."}
//
// The address and payment selections gate the flow — both steps must have
// been completed — but the order itself records neither: what was bought,
// when, and for how much is the order's whole content.
func (h *CheckoutHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AddressID       string `json:"addressId"`
		PaymentMethodID string `json:"paymentMethodId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.AddressID == "" {
		writeError(w, apperror.ValidationFailed("addressId", "a shipping address is required"))
		return
	}
	if req.PaymentMethodID == "" {
		writeError(w, apperror.ValidationFailed("paymentMethodId", "a payment method is required"))
		return
	}

	userID, err := h.sessionUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	placed, err := h.checkout.PlaceOrder(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, placed)
}
