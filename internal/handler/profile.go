package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/service"
)

// ProfileHandler serves the account-profile endpoints: addresses, payment
// methods, and order history. All routes run behind RequireAuth.
type ProfileHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(identity *service.IdentityService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{identity: identity, logger: logger}
}

func (h *ProfileHandler) sessionUser(r *http.Request) (*model.User, error) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized("no active session")
	}
	return h.identity.UserByEmail(r.Context(), email)
}

// HandleAddAddress appends a shipping address to the profile.
//
// HTTP: POST /api/profile/addresses
// BODY: {"street":"...","city":"...","state":"...","zip":"...","country":"..."}
func (h *ProfileHandler) HandleAddAddress(w http.ResponseWriter, r *http.Request) {
	var addr model.Address
	if err := decodeJSON(r, &addr); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.AddAddress(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(user))
}

// HandleAddPaymentMethod appends a payment method to the profile.
// The full card or account number arrives in the request and is truncated
// to its last four digits before anything is stored.
//
// HTTP: POST /api/profile/payment-methods
// BODY: {"type":"Credit Card","cardNumber":"...","expiry":"12/27"}
//
//	or  {"type":"Checking Account","accountNumber":"...","routingNumber":"..."}
func (h *ProfileHandler) HandleAddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind          model.PaymentKind `json:"type"`
		CardNumber    string            `json:"cardNumber"`
		Expiry        string            `json:"expiry"`
		AccountNumber string            `json:"accountNumber"`
		RoutingNumber string            `json:"routingNumber"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.AddPaymentMethod(r.Context(), service.PaymentInput{
		Kind:          req.Kind,
		CardNumber:    req.CardNumber,
		Expiry:        req.Expiry,
		AccountNumber: req.AccountNumber,
		RoutingNumber: req.RoutingNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(user))
}

// HandleListOrders returns the session user's order history, most recent
// first (the placement path prepends).
//
// HTTP: GET /api/profile/orders
func (h *ProfileHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orders := user.Orders
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
