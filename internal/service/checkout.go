package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
)

// Checkout pricing constants. Shipping is a flat fee; tax is a fixed rate
// applied to the subtotal only (not to shipping).
const (
	ShippingFee    model.Cents = 500 // $5.00 flat
	TaxRatePercent             = 8
)

// TaxOn computes the tax on a subtotal, rounded half-up to the cent.
func TaxOn(subtotal model.Cents) model.Cents {
	return (subtotal*TaxRatePercent + 50) / 100
}

// Totals is the checkout price breakdown. Always derived fresh from the
// current cart: Total = Subtotal + Shipping + Tax.
type Totals struct {
	Subtotal model.Cents `json:"subtotal"`
	Shipping model.Cents `json:"shipping"`
	Tax      model.Cents `json:"tax"`
	Total    model.Cents `json:"total"`
}

// Summarizer produces the order-confirmation message body. It is the one
// external, optionally-failing collaborator in the checkout flow; any error
// makes the checkout fall back to a fixed-format summary.
type Summarizer interface {
	Summarize(ctx context.Context, order model.Order, user model.User) (string, error)
}

// PlacedOrder is the result of a successful checkout: the committed order
// and the confirmation body to show (generated or fallback).
type PlacedOrder struct {
	Order        model.Order `json:"order"`
	Confirmation string      `json:"confirmation"`
}

// CheckoutService turns a cart into an order.
//
// The flow is deliberately ordered: the order is committed and the cart
// cleared BEFORE the confirmation summary is attempted. The summary call is
// the only asynchronous-feeling step in the system — slow or failing text
// generation can delay or downgrade the message, but it can never roll back
// or corrupt an order that already exists.
type CheckoutService struct {
	identity   *IdentityService
	cart       *CartService
	summarizer Summarizer
	logger     *slog.Logger
}

// NewCheckoutService wires a CheckoutService. summarizer may not be nil;
// pass a client whose calls fail with Unavailable when unconfigured — the
// fallback path handles it.
func NewCheckoutService(
	identity *IdentityService,
	cart *CartService,
	summarizer Summarizer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		identity:   identity,
		cart:       cart,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Totals computes the price breakdown for the user's current cart.
func (s *CheckoutService) Totals(ctx context.Context, userID string) (Totals, error) {
	items, err := s.cart.Get(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	return totalsFor(items), nil
}

func totalsFor(items []model.CartItem) Totals {
	subtotal := Subtotal(items)
	tax := TaxOn(subtotal)
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    subtotal + ShippingFee + tax,
	}
}

// PlaceOrder commits the active user's cart as a new order.
//
// Refused outright — no partial effect — when nobody is logged in, when the
// caller isn't the active user, or when the cart is empty. On success the
// new order is prepended to the user's order history (most recent first)
// with status Processing, the cart is emptied, and a confirmation body is
// produced best-effort.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string) (*PlacedOrder, error) {
	user, err := s.identity.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID != userID {
		return nil, apperror.Unauthorized("you must be logged in to place an order")
	}

	items, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.ValidationFailed("cart", "your cart is empty")
	}

	totals := totalsFor(items)

	// Snapshot the lines — the order must keep what was bought even after
	// the cart is cleared or the catalog changes.
	snapshot := make([]model.CartItem, len(items))
	copy(snapshot, items)

	order := model.Order{
		ID:     "order-" + xid.New().String(),
		Date:   time.Now().Format("2006-01-02"),
		Status: model.StatusProcessing,
		Items:  snapshot,
		Total:  totals.Total,
	}

	user.Orders = append([]model.Order{order}, user.Orders...)
	if err := s.identity.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/checkout: committing order: %w", err)
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		// The order is committed; a failed cart clear is worth a warning
		// but must not fail the placement.
		s.logger.Warn("order placed but cart clear failed",
			slog.String("orderID", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("order placed",
		slog.String("orderID", order.ID),
		slog.String("userID", user.ID),
		slog.String("total", order.Total.String()),
	)

	return &PlacedOrder{
		Order:        order,
		Confirmation: s.confirmation(ctx, order, *user),
	}, nil
}

// confirmation asks the summarizer for a generated confirmation body and
// substitutes the fixed-format fallback on any failure. Never retried,
// never surfaced as an error — the order is already committed.
func (s *CheckoutService) confirmation(ctx context.Context, order model.Order, user model.User) string {
	text, err := s.summarizer.Summarize(ctx, order, user)
	if err != nil || text == "" {
		if err != nil {
			s.logger.Warn("confirmation summary unavailable, using fallback",
				slog.String("orderID", order.ID),
				slog.String("error", err.Error()),
			)
		}
		return FallbackConfirmation(order, user)
	}
	return text
}

// FallbackConfirmation is the fixed-format confirmation body used when the
// summary service is unavailable.
func FallbackConfirmation(order model.Order, user model.User) string {
	return fmt.Sprintf(
		"<h1>Order Confirmed!</h1>\n<p>Thank you for your order, %s.</p>\n<p>Order ID: %s</p>\n<p>Total: %s</p>",
		user.Name, order.ID, order.Total,
	)
}
