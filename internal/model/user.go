package model

// User represents a customer account.
//
// Users are keyed by email — it is the unique key across all accounts, and
// the persisted "active user" pointer is an email value. The internal ID is
// still generated so that cart storage keys don't embed an address the user
// might later change or consider personal data.
//
// WHY PasswordHash string (not *string)?
// Accounts created through an external identity assertion have no password at
// all. We use the empty string as "no password set" — a login attempt against
// such an account always fails with invalid credentials, which is exactly the
// behaviour we want. A pointer would add nil checks for no benefit.
//
// The hash is bcrypt output, never plaintext. It serializes with the record
// (the whole User is persisted as one JSON value), so HTTP handlers must
// sanitize before responding — see handler.publicUser.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"passwordHash,omitempty"`
	Orders         []Order         `json:"orders"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// OrderStatus is the fulfilment state of an order.
// Transitions run one way: Processing → Shipped → Delivered. Nothing in this
// system advances the status — orders are created as Processing and a future
// fulfilment integration would move them along.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// Order is an immutable record of a completed checkout.
//
// Items is a snapshot of the cart lines at purchase time — not references
// into the catalog. Total is the full charged amount (subtotal + shipping
// + tax), stored rather than re-derived so the order history always shows
// what was actually charged.
type Order struct {
	ID     string      `json:"id"`
	Date   string      `json:"date"` // YYYY-MM-DD
	Status OrderStatus `json:"status"`
	Items  []CartItem  `json:"items"`
	Total  Cents       `json:"total"`
}

// Address is a saved shipping address. The list on User is append-only.
type Address struct {
	ID      string `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}
