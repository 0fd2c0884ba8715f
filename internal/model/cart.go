package model

// Composition records the white/black seed split of a custom pack.
// Both counts are non-negative; the composer enforces the bounds.
type Composition struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// CartItem is one line in a shopping cart: a product plus a quantity.
//
// EMBEDDING:
// CartItem embeds Product, so a line carries a full snapshot of the product
// at the time it was added. This is deliberate — orders copy cart lines
// verbatim, and an order must show the price the customer actually paid,
// even if the catalog changes later.
//
// INVARIANTS:
//   - Quantity > 0 while the line is in a cart. A line whose quantity
//     reaches 0 is removed, never retained.
//   - Composition is non-nil only for custom items. Custom lines carry a
//     freshly generated ID (never a catalog ID), so two custom packs with
//     identical compositions still stay separate lines.
type CartItem struct {
	Product
	Quantity    int          `json:"quantity"`
	Composition *Composition `json:"customComposition,omitempty"`
}
