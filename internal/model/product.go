// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Category classifies a product by the seeds it contains.
//
// The four values are a closed set: the catalog only ever defines the first
// three, and "custom" is reserved for packs built by the pack composer.
// Cart merging depends on this — custom items never merge, everything else
// merges by product ID.
type Category string

const (
	CategoryWhite  Category = "white"
	CategoryBlack  Category = "black"
	CategoryMixed  Category = "mixed"
	CategoryCustom Category = "custom"
)

// Product is an immutable catalog entry.
//
// Products are defined once at process start (see internal/catalog) and never
// mutated. A Product with CategoryCustom is transient — it is produced by the
// pack composer, handed to the cart, and exists nowhere in the catalog.
//
// The JSON tag on Category is "type" because that is the field name the
// persisted cart/order records use; renaming it would orphan existing data.
type Product struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          Category `json:"type"`
	Price             Cents    `json:"price"`
	Description       string   `json:"description"`
	LongDescription   string   `json:"longDescription"`
	Image             string   `json:"image"`
	Rating            float64  `json:"rating"`
	ReviewCount       int      `json:"reviewCount"`
	Stock             int      `json:"stock"`
	Origin            string   `json:"origin"`
	GrowthEnvironment string   `json:"growthEnvironment"`
}
