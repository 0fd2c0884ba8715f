// Package catalog holds the fixed product catalog and the custom pack
// composer.
//
// The catalog is a leaf: it depends on nothing but the model package, is
// defined once at init, and is read-only. There is no product admin, no
// stock mutation — a product record never changes after process start.
package catalog

import "github.com/sakif/seedhaven/internal/model"

// Fallback unit prices used by the composer when the corresponding single
// seed products are missing from the catalog.
const (
	defaultWhitePrice model.Cents = 150
	defaultBlackPrice model.Cents = 175
)

var products = []model.Product{
	{
		ID:                "p1",
		Name:              "Individual White Seed",
		Category:          model.CategoryWhite,
		Price:             150,
		Description:       "A single, pristine white seed.",
		LongDescription:   "Our signature white seed, known for its rapid growth and beautiful blossoms. Sourced ethically and guaranteed to sprout.",
		Image:             "/images/white-seed.jpg",
		Rating:            4.8,
		ReviewCount:       120,
		Stock:             500,
		Origin:            "Himalayan Highlands",
		GrowthEnvironment: "Indoor/Outdoor, moderate sunlight",
	},
	{
		ID:                "p2",
		Name:              "Individual Black Seed",
		Category:          model.CategoryBlack,
		Price:             175,
		Description:       "A single, lustrous black seed.",
		LongDescription:   "A rare and beautiful black seed that produces stunning dark foliage. Perfect for creating contrast in your garden.",
		Image:             "/images/black-seed.jpg",
		Rating:            4.9,
		ReviewCount:       150,
		Stock:             450,
		Origin:            "Volcanic Plains of Andes",
		GrowthEnvironment: "Outdoor, full sun",
	},
	{
		ID:                "p3",
		Name:              "White Seed Pack (x10)",
		Category:          model.CategoryWhite,
		Price:             1200,
		Description:       "A pack of 10 pristine white seeds.",
		LongDescription:   "Get a head start on your garden with this value pack of 10 white seeds. Ideal for larger pots or garden beds.",
		Image:             "/images/white-pack.jpg",
		Rating:            4.7,
		ReviewCount:       80,
		Stock:             100,
		Origin:            "Himalayan Highlands",
		GrowthEnvironment: "Indoor/Outdoor, moderate sunlight",
	},
	{
		ID:                "p4",
		Name:              "Black Seed Pack (x10)",
		Category:          model.CategoryBlack,
		Price:             1450,
		Description:       "A pack of 10 lustrous black seeds.",
		LongDescription:   "A full pack of our exotic black seeds. Create a dramatic and elegant garden display with this 10-seed collection.",
		Image:             "/images/black-pack.jpg",
		Rating:            4.9,
		ReviewCount:       95,
		Stock:             90,
		Origin:            "Volcanic Plains of Andes",
		GrowthEnvironment: "Outdoor, full sun",
	},
	{
		ID:                "p5",
		Name:              "Mixed Seed Pack (5+5)",
		Category:          model.CategoryMixed,
		Price:             1350,
		Description:       "A balanced pack of 5 white & 5 black seeds.",
		LongDescription:   "The best of both worlds. This mixed pack contains 5 white and 5 black seeds, perfect for creating beautiful patterns and experiencing both varieties. Grown with care in our partner School Gardens.",
		Image:             "/images/mixed-pack.jpg",
		Rating:            4.8,
		ReviewCount:       210,
		Stock:             120,
		Origin:            "Partner School Gardens",
		GrowthEnvironment: "Varies, see individual seed info",
	},
}

// All returns a copy of the catalog. Callers get their own slice, so they
// cannot mutate the canonical entries.
func All() []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}

// ByCategory returns the catalog entries matching the given category.
func ByCategory(cat model.Category) []model.Product {
	var out []model.Product
	for _, p := range products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// ByID looks up a product by its catalog ID.
func ByID(id string) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// unitPrice returns the price of the first product in the given category,
// or the fallback when no such product exists. The composer prices custom
// packs off the individual seed entries; the fallback keeps it working even
// if those entries are ever removed from the catalog.
func unitPrice(entries []model.Product, cat model.Category, fallback model.Cents) model.Cents {
	for _, p := range entries {
		if p.Category == cat {
			return p.Price
		}
	}
	return fallback
}
