package catalog

import (
	"fmt"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
)

// Seed count bounds for a custom pack. The builder's sliders run 0–50 per
// colour; the server enforces the same range.
const (
	MinPackSeeds = 0
	MaxPackSeeds = 50
)

// ComposePack builds a transient custom-pack product from a white and black
// seed count.
//
// This is pure computation — no state, no persistence:
//
//	price = white × unitPrice(white) + black × unitPrice(black)
//
// where the unit prices come from the individual seed catalog entries, with
// fixed fallbacks if those entries are absent. The returned Product has
// category "custom" and the placeholder ID "custom"; the cart replaces that
// with a freshly generated line ID on add, so separate packs never collapse
// into one line.
func ComposePack(white, black int) (model.Product, error) {
	if white < MinPackSeeds || white > MaxPackSeeds {
		return model.Product{}, apperror.ValidationFailed("white",
			fmt.Sprintf("white seed count must be between %d and %d", MinPackSeeds, MaxPackSeeds))
	}
	if black < MinPackSeeds || black > MaxPackSeeds {
		return model.Product{}, apperror.ValidationFailed("black",
			fmt.Sprintf("black seed count must be between %d and %d", MinPackSeeds, MaxPackSeeds))
	}
	if white == 0 && black == 0 {
		return model.Product{}, apperror.ValidationFailed("white", "a custom pack needs at least one seed")
	}

	whitePrice := unitPrice(products, model.CategoryWhite, defaultWhitePrice)
	blackPrice := unitPrice(products, model.CategoryBlack, defaultBlackPrice)
	total := model.Cents(white)*whitePrice + model.Cents(black)*blackPrice

	return model.Product{
		ID:                "custom",
		Name:              "Custom Seed Pack",
		Category:          model.CategoryCustom,
		Price:             total,
		Description:       fmt.Sprintf("%d White, %d Black", white, black),
		LongDescription:   fmt.Sprintf("A custom-built pack containing %d white seeds and %d black seeds, selected by you.", white, black),
		Image:             "/images/custom-pack.jpg",
		Rating:            5,
		ReviewCount:       0,
		Stock:             1000,
		Origin:            "Your Imagination",
		GrowthEnvironment: "Mixed",
	}, nil
}
