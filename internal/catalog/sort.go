package catalog

import (
	"sort"

	"github.com/sakif/seedhaven/internal/model"
)

// SortKey selects an ordering for a product list.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
)

// Sort orders products in place by the given key. Popularity (review count,
// most reviewed first) is the storefront's default listing order, so any
// unknown or empty key falls back to it. Sorting is stable — products that
// compare equal keep their catalog order.
func Sort(items []model.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ReviewCount > items[j].ReviewCount })
	}
}
