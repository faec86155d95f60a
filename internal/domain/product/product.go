package product

import (
	"errors"
	"strings"

	"store-nav/internal/domain/geo"
)

// Product is the catalog entity corresponding to the `products` table.
// Location is nil when the product has no surveyed shelf position; callers
// resolve a destination through ResolveLocation.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Location *geo.Coordinate
	ZoneID   string
	ShelfID  string
	Active   bool
}

var (
	ErrProductRequired = errors.New("product id is required")
	ErrNameRequired    = errors.New("product name is required")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrProductNotFound = errors.New("product not found")
)

// Validate checks invariants of the Product.
func (product *Product) Validate() error {
	if strings.TrimSpace(product.ID) == "" {
		return ErrProductRequired
	}
	if strings.TrimSpace(product.Name) == "" {
		return ErrNameRequired
	}
	if product.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// ResolveLocation returns the navigation destination for the product.
// Preference order: the surveyed shelf coordinate, the center of the
// product's zone, the center of the zone matching its category, and finally
// the center of the floor.
func (product *Product) ResolveLocation(plan geo.FloorPlan) geo.Coordinate {
	if product.Location != nil {
		return *product.Location
	}
	if zone, ok := plan.ZoneByID(product.ZoneID); ok {
		return zone.Center()
	}
	category := strings.ToLower(strings.TrimSpace(product.Category))
	if zone, ok := plan.ZoneByID("zone_" + category); ok {
		return zone.Center()
	}
	return plan.Center()
}
