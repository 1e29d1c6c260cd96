package domain

import "github.com/shopspring/decimal"

// DefaultCustomIDThreshold splits the kit id space: catalog kits live in
// [1, threshold), user-composed kits in [threshold, ∞). The order partition
// into catalog and custom buckets relies on this split alone.
const DefaultCustomIDThreshold int64 = 1000

// Kit is a sellable composition of products. ProductRefs holds product ids
// in display order; hydration resolves them without touching the stored kit.
type Kit struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ProductRefs []int64         `json:"products_in_kit"`
}

// KitSnapshot is a hydrated, point-in-time view of a kit: product refs
// replaced by the resolved records. Orders store these so later catalog
// changes never rewrite history.
type KitSnapshot struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Products []Product       `json:"products_in_kit"`
}

// IsCustomID reports whether a kit id belongs to the user-composed space.
func IsCustomID(id, threshold int64) bool {
	return id >= threshold
}
