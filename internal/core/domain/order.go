package domain

import (
	"strings"
	"time"
)

// Order is an immutable record of a completed purchase. Kits holds one
// snapshot per purchased unit, hydrated at purchase time.
type Order struct {
	ID        int64         `json:"id"`
	User      string        `json:"user"`
	Kits      []KitSnapshot `json:"kits_in_order"`
	CreatedAt time.Time     `json:"created_at"`
}

// PurchasedBy reports whether the given user placed this order.
func (o *Order) PurchasedBy(user string) bool {
	return o.User == user
}

// ContainsMatchingKit reports whether any kit in the order has a name
// containing term, case-insensitively.
func (o *Order) ContainsMatchingKit(term string) bool {
	term = strings.ToLower(term)
	for _, k := range o.Kits {
		if strings.Contains(strings.ToLower(k.Name), term) {
			return true
		}
	}
	return false
}

// HasCustomKit reports whether any kit in the order comes from the
// user-composed id space. One custom kit makes the whole order custom.
func (o *Order) HasCustomKit(threshold int64) bool {
	for _, k := range o.Kits {
		if IsCustomID(k.ID, threshold) {
			return true
		}
	}
	return false
}
