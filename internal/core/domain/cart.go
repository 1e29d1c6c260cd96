package domain

// Cart maps kit id to pending quantity for one user. Quantities are always
// positive: an entry that would drop to zero or below is removed instead.
type Cart map[int64]int

// Add merges qty into the entry for kitID, creating it if absent.
// Repeated calls add repeatedly; deduplication is the caller's concern.
func (c Cart) Add(kitID int64, qty int) {
	if qty <= 0 {
		return
	}
	c[kitID] += qty
}

// Remove decrements the entry for kitID by qty, deleting it once the
// quantity reaches zero. Removing from a missing entry is a no-op.
func (c Cart) Remove(kitID int64, qty int) {
	if qty <= 0 {
		return
	}
	remaining := c[kitID] - qty
	if remaining > 0 {
		c[kitID] = remaining
	} else {
		delete(c, kitID)
	}
}

// Quantity returns the pending quantity for kitID, zero if absent.
func (c Cart) Quantity(kitID int64) int {
	return c[kitID]
}

// IsEmpty reports whether the cart has no entries.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
