package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderContainsMatchingKit(t *testing.T) {
	order := Order{
		User: "alice",
		Kits: []KitSnapshot{
			{ID: 1, Name: "Mocktail Deluxe"},
			{ID: 2, Name: "Sangria Splash"},
		},
	}

	assert.True(t, order.ContainsMatchingKit("mocktail"))
	assert.True(t, order.ContainsMatchingKit("MOCKTAIL DEL"))
	assert.True(t, order.ContainsMatchingKit("splash"))
	assert.False(t, order.ContainsMatchingKit("margarita"))
}

func TestOrderHasCustomKit_AnySemantics(t *testing.T) {
	mixed := Order{Kits: []KitSnapshot{{ID: 3}, {ID: 1005}}}
	catalogOnly := Order{Kits: []KitSnapshot{{ID: 3}, {ID: 12}}}

	assert.True(t, mixed.HasCustomKit(DefaultCustomIDThreshold))
	assert.False(t, catalogOnly.HasCustomKit(DefaultCustomIDThreshold))
}

func TestOrderPurchasedBy(t *testing.T) {
	order := Order{User: "alice"}

	assert.True(t, order.PurchasedBy("alice"))
	assert.False(t, order.PurchasedBy("bob"))
}

func TestIsCustomID(t *testing.T) {
	assert.False(t, IsCustomID(999, DefaultCustomIDThreshold))
	assert.True(t, IsCustomID(1000, DefaultCustomIDThreshold))
	assert.True(t, IsCustomID(10000, DefaultCustomIDThreshold))
}
