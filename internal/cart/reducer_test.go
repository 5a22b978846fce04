package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pasar/internal/lineitem"
)

func TestUpdateAddsListing(t *testing.T) {
	details := map[string]any{"shippingAddress": map[string]any{"city": "Helsinki"}}

	next, ok := Update(nil, "a1", "l1", "shipping", 2, details)
	require.True(t, ok)
	require.Equal(t, CartListing{Quantity: 2}, next["a1"]["shipping"].Listings["l1"])
	require.Equal(t, details, next["a1"]["shipping"].DeliveryDetails)
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	original, ok := Update(nil, "a1", "l1", "pickup", 1, nil)
	require.True(t, ok)

	next, ok := Update(original, "a1", "l1", "pickup", 5, nil)
	require.True(t, ok)
	require.Equal(t, float64(1), original["a1"]["pickup"].Listings["l1"].Quantity)
	require.Equal(t, float64(5), next["a1"]["pickup"].Listings["l1"].Quantity)
}

func TestUpdateRejectsBlankIdentifiers(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)

	for _, args := range [][3]string{
		{"", "l1", "pickup"},
		{"a1", "", "pickup"},
		{"a1", "l1", ""},
	} {
		next, ok := Update(cart, args[0], args[1], args[2], 1, nil)
		require.False(t, ok)
		require.Equal(t, cart, next)
	}
}

func TestUpdateRemovesAndPrunes(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)
	cart, _ = Update(cart, "a1", "l2", "pickup", 2, nil)

	cart, ok := Update(cart, "a1", "l1", "pickup", 0, nil)
	require.True(t, ok)
	require.NotContains(t, cart["a1"]["pickup"].Listings, "l1")
	require.Contains(t, cart["a1"]["pickup"].Listings, "l2")

	// Removing the last listing prunes the delivery method and the author.
	cart, ok = Update(cart, "a1", "l2", "pickup", -1, nil)
	require.True(t, ok)
	require.Empty(t, cart)
}

func TestUpdateRoundTripLeavesEmptyCart(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "shipping", 3, nil)
	cart, _ = Update(cart, "a2", "l2", "pickup", 1, nil)

	cart, _ = Update(cart, "a1", "l1", "shipping", 0, nil)
	cart, _ = Update(cart, "a2", "l2", "pickup", 0, nil)
	require.Empty(t, cart)
}

func TestRemoveListingFromOtherDeliveryMethods(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)
	cart, _ = Update(cart, "a1", "l1", "shipping", 1, nil)
	cart, _ = Update(cart, "a1", "l2", "pickup", 1, nil)

	next := RemoveListingFromOtherDeliveryMethods(cart, "a1", "l1", "shipping")
	require.Contains(t, next["a1"]["shipping"].Listings, "l1")
	require.NotContains(t, next["a1"]["pickup"].Listings, "l1")
	require.Contains(t, next["a1"]["pickup"].Listings, "l2")

	// Input cart stays intact.
	require.Contains(t, cart["a1"]["pickup"].Listings, "l1")
}

func TestRemoveAuthorDelivery(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)
	cart, _ = Update(cart, "a1", "l2", "shipping", 1, nil)

	next := RemoveAuthorDelivery(cart, "a1", "pickup")
	require.NotContains(t, next["a1"], "pickup")
	require.Contains(t, next["a1"], "shipping")

	next = RemoveAuthorDelivery(next, "a1", "shipping")
	require.Empty(t, next)

	// Unknown author is a no-op.
	require.Equal(t, Cart{}, RemoveAuthorDelivery(Cart{}, "missing", "pickup"))
}

func TestIsListingInCart(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)

	require.True(t, IsListingInCart(cart, "l1", "a1"))
	require.False(t, IsListingInCart(cart, "l2", "a1"))
	require.False(t, IsListingInCart(cart, "l1", "a2"))
	require.False(t, IsListingInCart(nil, "l1", "a1"))
}

func TestCount(t *testing.T) {
	cart, _ := Update(nil, "a1", "l1", "pickup", 1, nil)
	cart, _ = Update(cart, "a1", "l2", "pickup", 2, nil)
	cart, _ = Update(cart, "a2", "l3", "shipping", 1, nil)

	require.Equal(t, 3, Count(cart))
	require.Equal(t, 0, Count(nil))
}

func TestListingIDs(t *testing.T) {
	products := lineitem.OrderedProducts{Listings: map[string]lineitem.OrderedListing{
		"l2": {Quantity: 1},
		"l1": {Quantity: 2},
	}}
	require.Equal(t, []string{"l1", "l2"}, ListingIDs(products))
	require.Empty(t, ListingIDs(lineitem.OrderedProducts{}))
}

func TestGroupOrders(t *testing.T) {
	cart, _ := Update(nil, "b", "l1", "shipping", 1, nil)
	cart, _ = Update(cart, "a", "l2", "pickup", 1, nil)
	cart, _ = Update(cart, "a", "l3", "shipping", 1, nil)

	groups := GroupOrders(cart)
	require.Len(t, groups, 3)
	require.Equal(t, "a", groups[0].AuthorID)
	require.Equal(t, "pickup", groups[0].DeliveryMethod)
	require.Equal(t, "a", groups[1].AuthorID)
	require.Equal(t, "shipping", groups[1].DeliveryMethod)
	require.Equal(t, "b", groups[2].AuthorID)
}
