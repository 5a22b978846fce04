package cart

import (
	"sort"

	"github.com/noah-isme/backend-pasar/internal/lineitem"
)

// CartListing is a single listing entry inside a delivery group.
type CartListing struct {
	Quantity float64 `json:"quantity"`
}

// DeliveryGroup holds the listings a customer is ordering from one author
// with one delivery method, plus the delivery details captured at add time.
type DeliveryGroup struct {
	Listings        map[string]CartListing `json:"listings"`
	DeliveryDetails map[string]any         `json:"deliveryDetails,omitempty"`
}

// Cart is the shopping cart stored in the customer's profile private data,
// keyed by author id and then by delivery method. Each author and delivery
// method pair becomes its own transaction at checkout.
type Cart map[string]map[string]DeliveryGroup

// Update applies an add, update or remove to the cart and returns the new
// cart. The input cart is never mutated. The second return value reports
// whether anything was applied: blank identifiers are rejected as a no-op.
//
// A positive quantity sets the listing entry, storing deliveryDetails on the
// group when provided. A zero or negative quantity removes the listing.
// Delivery groups and authors left without listings are pruned so the stored
// cart never carries empty structures.
func Update(cart Cart, authorID, listingID, deliveryMethod string, quantity float64, deliveryDetails map[string]any) (Cart, bool) {
	if authorID == "" || listingID == "" || deliveryMethod == "" {
		return cart, false
	}

	next := cloneCart(cart)
	if next[authorID] == nil {
		next[authorID] = map[string]DeliveryGroup{}
	}
	group := next[authorID][deliveryMethod]

	if quantity > 0 {
		if len(deliveryDetails) > 0 {
			group.DeliveryDetails = deliveryDetails
		}
		if group.Listings == nil {
			group.Listings = map[string]CartListing{}
		}
		group.Listings[listingID] = CartListing{Quantity: quantity}
		next[authorID][deliveryMethod] = group
	} else {
		delete(group.Listings, listingID)
		next[authorID][deliveryMethod] = group
	}

	cleanupAuthor(next, authorID)
	return next, true
}

// RemoveListingFromOtherDeliveryMethods drops the listing from every delivery
// method of the author except current, so a listing never appears under both
// pickup and shipping at once. The input cart is never mutated.
func RemoveListingFromOtherDeliveryMethods(cart Cart, authorID, listingID, current string) Cart {
	author, ok := cart[authorID]
	if !ok {
		return cart
	}

	next := cloneCart(cart)
	for method := range author {
		if method == current {
			continue
		}
		group := next[authorID][method]
		delete(group.Listings, listingID)
		next[authorID][method] = group
	}
	cleanupAuthor(next, authorID)
	return next
}

// RemoveAuthorDelivery removes one author and delivery method group from the
// cart, typically after its transaction has been initiated.
func RemoveAuthorDelivery(cart Cart, authorID, deliveryMethod string) Cart {
	if _, ok := cart[authorID]; !ok {
		return cart
	}
	next := cloneCart(cart)
	delete(next[authorID], deliveryMethod)
	if len(next[authorID]) == 0 {
		delete(next, authorID)
	}
	return next
}

// IsListingInCart reports whether the listing is present under any delivery
// method of the author.
func IsListingInCart(cart Cart, listingID, authorID string) bool {
	for _, group := range cart[authorID] {
		if _, ok := group.Listings[listingID]; ok {
			return true
		}
	}
	return false
}

// Count returns the number of listing entries across the whole cart.
func Count(cart Cart) int {
	n := 0
	for _, author := range cart {
		for _, group := range author {
			n += len(group.Listings)
		}
	}
	return n
}

// ListingIDs returns the listing ids referenced by an ordered-products
// payload, sorted for stable output.
func ListingIDs(products lineitem.OrderedProducts) []string {
	ids := make([]string, 0, len(products.Listings))
	for id := range products.Listings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Group is one author and delivery method pair flattened out of a cart.
type Group struct {
	AuthorID       string
	DeliveryMethod string
	Listings       map[string]CartListing
}

// GroupOrders flattens the cart into per-transaction groups, sorted by author
// and delivery method so callers iterate deterministically.
func GroupOrders(cart Cart) []Group {
	groups := make([]Group, 0, len(cart))
	for authorID, author := range cart {
		for method, group := range author {
			groups = append(groups, Group{
				AuthorID:       authorID,
				DeliveryMethod: method,
				Listings:       group.Listings,
			})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].AuthorID != groups[j].AuthorID {
			return groups[i].AuthorID < groups[j].AuthorID
		}
		return groups[i].DeliveryMethod < groups[j].DeliveryMethod
	})
	return groups
}

// cloneCart copies the cart two levels deep plus each group's listings map,
// which is every part Update may touch.
func cloneCart(cart Cart) Cart {
	next := make(Cart, len(cart)+1)
	for authorID, author := range cart {
		authorCopy := make(map[string]DeliveryGroup, len(author))
		for method, group := range author {
			listings := make(map[string]CartListing, len(group.Listings))
			for id, l := range group.Listings {
				listings[id] = l
			}
			authorCopy[method] = DeliveryGroup{
				Listings:        listings,
				DeliveryDetails: group.DeliveryDetails,
			}
		}
		next[authorID] = authorCopy
	}
	return next
}

func cleanupAuthor(cart Cart, authorID string) {
	author, ok := cart[authorID]
	if !ok {
		return
	}
	for method, group := range author {
		if len(group.Listings) == 0 {
			delete(author, method)
		}
	}
	if len(author) == 0 {
		delete(cart, authorID)
	}
}
