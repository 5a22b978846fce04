package order

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pasar/internal/cart"
	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/flex"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/location"
)

// Service drives the order pricing and checkout flows against the
// marketplace platform and the geocoding provider.
type Service struct {
	Platform flex.API
	Location location.API
	Logger   zerolog.Logger
}

// ListingsAndCommission is everything the pricing engine needs for one
// order: the listings being bought and the operator's commission
// configuration.
type ListingsAndCommission struct {
	Details            []flex.ListingDetails
	ProviderCommission *lineitem.CommissionConfig
	CustomerCommission *lineitem.CommissionConfig
}

// Listings returns just the pricing shapes, in fetch order.
func (lc ListingsAndCommission) Listings() []lineitem.Listing {
	listings := make([]lineitem.Listing, 0, len(lc.Details))
	for _, d := range lc.Details {
		listings = append(listings, d.Listing)
	}
	return listings
}

// FetchListingsAndCommission loads the order's listings and the commission
// asset concurrently. Cart orders fetch every listing referenced by the
// ordered products; other orders fetch the single listing id.
func (s *Service) FetchListingsAndCommission(ctx context.Context, order lineitem.OrderData, listingID string) (ListingsAndCommission, error) {
	ids := []string{listingID}
	if order.IsCart() {
		ids = cart.ListingIDs(order.Cart.OrderedProducts)
	}
	if len(ids) == 0 || (len(ids) == 1 && ids[0] == "") {
		return ListingsAndCommission{}, common.NewValidationError("Listing not found for order", nil)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		details  = make([]flex.ListingDetails, len(ids))
		asset    flex.CommissionAsset
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			d, err := s.Platform.ShowListing(ctx, id)
			if err != nil {
				record(err)
				return
			}
			details[i] = d
		}(i, id)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		a, err := s.Platform.FetchCommission(ctx)
		if err != nil {
			record(err)
			return
		}
		asset = a
	}()
	wg.Wait()

	if firstErr != nil {
		return ListingsAndCommission{}, firstErr
	}
	return ListingsAndCommission{
		Details:            details,
		ProviderCommission: asset.ProviderCommission,
		CustomerCommission: asset.CustomerCommission,
	}, nil
}

// CheckServiceArea verifies the delivery point against the provider's
// service area when the listing declares one. Listings without a
// geolocation or service area skip the check.
func (s *Service) CheckServiceArea(ctx context.Context, details flex.ListingDetails, order lineitem.OrderData) error {
	if s.Location == nil {
		return nil
	}
	if details.Geolocation == nil || details.ServiceAreaKm == nil {
		return nil
	}
	point, ok := deliveryPoint(order)
	if !ok {
		return nil
	}
	from := location.Coordinates{Lat: details.Geolocation.Lat, Lng: details.Geolocation.Lng}
	distance, err := location.ValidateServiceArea(ctx, s.Location, from, point, *details.ServiceAreaKm)
	if err != nil {
		return err
	}
	s.Logger.Debug().
		Str("listing_id", details.Listing.ID).
		Int("distance_km", distance).
		Msg("delivery point within service area")
	return nil
}

// deliveryPoint extracts the delivery coordinates from a shipping order's
// address, when present.
func deliveryPoint(order lineitem.OrderData) (location.Coordinates, bool) {
	var address map[string]any
	switch {
	case order.IsCart() && order.Cart.OrderedProducts.DeliveryMethod == lineitem.DeliveryMethodShipping:
		address = order.Cart.OrderedProducts.ShippingAddress
	case order.Booking != nil && order.Booking.DeliveryMethod == lineitem.DeliveryMethodShipping:
		address = order.Booking.ShippingAddress
	}
	geo, ok := address["geolocation"].(map[string]any)
	if !ok {
		return location.Coordinates{}, false
	}
	lat, latOK := geo["lat"].(float64)
	lng, lngOK := geo["lng"].(float64)
	if !latOK || !lngOK {
		return location.Coordinates{}, false
	}
	return location.Coordinates{Lat: lat, Lng: lng}, true
}

// GroupPricing is the best-effort pricing result for one cart group.
type GroupPricing struct {
	AuthorID       string                   `json:"authorId"`
	DeliveryMethod string                   `json:"deliveryMethod"`
	LineItems      []lineitem.ValidLineItem `json:"lineItems,omitempty"`
	Error          string                   `json:"error,omitempty"`
}

// PriceCartGroups prices each author and delivery method group of a cart
// concurrently. A failure in one group is reported on that group alone, so
// the rest of the cart still renders a breakdown.
func (s *Service) PriceCartGroups(ctx context.Context, shoppingCart cart.Cart) []GroupPricing {
	groups := cart.GroupOrders(shoppingCart)
	results := make([]GroupPricing, len(groups))

	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group cart.Group) {
			defer wg.Done()
			results[i] = s.priceGroup(ctx, group)
		}(i, group)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].AuthorID != results[j].AuthorID {
			return results[i].AuthorID < results[j].AuthorID
		}
		return results[i].DeliveryMethod < results[j].DeliveryMethod
	})
	return results
}

func (s *Service) priceGroup(ctx context.Context, group cart.Group) GroupPricing {
	result := GroupPricing{AuthorID: group.AuthorID, DeliveryMethod: group.DeliveryMethod}

	listings := make(map[string]lineitem.OrderedListing, len(group.Listings))
	for id, l := range group.Listings {
		listings[id] = lineitem.OrderedListing{Quantity: l.Quantity}
	}
	order := lineitem.OrderData{Cart: &lineitem.CartOrder{OrderedProducts: lineitem.OrderedProducts{
		AuthorID:       group.AuthorID,
		DeliveryMethod: group.DeliveryMethod,
		Listings:       listings,
	}}}

	fetched, err := s.FetchListingsAndCommission(ctx, order, "")
	if err != nil {
		s.Logger.Warn().Err(err).
			Str("author_id", group.AuthorID).
			Str("delivery_method", group.DeliveryMethod).
			Msg("cart group pricing failed")
		result.Error = err.Error()
		return result
	}
	items, err := lineitem.TransactionLineItems(fetched.Listings(), order, fetched.ProviderCommission, fetched.CustomerCommission)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.LineItems = lineitem.ConstructValidLineItems(items)
	return result
}
