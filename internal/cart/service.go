package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pasar/internal/flex"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

const privateDataKey = "cart"

// Service stores the shopping cart in the customer's marketplace profile.
// The platform is the single source of truth so the cart follows the user
// across devices.
type Service struct {
	Platform flex.API
	// ExclusiveDelivery removes a listing from the author's other delivery
	// methods whenever it is added, so it never sits under both pickup and
	// shipping.
	ExclusiveDelivery bool
	Logger            zerolog.Logger
}

// AddOrUpdateInput describes one cart mutation.
type AddOrUpdateInput struct {
	AuthorID        string         `json:"authorId"`
	ListingID       string         `json:"listingId"`
	DeliveryMethod  string         `json:"deliveryMethod"`
	Quantity        float64        `json:"quantity"`
	DeliveryDetails map[string]any `json:"deliveryDetails,omitempty"`
	// SaveDefaultDeliveryAddress stores the shipping address on the public
	// profile for prefilling future checkouts.
	SaveDefaultDeliveryAddress bool `json:"saveDefaultDeliveryAddress,omitempty"`
}

// Get loads the caller's cart from their profile.
func (s *Service) Get(ctx context.Context, userToken string) (Cart, error) {
	if s == nil || s.Platform == nil {
		return nil, errors.New("cart service not configured")
	}
	user, err := s.Platform.CurrentUser(ctx, userToken)
	if err != nil {
		return nil, err
	}
	return decodeCart(user.PrivateData), nil
}

// AddOrUpdate applies the mutation to the caller's cart and persists the
// result. A zero or negative quantity removes the listing.
func (s *Service) AddOrUpdate(ctx context.Context, userToken string, input AddOrUpdateInput) (Cart, error) {
	if s == nil || s.Platform == nil {
		return nil, errors.New("cart service not configured")
	}
	current, err := s.Get(ctx, userToken)
	if err != nil {
		return nil, err
	}

	next, ok := Update(current, input.AuthorID, input.ListingID, input.DeliveryMethod, input.Quantity, input.DeliveryDetails)
	if !ok {
		return nil, ErrInvalidInput
	}
	if s.ExclusiveDelivery && input.Quantity > 0 {
		next = RemoveListingFromOtherDeliveryMethods(next, input.AuthorID, input.ListingID, input.DeliveryMethod)
	}

	upd := flex.ProfileUpdate{PrivateData: map[string]any{privateDataKey: next}}
	if address := defaultDeliveryAddress(input); address != nil {
		upd.PublicData = map[string]any{"defaultDeliveryAddress": address}
	}
	if err := s.Platform.UpdateProfile(ctx, userToken, upd); err != nil {
		return nil, err
	}
	s.Logger.Debug().
		Str("author_id", input.AuthorID).
		Str("listing_id", input.ListingID).
		Str("delivery_method", input.DeliveryMethod).
		Float64("quantity", input.Quantity).
		Int("cart_count", Count(next)).
		Msg("cart updated")
	return next, nil
}

// RemoveGroup drops an author and delivery method pair from the cart,
// typically after checkout initiated its transaction.
func (s *Service) RemoveGroup(ctx context.Context, userToken, authorID, deliveryMethod string) (Cart, error) {
	if s == nil || s.Platform == nil {
		return nil, errors.New("cart service not configured")
	}
	if authorID == "" || deliveryMethod == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, userToken)
	if err != nil {
		return nil, err
	}
	next := RemoveAuthorDelivery(current, authorID, deliveryMethod)
	upd := flex.ProfileUpdate{PrivateData: map[string]any{privateDataKey: next}}
	if err := s.Platform.UpdateProfile(ctx, userToken, upd); err != nil {
		return nil, err
	}
	return next, nil
}

// defaultDeliveryAddress returns the shipping address to persist on the
// public profile, or nil when the input does not ask for it.
func defaultDeliveryAddress(input AddOrUpdateInput) map[string]any {
	if !input.SaveDefaultDeliveryAddress || input.DeliveryMethod != lineitem.DeliveryMethodShipping {
		return nil
	}
	address, ok := input.DeliveryDetails["shippingAddress"].(map[string]any)
	if !ok || len(address) == 0 {
		return nil
	}
	return address
}

// decodeCart reads the cart out of profile private data. Unknown or
// malformed shapes yield an empty cart rather than an error so a corrupt
// profile never locks the customer out of shopping.
func decodeCart(privateData map[string]any) Cart {
	raw, ok := privateData[privateDataKey]
	if !ok || raw == nil {
		return Cart{}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return Cart{}
	}
	var cart Cart
	if err := json.Unmarshal(encoded, &cart); err != nil {
		return Cart{}
	}
	if cart == nil {
		return Cart{}
	}
	return cart
}
