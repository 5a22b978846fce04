package lineitem

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-pasar/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DeliveryMethod values accepted in order data.
const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodShipping = "shipping"
)

// BookingOrder describes a booking or single-listing purchase against one listing.
type BookingOrder struct {
	BookingStart             *time.Time     `json:"bookingStart,omitempty"`
	BookingEnd               *time.Time     `json:"bookingEnd,omitempty"`
	Seats                    int            `json:"seats,omitempty"`
	StockReservationQuantity float64        `json:"stockReservationQuantity,omitempty"`
	DeliveryMethod           string         `json:"deliveryMethod,omitempty" validate:"omitempty,oneof=pickup shipping"`
	PriceVariantName         string         `json:"priceVariantName,omitempty"`
	OfferInSubunits          *int64         `json:"offerInSubunits,omitempty"`
	Actor                    string         `json:"actor,omitempty" validate:"omitempty,oneof=provider customer"`
	Currency                 string         `json:"currency,omitempty"`
	ShippingAddress          map[string]any `json:"shippingAddress,omitempty"`
}

// OrderedListing is a single cart entry: how many units of a listing.
type OrderedListing struct {
	Quantity float64 `json:"quantity"`
}

// OrderedProducts groups the listings bought from one seller under one
// delivery method.
type OrderedProducts struct {
	AuthorID        string                    `json:"authorId,omitempty"`
	DeliveryMethod  string                    `json:"deliveryMethod" validate:"required,oneof=pickup shipping"`
	Listings        map[string]OrderedListing `json:"listings" validate:"required,min=1"`
	ShippingAddress map[string]any            `json:"shippingAddress,omitempty"`
}

// CartOrder describes a multi-listing product order from a single seller.
type CartOrder struct {
	OrderedProducts OrderedProducts `json:"orderedProducts" validate:"required"`
}

// OrderData is the tagged union of the two order shapes. Exactly one branch
// is set after a successful decode.
type OrderData struct {
	Booking *BookingOrder
	Cart    *CartOrder
}

// IsCart reports whether the order is a multi-listing product cart order.
func (o OrderData) IsCart() bool { return o.Cart != nil }

// DecodeOrderData parses raw order data into the tagged union, validating the
// shape at the boundary so the composers can rely on it.
func DecodeOrderData(raw json.RawMessage) (OrderData, error) {
	if len(raw) == 0 {
		return OrderData{}, common.NewValidationError("Missing required order data", nil)
	}

	var probe struct {
		OrderedProducts *json.RawMessage `json:"orderedProducts"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return OrderData{}, common.NewValidationError("Malformed order data", map[string]any{"reason": err.Error()})
	}

	if probe.OrderedProducts != nil {
		var cart CartOrder
		if err := json.Unmarshal(raw, &cart); err != nil {
			return OrderData{}, common.NewValidationError("Malformed cart order data", map[string]any{"reason": err.Error()})
		}
		if err := validate.Struct(cart); err != nil {
			return OrderData{}, common.NewValidationError("Invalid cart order data", validationDetails(err))
		}
		return OrderData{Cart: &cart}, nil
	}

	var booking BookingOrder
	if err := json.Unmarshal(raw, &booking); err != nil {
		return OrderData{}, common.NewValidationError("Malformed order data", map[string]any{"reason": err.Error()})
	}
	if err := validate.Struct(booking); err != nil {
		return OrderData{}, common.NewValidationError("Invalid order data", validationDetails(err))
	}
	return OrderData{Booking: &booking}, nil
}

func validationDetails(err error) any {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]any{"reason": err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace())
	}
	return map[string]any{"fields": fields}
}
