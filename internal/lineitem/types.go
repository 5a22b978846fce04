package lineitem

import (
	"math"

	"github.com/noah-isme/backend-pasar/internal/money"
)

// UnitType is the pricing basis of a listing.
type UnitType string

// Unit types recognised by the marketplace payment processes.
const (
	UnitTypeDay   UnitType = "day"
	UnitTypeNight UnitType = "night"
	UnitTypeHour  UnitType = "hour"
	UnitTypeFixed UnitType = "fixed"
	UnitTypeItem  UnitType = "item"
)

// Bookable reports whether the unit type belongs to a booking process rather
// than a product purchase.
func (u UnitType) Bookable() bool {
	switch u {
	case UnitTypeDay, UnitTypeNight, UnitTypeHour, UnitTypeFixed:
		return true
	}
	return false
}

// Party identifies whose totals a line item contributes to.
type Party string

// Parties a line item can be included for.
const (
	PartyCustomer Party = "customer"
	PartyProvider Party = "provider"
)

// Line item code constants. Codes are at most 64 characters and follow the
// "line-item/<kind>" pattern.
const (
	CodePrefix             = "line-item/"
	CodeShippingFee        = "line-item/shipping-fee"
	CodeProviderCommission = "line-item/provider-commission"
	CodeCustomerCommission = "line-item/customer-commission"
)

// LineItem is one priced component of an order. Exactly one of Quantity,
// Percentage, or the Units+Seats pair is set.
//
// A percentage line expresses a commission: its UnitPrice is the reference
// total it applies to, not a literal per-unit price.
type LineItem struct {
	Code       string      `json:"code"`
	UnitPrice  money.Money `json:"unitPrice"`
	Quantity   *float64    `json:"quantity,omitempty"`
	Units      *float64    `json:"units,omitempty"`
	Seats      *int        `json:"seats,omitempty"`
	Percentage *float64    `json:"percentage,omitempty"`
	IncludeFor []Party     `json:"includeFor"`
}

// Multiplier resolves the factor the unit price is multiplied by:
// quantity, units x seats, or percentage/100.
func (li LineItem) Multiplier() float64 {
	switch {
	case li.Quantity != nil:
		return *li.Quantity
	case li.Units != nil && li.Seats != nil:
		return *li.Units * float64(*li.Seats)
	case li.Percentage != nil:
		return *li.Percentage / 100
	}
	return 0
}

// LineTotal computes the rounded total for the line in minor units.
func (li LineItem) LineTotal() money.Money {
	amount := int64(math.Round(float64(li.UnitPrice.Amount) * li.Multiplier()))
	return money.New(amount, li.UnitPrice.Currency)
}

// PriceVariant is an alternative price a bookable listing can offer.
type PriceVariant struct {
	Name            string `json:"name"`
	PriceInSubunits *int64 `json:"priceInSubunits"`
}

// PublicData carries the listing's public extended data relevant to pricing.
type PublicData struct {
	UnitType                               UnitType       `json:"unitType"`
	ShippingPriceInSubunitsOneItem         *int64         `json:"shippingPriceInSubunitsOneItem,omitempty"`
	ShippingPriceInSubunitsAdditionalItems *int64         `json:"shippingPriceInSubunitsAdditionalItems,omitempty"`
	Stock                                  *int64         `json:"stock,omitempty"`
	PriceVariationsEnabled                 bool           `json:"priceVariationsEnabled,omitempty"`
	PriceVariants                          []PriceVariant `json:"priceVariants,omitempty"`
}

// Listing is the slice of a marketplace listing the pricing engine needs.
type Listing struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"authorId"`
	Title      string      `json:"title"`
	Price      money.Money `json:"price"`
	PublicData PublicData  `json:"publicData"`
}

// CommissionConfig is the per-request commission percentage fetched from the
// platform's configuration asset. It is treated as always-fresh external
// input and never cached here.
type CommissionConfig struct {
	Percentage float64 `json:"percentage"`
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
