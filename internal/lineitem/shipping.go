package lineitem

import (
	"github.com/noah-isme/backend-pasar/internal/money"
)

// CalculateShippingFee computes the shipping fee for a delivery: the
// first-item price plus the additional-items price for every unit beyond the
// first. Returns nil when there is nothing to charge (no quantity or no
// configured first-item price).
func CalculateShippingFee(oneItem, additionalItems *int64, currency string, quantity float64) *money.Money {
	if quantity == 0 || oneItem == nil || *oneItem == 0 {
		return nil
	}
	extra := quantity - 1
	if extra < 0 {
		extra = 0
	}
	var perAdditional int64
	if additionalItems != nil {
		perAdditional = *additionalItems
	}
	fee := money.New(*oneItem+perAdditional*int64(extra), currency)
	return &fee
}

// cartShippingPrices picks the shipping subunit prices shared by a
// multi-seller cart: the minimum first-item and additional-item price across
// all listings. Conservative when sellers carry inconsistent shipping
// configuration; listings without a configured price do not participate.
func cartShippingPrices(listings []Listing) (oneItem, additionalItems *int64) {
	for _, listing := range listings {
		pd := listing.PublicData
		if pd.ShippingPriceInSubunitsOneItem != nil {
			if oneItem == nil || *pd.ShippingPriceInSubunitsOneItem < *oneItem {
				v := *pd.ShippingPriceInSubunitsOneItem
				oneItem = &v
			}
		}
		if pd.ShippingPriceInSubunitsAdditionalItems != nil {
			if additionalItems == nil || *pd.ShippingPriceInSubunitsAdditionalItems < *additionalItems {
				v := *pd.ShippingPriceInSubunitsAdditionalItems
				additionalItems = &v
			}
		}
	}
	return oneItem, additionalItems
}
