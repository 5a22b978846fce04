package lineitem

import (
	"fmt"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/money"
)

// TransactionLineItems composes the full, ordered line-item list for an
// order: the cart composer for product cart orders, otherwise the
// single-listing composer against the first listing. All-or-nothing: any
// failure returns an error and no partial result.
func TransactionLineItems(listings []Listing, order OrderData, provider, customer *CommissionConfig) ([]LineItem, error) {
	if order.IsCart() {
		return composeProductOrder(order.Cart, listings, provider, customer)
	}
	if len(listings) == 0 {
		return nil, common.NewValidationError("Listing not found for order", nil)
	}
	return composeSingleListing(listings[0], order.Booking, provider, customer)
}

// composeSingleListing builds line items for a booking or single-listing
// purchase. The base price line comes first and commissions last; display
// logic falls back on that ordering when it cannot recognise a custom code.
func composeSingleListing(listing Listing, order *BookingOrder, provider, customer *CommissionConfig) ([]LineItem, error) {
	publicData := listing.PublicData
	unitType := publicData.UnitType
	code := CodePrefix + string(unitType)
	currency := listing.Price.Currency

	unitPrice := listing.Price
	if variant := selectPriceVariant(publicData, order); variant != nil {
		unitPrice = money.New(*variant.PriceInSubunits, currency)
	}

	resolved := ResolveQuantity(order, unitType)
	if !resolved.Valid() {
		return nil, missingQuantityError(resolved)
	}

	base := LineItem{
		Code:       code,
		UnitPrice:  unitPrice,
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}
	if resolved.Units != nil && resolved.Seats != nil {
		base.Units = resolved.Units
		base.Seats = resolved.Seats
	} else {
		base.Quantity = resolved.Quantity
	}

	providerMaybe, err := ProviderCommissionMaybe(provider, []LineItem{base}, currency)
	if err != nil {
		return nil, err
	}
	customerMaybe, err := CustomerCommissionMaybe(customer, []LineItem{base}, currency)
	if err != nil {
		return nil, err
	}

	lineItems := []LineItem{base}
	lineItems = append(lineItems, providerMaybe...)
	lineItems = append(lineItems, customerMaybe...)
	return lineItems, nil
}

// selectPriceVariant returns the chosen price variant when the listing is
// bookable, variants are enabled, and the selected variant carries a valid
// non-negative subunit price.
func selectPriceVariant(publicData PublicData, order *BookingOrder) *PriceVariant {
	if order == nil || order.PriceVariantName == "" {
		return nil
	}
	if !publicData.UnitType.Bookable() || !publicData.PriceVariationsEnabled {
		return nil
	}
	for i := range publicData.PriceVariants {
		variant := publicData.PriceVariants[i]
		if variant.Name != order.PriceVariantName {
			continue
		}
		if variant.PriceInSubunits == nil || *variant.PriceInSubunits < 0 {
			return nil
		}
		return &variant
	}
	return nil
}

// composeProductOrder builds line items for a multi-listing cart order from
// one seller: one line per listing, a shared shipping fee line when the
// delivery method is shipping, then provider and customer commissions.
func composeProductOrder(order *CartOrder, listings []Listing, provider, customer *CommissionConfig) ([]LineItem, error) {
	ordered := order.OrderedProducts
	isShipping := ordered.DeliveryMethod == DeliveryMethodShipping

	var orderQuantity float64
	listingLineItems := make([]LineItem, 0, len(listings))
	for _, listing := range listings {
		quantity := ordered.Listings[listing.ID].Quantity
		if quantity == 0 {
			return nil, common.NewValidationError(
				"Error: orderData is missing the following information: quantity.",
				map[string]any{"missing": []string{"quantity"}, "listingId": listing.ID},
			)
		}
		orderQuantity += quantity

		listingLineItems = append(listingLineItems, LineItem{
			Code:       fmt.Sprintf("%s%s-%s", CodePrefix, listing.PublicData.UnitType, listing.ID),
			UnitPrice:  listing.Price,
			Quantity:   floatPtr(quantity),
			IncludeFor: []Party{PartyCustomer, PartyProvider},
		})
	}

	if len(listingLineItems) == 0 || listingLineItems[0].UnitPrice.Currency == "" {
		return nil, common.NewValidationError("Currency not found", nil)
	}
	currency := listingLineItems[0].UnitPrice.Currency

	var deliveryLineItemMaybe []LineItem
	if isShipping {
		oneItem, additionalItems := cartShippingPrices(listings)
		shippingFee := CalculateShippingFee(oneItem, additionalItems, currency, orderQuantity)
		if shippingFee != nil {
			deliveryLineItemMaybe = []LineItem{{
				Code:       CodeShippingFee,
				UnitPrice:  *shippingFee,
				Quantity:   floatPtr(1),
				IncludeFor: []Party{PartyCustomer, PartyProvider},
			}}
		}
	}

	// The order of the reference set does not change the sum; it documents
	// which totals each commission is derived from.
	customerRefs := append(append([]LineItem{}, deliveryLineItemMaybe...), listingLineItems...)
	providerRefs := append(append([]LineItem{}, listingLineItems...), deliveryLineItemMaybe...)

	customerMaybe, err := CustomerCommissionMaybe(customer, customerRefs, currency)
	if err != nil {
		return nil, err
	}
	providerMaybe, err := ProviderCommissionMaybe(provider, providerRefs, currency)
	if err != nil {
		return nil, err
	}

	lineItems := make([]LineItem, 0, len(listingLineItems)+3)
	lineItems = append(lineItems, listingLineItems...)
	lineItems = append(lineItems, deliveryLineItemMaybe...)
	lineItems = append(lineItems, providerMaybe...)
	lineItems = append(lineItems, customerMaybe...)
	return lineItems, nil
}
