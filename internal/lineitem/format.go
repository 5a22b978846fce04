package lineitem

import (
	"strings"
)

// DisplayLineItem is the display-ready shape of a line item: titles resolved
// from listing data, amounts converted to major units, line totals computed.
type DisplayLineItem struct {
	Code              string   `json:"code"`
	ActualCode        string   `json:"actualCode,omitempty"`
	Title             string   `json:"title"`
	Quantity          *float64 `json:"quantity,omitempty"`
	Percentage        *float64 `json:"percentage,omitempty"`
	UnitPriceAmount   float64  `json:"unitPriceAmount"`
	UnitPriceCurrency string   `json:"unitPriceCurrency"`
	LineTotalAmount   float64  `json:"lineTotalAmount"`
	LineTotalCurrency string   `json:"lineTotalCurrency"`
	IncludeFor        []Party  `json:"includeFor"`
}

// FormatLineItems converts composed line items into the display shape used
// for receipts and order breakdowns. Per-listing cart codes
// ("...item-<listingId>") are resolved to the listing title and normalised to
// the generic item code, with the original code preserved in ActualCode.
func FormatLineItems(items []LineItem, listings []Listing) []DisplayLineItem {
	formatted := make([]DisplayLineItem, 0, len(items))
	for _, item := range items {
		unitPriceAmount := item.UnitPrice.MajorUnits()
		currency := item.UnitPrice.Currency

		if listingID, ok := cartItemListingID(item.Code); ok {
			var quantity float64
			if item.Quantity != nil {
				quantity = *item.Quantity
			}
			formatted = append(formatted, DisplayLineItem{
				Code:              CodePrefix + string(UnitTypeItem),
				ActualCode:        item.Code,
				Title:             listingTitle(listings, listingID),
				Quantity:          item.Quantity,
				UnitPriceAmount:   unitPriceAmount,
				UnitPriceCurrency: currency,
				LineTotalAmount:   unitPriceAmount * quantity,
				LineTotalCurrency: currency,
				IncludeFor:        item.IncludeFor,
			})
			continue
		}

		display := DisplayLineItem{
			Code:              item.Code,
			Title:             item.Code,
			UnitPriceAmount:   unitPriceAmount,
			UnitPriceCurrency: currency,
			LineTotalCurrency: currency,
			IncludeFor:        item.IncludeFor,
		}
		if item.Percentage != nil {
			display.Percentage = item.Percentage
			display.LineTotalAmount = unitPriceAmount * *item.Percentage / 100
		} else {
			display.Quantity = item.Quantity
			var quantity float64
			if item.Quantity != nil {
				quantity = *item.Quantity
			}
			display.LineTotalAmount = unitPriceAmount * quantity
		}
		formatted = append(formatted, display)
	}
	return formatted
}

// cartItemListingID extracts the listing id from a per-listing cart code.
func cartItemListingID(code string) (string, bool) {
	const marker = "item-"
	idx := strings.Index(code, marker)
	if idx < 0 {
		return "", false
	}
	return code[idx+len(marker):], true
}

func listingTitle(listings []Listing, listingID string) string {
	for _, listing := range listings {
		if listing.ID == listingID {
			return listing.Title
		}
	}
	return listingID
}
