package lineitem

import (
	"github.com/noah-isme/backend-pasar/internal/money"
)

// ValidLineItem is a composed line item decorated with the attributes the
// marketplace platform adds to its own responses, so locally computed line
// items can be rendered interchangeably with platform-returned ones.
type ValidLineItem struct {
	LineItem
	LineTotal money.Money `json:"lineTotal"`
	Reversal  bool        `json:"reversal"`
}

// ConstructValidLineItems decorates line items with lineTotal and reversal.
func ConstructValidLineItems(items []LineItem) []ValidLineItem {
	out := make([]ValidLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, ValidLineItem{
			LineItem:  item,
			LineTotal: item.LineTotal(),
			Reversal:  false,
		})
	}
	return out
}
