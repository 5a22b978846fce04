package lineitem

import (
	"github.com/noah-isme/backend-pasar/internal/money"
)

// ProviderCommissionMaybe builds the provider commission line over the
// reference line items, or nothing when no positive percentage is
// configured. The percentage is negated: provider commission is a deduction
// from the payout.
func ProviderCommissionMaybe(cfg *CommissionConfig, refs []LineItem, currency string) ([]LineItem, error) {
	if !hasCommission(cfg) {
		return nil, nil
	}
	total, err := totalOf(refs, currency)
	if err != nil {
		return nil, err
	}
	return []LineItem{{
		Code:       CodeProviderCommission,
		UnitPrice:  total,
		Percentage: floatPtr(-cfg.Percentage),
		IncludeFor: []Party{PartyProvider},
	}}, nil
}

// CustomerCommissionMaybe builds the customer commission line over the
// reference line items, or nothing when no positive percentage is
// configured. Customer commission adds to the payin.
func CustomerCommissionMaybe(cfg *CommissionConfig, refs []LineItem, currency string) ([]LineItem, error) {
	if !hasCommission(cfg) {
		return nil, nil
	}
	total, err := totalOf(refs, currency)
	if err != nil {
		return nil, err
	}
	return []LineItem{{
		Code:       CodeCustomerCommission,
		UnitPrice:  total,
		Percentage: floatPtr(cfg.Percentage),
		IncludeFor: []Party{PartyCustomer},
	}}, nil
}

func hasCommission(cfg *CommissionConfig) bool {
	return cfg != nil && cfg.Percentage > 0
}

// totalOf sums the line totals of the reference set. The commission's unit
// price is this reference total, not a per-unit price.
func totalOf(refs []LineItem, currency string) (money.Money, error) {
	totals := make([]money.Money, 0, len(refs))
	for _, ref := range refs {
		totals = append(totals, ref.LineTotal())
	}
	return money.Sum(currency, totals...)
}
