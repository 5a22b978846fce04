package lineitem

import (
	"testing"

	"github.com/noah-isme/backend-pasar/internal/money"
)

func baseLine(amount int64, quantity float64) LineItem {
	return LineItem{
		Code:       "line-item/item",
		UnitPrice:  money.New(amount, "USD"),
		Quantity:   floatPtr(quantity),
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}
}

func TestProviderCommissionMaybe(t *testing.T) {
	cfg := &CommissionConfig{Percentage: 10}
	items, err := ProviderCommissionMaybe(cfg, []LineItem{baseLine(5000, 2)}, "USD")
	if err != nil {
		t.Fatalf("commission: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one commission line, got %d", len(items))
	}
	commission := items[0]
	if commission.Code != CodeProviderCommission {
		t.Fatalf("unexpected code %q", commission.Code)
	}
	if commission.UnitPrice.Amount != 10000 {
		t.Fatalf("expected reference total 10000, got %d", commission.UnitPrice.Amount)
	}
	if commission.Percentage == nil || *commission.Percentage != -10 {
		t.Fatalf("expected negated percentage, got %v", commission.Percentage)
	}
	if len(commission.IncludeFor) != 1 || commission.IncludeFor[0] != PartyProvider {
		t.Fatalf("unexpected includeFor %v", commission.IncludeFor)
	}
	// Provider commission reduces the payout.
	if commission.LineTotal().Amount != -1000 {
		t.Fatalf("expected line total -1000, got %d", commission.LineTotal().Amount)
	}
}

func TestCustomerCommissionMaybe(t *testing.T) {
	cfg := &CommissionConfig{Percentage: 15}
	items, err := CustomerCommissionMaybe(cfg, []LineItem{baseLine(2000, 3)}, "USD")
	if err != nil {
		t.Fatalf("commission: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one commission line, got %d", len(items))
	}
	commission := items[0]
	if commission.Code != CodeCustomerCommission {
		t.Fatalf("unexpected code %q", commission.Code)
	}
	if commission.Percentage == nil || *commission.Percentage != 15 {
		t.Fatalf("expected positive percentage, got %v", commission.Percentage)
	}
	// Customer commission increases the payin: round(6000 * 15 / 100).
	if commission.LineTotal().Amount != 900 {
		t.Fatalf("expected line total 900, got %d", commission.LineTotal().Amount)
	}
}

func TestCommissionMaybeSkipsWithoutPositivePercentage(t *testing.T) {
	refs := []LineItem{baseLine(2000, 1)}

	for _, cfg := range []*CommissionConfig{nil, {Percentage: 0}, {Percentage: -5}} {
		items, err := ProviderCommissionMaybe(cfg, refs, "USD")
		if err != nil {
			t.Fatalf("commission: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected no commission for %+v", cfg)
		}
	}
}

func TestCommissionReferenceWithSeats(t *testing.T) {
	ref := LineItem{
		Code:       "line-item/hour",
		UnitPrice:  money.New(1000, "EUR"),
		Units:      floatPtr(3),
		Seats:      intPtr(2),
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}
	items, err := CustomerCommissionMaybe(&CommissionConfig{Percentage: 10}, []LineItem{ref}, "EUR")
	if err != nil {
		t.Fatalf("commission: %v", err)
	}
	if items[0].UnitPrice.Amount != 6000 {
		t.Fatalf("expected reference total 6000, got %d", items[0].UnitPrice.Amount)
	}
}
