package lineitem

import (
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCalculateShippingFee(t *testing.T) {
	fee := CalculateShippingFee(int64Ptr(500), int64Ptr(100), "USD", 3)
	if fee == nil {
		t.Fatal("expected a fee")
	}
	if fee.Amount != 700 || fee.Currency != "USD" {
		t.Fatalf("unexpected fee %v", fee)
	}
}

func TestCalculateShippingFeeSingleItem(t *testing.T) {
	fee := CalculateShippingFee(int64Ptr(500), int64Ptr(100), "USD", 1)
	if fee == nil || fee.Amount != 500 {
		t.Fatalf("unexpected fee %v", fee)
	}
}

func TestCalculateShippingFeeNoQuantity(t *testing.T) {
	if fee := CalculateShippingFee(int64Ptr(500), int64Ptr(100), "USD", 0); fee != nil {
		t.Fatalf("expected nil fee, got %v", fee)
	}
}

func TestCalculateShippingFeeNoFirstItemPrice(t *testing.T) {
	if fee := CalculateShippingFee(nil, int64Ptr(100), "USD", 2); fee != nil {
		t.Fatalf("expected nil fee, got %v", fee)
	}
}

func TestCalculateShippingFeeNoAdditionalPrice(t *testing.T) {
	fee := CalculateShippingFee(int64Ptr(500), nil, "USD", 3)
	if fee == nil || fee.Amount != 500 {
		t.Fatalf("unexpected fee %v", fee)
	}
}

func TestCartShippingPricesTakesMinimums(t *testing.T) {
	listings := []Listing{
		{PublicData: PublicData{
			ShippingPriceInSubunitsOneItem:         int64Ptr(200),
			ShippingPriceInSubunitsAdditionalItems: int64Ptr(50),
		}},
		{PublicData: PublicData{
			ShippingPriceInSubunitsOneItem:         int64Ptr(300),
			ShippingPriceInSubunitsAdditionalItems: int64Ptr(20),
		}},
	}
	oneItem, additional := cartShippingPrices(listings)
	if oneItem == nil || *oneItem != 200 {
		t.Fatalf("unexpected first-item price %v", oneItem)
	}
	if additional == nil || *additional != 20 {
		t.Fatalf("unexpected additional-item price %v", additional)
	}
}
