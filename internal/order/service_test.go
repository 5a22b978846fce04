package order

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pasar/internal/cart"
	"github.com/noah-isme/backend-pasar/internal/flex"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
)

func TestFetchListingsAndCommissionSingle(t *testing.T) {
	mock := catalogMock(map[string]flex.ListingDetails{"l1": catalogListing("l1", 1000)})
	svc := &Service{Platform: mock, Logger: zerolog.Nop()}

	order := lineitem.OrderData{Booking: &lineitem.BookingOrder{StockReservationQuantity: 1}}
	fetched, err := svc.FetchListingsAndCommission(context.Background(), order, "l1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetched.Details) != 1 || fetched.Details[0].Listing.ID != "l1" {
		t.Fatalf("unexpected listings %+v", fetched.Details)
	}
	if fetched.ProviderCommission == nil || fetched.ProviderCommission.Percentage != 10 {
		t.Fatalf("unexpected commission %+v", fetched.ProviderCommission)
	}
}

func TestFetchListingsAndCommissionCartOrder(t *testing.T) {
	mock := catalogMock(map[string]flex.ListingDetails{
		"l1": catalogListing("l1", 1000),
		"l2": catalogListing("l2", 2000),
	})
	svc := &Service{Platform: mock, Logger: zerolog.Nop()}

	order := lineitem.OrderData{Cart: &lineitem.CartOrder{OrderedProducts: lineitem.OrderedProducts{
		DeliveryMethod: "pickup",
		Listings: map[string]lineitem.OrderedListing{
			"l2": {Quantity: 1},
			"l1": {Quantity: 2},
		},
	}}}
	fetched, err := svc.FetchListingsAndCommission(context.Background(), order, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// Sorted by listing id.
	if len(fetched.Details) != 2 || fetched.Details[0].Listing.ID != "l1" || fetched.Details[1].Listing.ID != "l2" {
		t.Fatalf("unexpected listings %+v", fetched.Details)
	}
}

func TestFetchListingsAndCommissionMissingListingID(t *testing.T) {
	svc := &Service{Platform: &flex.Mock{}, Logger: zerolog.Nop()}
	order := lineitem.OrderData{Booking: &lineitem.BookingOrder{}}
	if _, err := svc.FetchListingsAndCommission(context.Background(), order, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchListingsAndCommissionPropagatesErrors(t *testing.T) {
	wantErr := errors.New("listing fetch failed")
	mock := &flex.Mock{
		ShowListingFn: func(ctx context.Context, id string) (flex.ListingDetails, error) {
			return flex.ListingDetails{}, wantErr
		},
		FetchCommissionFn: func(ctx context.Context) (flex.CommissionAsset, error) {
			return flex.CommissionAsset{}, nil
		},
	}
	svc := &Service{Platform: mock, Logger: zerolog.Nop()}
	order := lineitem.OrderData{Booking: &lineitem.BookingOrder{}}
	if _, err := svc.FetchListingsAndCommission(context.Background(), order, "l1"); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestPriceCartGroupsBestEffort(t *testing.T) {
	mock := &flex.Mock{
		ShowListingFn: func(ctx context.Context, id string) (flex.ListingDetails, error) {
			if id == "broken" {
				return flex.ListingDetails{}, errors.New("listing gone")
			}
			return catalogListing(id, 1000), nil
		},
		FetchCommissionFn: func(ctx context.Context) (flex.CommissionAsset, error) {
			return flex.CommissionAsset{}, nil
		},
	}
	svc := &Service{Platform: mock, Logger: zerolog.Nop()}

	shoppingCart, _ := cart.Update(nil, "a1", "l1", "pickup", 2, nil)
	shoppingCart, _ = cart.Update(shoppingCart, "a2", "broken", "shipping", 1, nil)

	groups := svc.PriceCartGroups(context.Background(), shoppingCart)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].AuthorID != "a1" || groups[0].Error != "" {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if len(groups[0].LineItems) != 1 {
		t.Fatalf("expected 1 line item for pickup group, got %d", len(groups[0].LineItems))
	}
	if groups[1].AuthorID != "a2" || groups[1].Error == "" {
		t.Fatalf("expected error on second group, got %+v", groups[1])
	}
}
