package flex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/resilience"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		BaseURL:         srv.URL,
		ClientID:        "client-1",
		Token:           "integration-token",
		CommissionAsset: "transactions/commission.json",
		HTTP:            resilience.HTTPClient{Client: srv.Client()},
	}
}

func TestShowListing(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/api/listings/show" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer integration-token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("id"); got != "l1" {
			t.Fatalf("unexpected id %q", got)
		}
		_, _ = w.Write([]byte(`{"data": {
			"id": "l1",
			"attributes": {
				"title": "Ceramic mug",
				"price": {"amount": 1000, "currency": "USD"},
				"publicData": {
					"unitType": "item",
					"shippingPriceInSubunitsOneItem": 200,
					"geolocation": {"lat": 60.17, "lng": 24.94},
					"serviceAreaKm": 25
				}
			},
			"relationships": {"author": {"data": {"id": "a1"}}}
		}}`))
	})

	details, err := client.ShowListing(context.Background(), "l1")
	if err != nil {
		t.Fatalf("show listing: %v", err)
	}
	listing := details.Listing
	if listing.ID != "l1" || listing.AuthorID != "a1" || listing.Title != "Ceramic mug" {
		t.Fatalf("unexpected listing %+v", listing)
	}
	if listing.Price.Amount != 1000 || listing.Price.Currency != "USD" {
		t.Fatalf("unexpected price %+v", listing.Price)
	}
	if listing.PublicData.UnitType != lineitem.UnitTypeItem {
		t.Fatalf("unexpected unit type %q", listing.PublicData.UnitType)
	}
	if listing.PublicData.ShippingPriceInSubunitsOneItem == nil || *listing.PublicData.ShippingPriceInSubunitsOneItem != 200 {
		t.Fatalf("unexpected shipping price %v", listing.PublicData.ShippingPriceInSubunitsOneItem)
	}
	if details.Geolocation == nil || details.Geolocation.Lat != 60.17 {
		t.Fatalf("unexpected geolocation %+v", details.Geolocation)
	}
	if details.ServiceAreaKm == nil || *details.ServiceAreaKm != 25 {
		t.Fatalf("unexpected service area %v", details.ServiceAreaKm)
	}
}

func TestInitiateSpeculativePath(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/api/transactions/initiate_speculative" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["transition"] != "transition/request-payment" {
			t.Fatalf("unexpected transition %v", body["transition"])
		}
		_, _ = w.Write([]byte(`{"data": {"id": "tx1", "attributes": {"processAlias": "default-purchase/release-1", "lastTransition": "transition/request-payment"}}}`))
	})

	tx, err := client.Initiate(context.Background(), InitiateParams{
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
		Params:       map[string]any{"listingId": "l1"},
		Speculative:  true,
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if tx.ID != "tx1" || tx.LastTransition != "transition/request-payment" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}

func TestCurrentUserUsesCallerToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		_, _ = w.Write([]byte(`{"data": {"id": "u1", "attributes": {"profile": {"privateData": {"cart": {}}}}}}`))
	})

	user, err := client.CurrentUser(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, ok := user.PrivateData["cart"]; !ok {
		t.Fatal("expected cart in private data")
	}
}

func TestPlatformErrorMapping(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors": [{"title": "listing is closed"}]}`))
	})

	_, err := client.ShowListing(context.Background(), "l1")
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != http.StatusForbidden {
		t.Fatalf("unexpected status %d", appErr.HTTPStatus)
	}
	if appErr.Message != "listing is closed" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
	if appErr.Code != common.CodePlatformError {
		t.Fatalf("unexpected code %q", appErr.Code)
	}
}
