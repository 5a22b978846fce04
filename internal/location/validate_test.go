package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/resilience"
)

func feature(placeType, text string) Feature {
	return Feature{PlaceType: []string{placeType}, Text: text}
}

func completeFeatures() []Feature {
	country := Feature{PlaceType: []string{"country"}, Text: "Finland"}
	country.Properties.ShortCode = "fi"
	street := Feature{PlaceType: []string{"address"}, Text: "Mannerheimintie", Address: "12"}
	return []Feature{
		street,
		feature("postcode", "00100"),
		feature("place", "Helsinki"),
		feature("region", "Uusimaa"),
		country,
	}
}

func TestValidateComplete(t *testing.T) {
	v := Validate(completeFeatures())
	if !v.IsValid {
		t.Fatalf("expected valid address, missing %v", v.MissingComponents)
	}
	if v.Found.StreetAddress != "12 Mannerheimintie" {
		t.Fatalf("unexpected street address %q", v.Found.StreetAddress)
	}
	if v.Found.CountryCode != "fi" {
		t.Fatalf("unexpected country code %q", v.Found.CountryCode)
	}
}

func TestValidateMissingComponents(t *testing.T) {
	features := []Feature{
		feature("postcode", "00100"),
		feature("place", "Helsinki"),
	}
	v := Validate(features)
	if v.IsValid {
		t.Fatal("expected invalid address")
	}
	want := []string{"streetAddress", "state", "countryCode"}
	if len(v.MissingComponents) != len(want) {
		t.Fatalf("unexpected missing components %v", v.MissingComponents)
	}
	for i, component := range want {
		if v.MissingComponents[i] != component {
			t.Fatalf("unexpected missing components %v, want %v", v.MissingComponents, want)
		}
	}
}

func TestValidateEmptyResponse(t *testing.T) {
	v := Validate(nil)
	if v.IsValid {
		t.Fatal("expected invalid address")
	}
	if len(v.MissingComponents) != 4 {
		t.Fatalf("unexpected missing components %v", v.MissingComponents)
	}
}

type stubAPI struct {
	features []Feature
	distance int
	err      error
}

func (s *stubAPI) Geocode(ctx context.Context, point Coordinates) ([]Feature, error) {
	return s.features, s.err
}

func (s *stubAPI) Distance(ctx context.Context, from, to Coordinates) (int, error) {
	return s.distance, s.err
}

func TestGetAndValidateReportsMissing(t *testing.T) {
	api := &stubAPI{features: []Feature{feature("place", "Helsinki")}}
	_, err := GetAndValidate(context.Background(), api, Coordinates{Lat: 60, Lng: 24})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", appErr.HTTPStatus)
	}
	if appErr.Message != "The address is missing some components: streetAddress, postalCode, state, countryCode" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestValidateServiceArea(t *testing.T) {
	api := &stubAPI{distance: 12}
	distance, err := ValidateServiceArea(context.Background(), api, Coordinates{}, Coordinates{}, 25)
	if err != nil {
		t.Fatalf("service area: %v", err)
	}
	if distance != 12 {
		t.Fatalf("unexpected distance %d", distance)
	}
}

func TestValidateServiceAreaTooFar(t *testing.T) {
	api := &stubAPI{distance: 40}
	_, err := ValidateServiceArea(context.Background(), api, Coordinates{}, Coordinates{}, 25)
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != 422 {
		t.Fatalf("unexpected status %d", appErr.HTTPStatus)
	}
	if appErr.Code != common.CodeOutOfServiceArea {
		t.Fatalf("unexpected code %q", appErr.Code)
	}
	if appErr.Message != "This order is outside of the provider's service area" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestClientDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/directions/v5/mapbox/driving/24.94,60.17;24.65,60.21" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "token-1" {
			t.Fatalf("missing access token")
		}
		_, _ = w.Write([]byte(`{"code": "Ok", "routes": [{"distance": 17890}]}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, AccessToken: "token-1", HTTP: resilience.HTTPClient{Client: srv.Client()}}
	distance, err := client.Distance(context.Background(),
		Coordinates{Lat: 60.17, Lng: 24.94},
		Coordinates{Lat: 60.21, Lng: 24.65})
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	// 17890 m rounds to 18 km.
	if distance != 18 {
		t.Fatalf("unexpected distance %d", distance)
	}
}

func TestClientDistanceNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code": "NoRoute", "message": "No route found"}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, AccessToken: "token-1", HTTP: resilience.HTTPClient{Client: srv.Client()}}
	_, err := client.Distance(context.Background(), Coordinates{}, Coordinates{})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", appErr.HTTPStatus)
	}
	if appErr.Message != "No route found" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestClientGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocoding/v5/mapbox.places/24.94,60.17.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"features": [{"place_type": ["place"], "text": "Helsinki"}]}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, AccessToken: "token-1", HTTP: resilience.HTTPClient{Client: srv.Client()}}
	features, err := client.Geocode(context.Background(), Coordinates{Lat: 60.17, Lng: 24.94})
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(features) != 1 || features[0].Text != "Helsinki" {
		t.Fatalf("unexpected features %+v", features)
	}
}
