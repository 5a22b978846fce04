package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/backend-pasar/internal/common"
)

// FoundComponents holds the address parts resolved from a geocoding
// response.
type FoundComponents struct {
	StreetAddress string `json:"streetAddress,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	CountryCode   string `json:"countryCode,omitempty"`
}

// Validation is the outcome of checking a geocoding response for a complete
// street address.
type Validation struct {
	IsValid           bool
	MissingComponents []string
	Found             FoundComponents
}

// Validate checks that the geocoding features resolve a full street address:
// street, postal code, city, state and country code.
func Validate(features []Feature) Validation {
	if len(features) == 0 {
		return Validation{
			MissingComponents: []string{"streetAddress", "postalCode", "city", "countryCode"},
		}
	}

	var missing []string
	var found FoundComponents

	if f := findByType(features, "address"); f != nil && f.Text != "" {
		if f.Address != "" {
			found.StreetAddress = f.Address + " " + f.Text
		} else {
			found.StreetAddress = f.Text
		}
	} else {
		missing = append(missing, "streetAddress")
	}

	if f := findByType(features, "postcode"); f != nil && f.Text != "" {
		found.PostalCode = f.Text
	} else {
		missing = append(missing, "postalCode")
	}

	if f := findByType(features, "locality", "place"); f != nil && f.Text != "" {
		found.City = f.Text
	} else {
		missing = append(missing, "city")
	}

	if f := findByType(features, "region"); f != nil && f.Text != "" {
		found.State = f.Text
	} else {
		missing = append(missing, "state")
	}

	if f := findByType(features, "country"); f != nil && f.Properties.ShortCode != "" {
		found.CountryCode = f.Properties.ShortCode
	} else {
		missing = append(missing, "countryCode")
	}

	return Validation{
		IsValid:           len(missing) == 0,
		MissingComponents: missing,
		Found:             found,
	}
}

// GetAndValidate geocodes the point and requires a complete street address.
// An incomplete address is reported as a validation error naming the missing
// components.
func GetAndValidate(ctx context.Context, api API, point Coordinates) (Validation, error) {
	features, err := api.Geocode(ctx, point)
	if err != nil {
		return Validation{}, err
	}
	validation := Validate(features)
	if !validation.IsValid {
		message := fmt.Sprintf("The address is missing some components: %s", strings.Join(validation.MissingComponents, ", "))
		return Validation{}, common.NewValidationError(message, map[string]any{
			"missingComponents": validation.MissingComponents,
		})
	}
	return validation, nil
}

const outOfServiceAreaMessage = "This order is outside of the provider's service area"

// ValidateServiceArea checks the driving distance between the provider and
// the delivery point against the provider's service area, returning the
// distance in kilometers when within range.
func ValidateServiceArea(ctx context.Context, api API, from, to Coordinates, serviceAreaKm float64) (int, error) {
	distance, err := api.Distance(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if float64(distance) > serviceAreaKm {
		return 0, &common.AppError{
			Code:       common.CodeOutOfServiceArea,
			Message:    outOfServiceAreaMessage,
			HTTPStatus: 422,
		}
	}
	return distance, nil
}

func findByType(features []Feature, types ...string) *Feature {
	for i := range features {
		for _, placeType := range features[i].PlaceType {
			for _, want := range types {
				if placeType == want {
					return &features[i]
				}
			}
		}
	}
	return nil
}
