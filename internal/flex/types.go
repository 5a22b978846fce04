package flex

import (
	"encoding/json"

	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/money"
)

// Transaction is the marketplace transaction shape the API glue layer works
// with. ProtectedData carries order details visible to both parties, Metadata
// is operator-only state such as child stock reservations.
type Transaction struct {
	ID             string            `json:"id"`
	ProcessAlias   string            `json:"processAlias"`
	LastTransition string            `json:"lastTransition"`
	ProtectedData  map[string]any    `json:"protectedData,omitempty"`
	Metadata       map[string]any    `json:"metadata,omitempty"`
	LineItems      []json.RawMessage `json:"lineItems,omitempty"`
}

// User is the authenticated marketplace user. The shopping cart lives in
// PrivateData under the "cart" key.
type User struct {
	ID          string         `json:"id"`
	PublicData  map[string]any `json:"publicData,omitempty"`
	PrivateData map[string]any `json:"privateData,omitempty"`
}

// ProfileUpdate is a partial profile write. Nil maps are left untouched by
// the platform, non-nil maps are merged key by key.
type ProfileUpdate struct {
	PublicData  map[string]any `json:"publicData,omitempty"`
	PrivateData map[string]any `json:"privateData,omitempty"`
}

// CommissionAsset is the operator-editable commission configuration fetched
// from the marketplace asset delivery API.
type CommissionAsset struct {
	ProviderCommission *lineitem.CommissionConfig `json:"providerCommission,omitempty"`
	CustomerCommission *lineitem.CommissionConfig `json:"customerCommission,omitempty"`
}

// InitiateParams describes a privileged transaction initiation.
type InitiateParams struct {
	ProcessAlias string
	Transition   string
	Params       map[string]any
	Speculative  bool
}

// TransitionParams describes a privileged transition on an existing
// transaction.
type TransitionParams struct {
	ID          string
	Transition  string
	Params      map[string]any
	Speculative bool
}

// wire shapes for the platform's JSON envelope

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type wireMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m wireMoney) toMoney() money.Money {
	return money.New(m.Amount, m.Currency)
}

type wireListing struct {
	ID         string `json:"id"`
	Attributes struct {
		Title      string     `json:"title"`
		Price      *wireMoney `json:"price"`
		PublicData struct {
			UnitType                               string                  `json:"unitType"`
			ShippingPriceInSubunitsOneItem         *int64                  `json:"shippingPriceInSubunitsOneItem"`
			ShippingPriceInSubunitsAdditionalItems *int64                  `json:"shippingPriceInSubunitsAdditionalItems"`
			Stock                                  *int64                  `json:"stock"`
			PriceVariationsEnabled                 bool                    `json:"priceVariationsEnabled"`
			PriceVariants                          []lineitem.PriceVariant `json:"priceVariants"`
			Location                               map[string]any          `json:"location"`
			Geolocation                            *Geolocation            `json:"geolocation"`
			ServiceAreaKm                          *float64                `json:"serviceAreaKm"`
		} `json:"publicData"`
	} `json:"attributes"`
	Relationships struct {
		Author struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"author"`
	} `json:"relationships"`
}

// Geolocation is a listing's stored coordinate pair.
type Geolocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (w wireListing) toListing() lineitem.Listing {
	listing := lineitem.Listing{
		ID:       w.ID,
		AuthorID: w.Relationships.Author.Data.ID,
		Title:    w.Attributes.Title,
		PublicData: lineitem.PublicData{
			UnitType:                               lineitem.UnitType(w.Attributes.PublicData.UnitType),
			ShippingPriceInSubunitsOneItem:         w.Attributes.PublicData.ShippingPriceInSubunitsOneItem,
			ShippingPriceInSubunitsAdditionalItems: w.Attributes.PublicData.ShippingPriceInSubunitsAdditionalItems,
			Stock:                                  w.Attributes.PublicData.Stock,
			PriceVariationsEnabled:                 w.Attributes.PublicData.PriceVariationsEnabled,
			PriceVariants:                          w.Attributes.PublicData.PriceVariants,
		},
	}
	if w.Attributes.Price != nil {
		listing.Price = w.Attributes.Price.toMoney()
	}
	return listing
}

// ListingDetails pairs the pricing listing shape with the location fields the
// service-area check needs.
type ListingDetails struct {
	Listing       lineitem.Listing
	Geolocation   *Geolocation
	ServiceAreaKm *float64
}

func (w wireListing) toDetails() ListingDetails {
	return ListingDetails{
		Listing:       w.toListing(),
		Geolocation:   w.Attributes.PublicData.Geolocation,
		ServiceAreaKm: w.Attributes.PublicData.ServiceAreaKm,
	}
}

type wireTransaction struct {
	ID         string `json:"id"`
	Attributes struct {
		ProcessAlias   string            `json:"processAlias"`
		LastTransition string            `json:"lastTransition"`
		ProtectedData  map[string]any    `json:"protectedData"`
		Metadata       map[string]any    `json:"metadata"`
		LineItems      []json.RawMessage `json:"lineItems"`
	} `json:"attributes"`
}

func (w wireTransaction) toTransaction() Transaction {
	return Transaction{
		ID:             w.ID,
		ProcessAlias:   w.Attributes.ProcessAlias,
		LastTransition: w.Attributes.LastTransition,
		ProtectedData:  w.Attributes.ProtectedData,
		Metadata:       w.Attributes.Metadata,
		LineItems:      w.Attributes.LineItems,
	}
}

type wireUser struct {
	ID         string `json:"id"`
	Attributes struct {
		Profile struct {
			PublicData  map[string]any `json:"publicData"`
			PrivateData map[string]any `json:"privateData"`
		} `json:"profile"`
	} `json:"attributes"`
}

func (w wireUser) toUser() User {
	return User{
		ID:          w.ID,
		PublicData:  w.Attributes.Profile.PublicData,
		PrivateData: w.Attributes.Profile.PrivateData,
	}
}
