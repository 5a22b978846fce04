package order

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-pasar/internal/cart"
	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/flex"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/location"
	"github.com/noah-isme/backend-pasar/internal/obs"
)

// Handler wires the order service to HTTP.
type Handler struct {
	Svc *Service
}

type bodyParams struct {
	ID           string         `json:"id,omitempty"`
	ProcessAlias string         `json:"processAlias,omitempty"`
	Transition   string         `json:"transition"`
	Params       map[string]any `json:"params"`
}

// TransactionLineItems prices an order without creating anything: the
// response carries the full line-item breakdown the checkout page renders.
func (h *Handler) TransactionLineItems(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrderData json.RawMessage `json:"orderData"`
		ListingID string          `json:"listingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	order, err := lineitem.DecodeOrderData(payload.OrderData)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	fetched, err := h.Svc.FetchListingsAndCommission(r.Context(), order, payload.ListingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	items, err := lineitem.TransactionLineItems(fetched.Listings(), order, fetched.ProviderCommission, fetched.CustomerCommission)
	if err != nil {
		recordPricing(order, "error")
		common.WriteError(w, err)
		return
	}
	recordPricing(order, "ok")

	// The platform adds lineTotal and reversal on its own responses; add
	// them here so the client renders both shapes identically.
	common.JSON(w, http.StatusOK, map[string]any{"data": lineitem.ConstructValidLineItems(items)})
}

// CartLineItems prices every group of the cart best-effort, one result per
// author and delivery method.
func (h *Handler) CartLineItems(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Cart cart.Cart `json:"cart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	groups := h.Svc.PriceCartGroups(r.Context(), payload.Cart)
	common.JSON(w, http.StatusOK, map[string]any{"data": groups})
}

// InitiatePrivileged initiates a transaction with server-side pricing. The
// client never sends line items; they are recomputed here and attached
// together with a display-ready copy in protected data.
func (h *Handler) InitiatePrivileged(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IsSpeculative bool            `json:"isSpeculative"`
		OrderData     json.RawMessage `json:"orderData"`
		BodyParams    bodyParams      `json:"bodyParams"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	order, err := lineitem.DecodeOrderData(payload.OrderData)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	listingID, _ := payload.BodyParams.Params["listingId"].(string)

	fetched, err := h.Svc.FetchListingsAndCommission(r.Context(), order, listingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	for _, details := range fetched.Details {
		if err := h.Svc.CheckServiceArea(r.Context(), details, order); err != nil {
			common.WriteError(w, err)
			return
		}
	}

	listings := fetched.Listings()
	items, err := lineitem.TransactionLineItems(listings, order, fetched.ProviderCommission, fetched.CustomerCommission)
	if err != nil {
		recordPricing(order, "error")
		common.WriteError(w, err)
		return
	}
	recordPricing(order, "ok")

	params := transactionParams(payload.BodyParams.Params, items, listings, false)
	tx, err := h.Svc.Platform.Initiate(r.Context(), flex.InitiateParams{
		ProcessAlias: payload.BodyParams.ProcessAlias,
		Transition:   payload.BodyParams.Transition,
		Params:       params,
		Speculative:  payload.IsSpeculative,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}

	if order.IsCart() && !payload.IsSpeculative {
		tx, err = h.Svc.CreateStockReservations(r.Context(), tx)
		if err != nil {
			common.WriteError(w, err)
			return
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": tx})
}

// TransitionPrivileged applies a transition with server-side pricing, the
// same way InitiatePrivileged does for new transactions.
func (h *Handler) TransitionPrivileged(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IsSpeculative bool            `json:"isSpeculative"`
		OrderData     json.RawMessage `json:"orderData"`
		BodyParams    bodyParams      `json:"bodyParams"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	order, err := lineitem.DecodeOrderData(payload.OrderData)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	tx, err := h.Svc.Platform.ShowTransaction(r.Context(), payload.BodyParams.ID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	listingID, _ := payload.BodyParams.Params["listingId"].(string)
	if listingID == "" {
		listingID, _ = tx.ProtectedData["listingId"].(string)
	}

	fetched, err := h.Svc.FetchListingsAndCommission(r.Context(), order, listingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	listings := fetched.Listings()
	items, err := lineitem.TransactionLineItems(listings, order, fetched.ProviderCommission, fetched.CustomerCommission)
	if err != nil {
		recordPricing(order, "error")
		common.WriteError(w, err)
		return
	}
	recordPricing(order, "ok")

	// listingId is dropped from transition params; transitions on an
	// existing transaction must not re-bind the listing.
	params := transactionParams(payload.BodyParams.Params, items, listings, true)
	updated, err := h.Svc.Platform.Transition(r.Context(), flex.TransitionParams{
		ID:          payload.BodyParams.ID,
		Transition:  payload.BodyParams.Transition,
		Params:      params,
		Speculative: payload.IsSpeculative,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}

	if order.IsCart() && !payload.IsSpeculative {
		updated, err = h.Svc.CreateStockReservations(r.Context(), updated)
		if err != nil {
			common.WriteError(w, err)
			return
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// ConfirmStock confirms every child stock reservation of a cart
// transaction, typically after payment is confirmed.
func (h *Handler) ConfirmStock(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TxID string `json:"txId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.TxID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "txId is required", nil)
		return
	}
	tx, err := h.Svc.Platform.ShowTransaction(r.Context(), payload.TxID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	confirmed, err := h.Svc.ConfirmStockReservations(r.Context(), tx)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": confirmed})
}

// ValidateAddress geocodes a coordinate pair and requires a complete street
// address, for validating a delivery address before checkout.
func (h *Handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Point location.Coordinates `json:"point"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Svc.Location == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "geocoding provider not configured", nil)
		return
	}
	validation, err := location.GetAndValidate(r.Context(), h.Svc.Location, payload.Point)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"valid":           true,
		"foundComponents": validation.Found,
	}})
}

func recordPricing(order lineitem.OrderData, result string) {
	if obs.PricingTotal == nil {
		return
	}
	mode := "single"
	if order.IsCart() {
		mode = "cart"
	}
	obs.PricingTotal.WithLabelValues(mode, result).Inc()
}

// transactionParams merges the caller's params with the computed line items
// and attaches the formatted breakdown to protected data.
func transactionParams(params map[string]any, items []lineitem.LineItem, listings []lineitem.Listing, dropListingID bool) map[string]any {
	merged := make(map[string]any, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	if dropListingID {
		delete(merged, "listingId")
	}
	merged["lineItems"] = items

	protectedData := map[string]any{}
	if existing, ok := merged["protectedData"].(map[string]any); ok {
		for k, v := range existing {
			protectedData[k] = v
		}
	}
	protectedData["formattedLineItems"] = lineitem.FormatLineItems(items, listings)
	merged["protectedData"] = protectedData
	return merged
}
