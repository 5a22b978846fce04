package flex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/obs"
	"github.com/noah-isme/backend-pasar/internal/resilience"
)

// API is the marketplace platform surface the glue layer depends on.
// User-scoped calls take the caller's bearer token so the platform enforces
// the caller's own permissions; privileged calls run under the configured
// integration token.
type API interface {
	ShowListing(ctx context.Context, id string) (ListingDetails, error)
	QueryListings(ctx context.Context, ids []string) ([]lineitem.Listing, error)
	FetchCommission(ctx context.Context) (CommissionAsset, error)
	Initiate(ctx context.Context, params InitiateParams) (Transaction, error)
	Transition(ctx context.Context, params TransitionParams) (Transaction, error)
	ShowTransaction(ctx context.Context, id string) (Transaction, error)
	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) (Transaction, error)
	CurrentUser(ctx context.Context, userToken string) (User, error)
	UpdateProfile(ctx context.Context, userToken string, upd ProfileUpdate) error
}

// Client talks to the marketplace API over HTTP with retry and breaker
// semantics.
type Client struct {
	BaseURL         string
	ClientID        string
	Token           string
	CommissionAsset string
	HTTP            resilience.HTTPClient
}

var _ API = (*Client)(nil)

func (c *Client) ShowListing(ctx context.Context, id string) (ListingDetails, error) {
	var wire wireListing
	query := url.Values{"id": {id}, "include": {"author"}}
	if err := c.get(ctx, "/v1/api/listings/show", query, "", &wire); err != nil {
		return ListingDetails{}, err
	}
	return wire.toDetails(), nil
}

func (c *Client) QueryListings(ctx context.Context, ids []string) ([]lineitem.Listing, error) {
	var wires []wireListing
	query := url.Values{"ids": {strings.Join(ids, ",")}, "include": {"author"}}
	if err := c.get(ctx, "/v1/api/listings/query", query, "", &wires); err != nil {
		return nil, err
	}
	listings := make([]lineitem.Listing, 0, len(wires))
	for _, w := range wires {
		listings = append(listings, w.toListing())
	}
	return listings, nil
}

func (c *Client) FetchCommission(ctx context.Context) (CommissionAsset, error) {
	var asset CommissionAsset
	query := url.Values{"path": {c.CommissionAsset}}
	if err := c.get(ctx, "/v1/api/assets", query, "", &asset); err != nil {
		return CommissionAsset{}, err
	}
	return asset, nil
}

func (c *Client) Initiate(ctx context.Context, params InitiateParams) (Transaction, error) {
	path := "/v1/api/transactions/initiate"
	if params.Speculative {
		path = "/v1/api/transactions/initiate_speculative"
	}
	body := map[string]any{
		"processAlias": params.ProcessAlias,
		"transition":   params.Transition,
		"params":       params.Params,
	}
	var wire wireTransaction
	if err := c.post(ctx, path, body, "", &wire); err != nil {
		return Transaction{}, err
	}
	return wire.toTransaction(), nil
}

func (c *Client) Transition(ctx context.Context, params TransitionParams) (Transaction, error) {
	path := "/v1/api/transactions/transition"
	if params.Speculative {
		path = "/v1/api/transactions/transition_speculative"
	}
	body := map[string]any{
		"id":         params.ID,
		"transition": params.Transition,
		"params":     params.Params,
	}
	var wire wireTransaction
	if err := c.post(ctx, path, body, "", &wire); err != nil {
		return Transaction{}, err
	}
	return wire.toTransaction(), nil
}

func (c *Client) ShowTransaction(ctx context.Context, id string) (Transaction, error) {
	var wire wireTransaction
	if err := c.get(ctx, "/v1/api/transactions/show", url.Values{"id": {id}}, "", &wire); err != nil {
		return Transaction{}, err
	}
	return wire.toTransaction(), nil
}

func (c *Client) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) (Transaction, error) {
	body := map[string]any{"id": id, "metadata": metadata}
	var wire wireTransaction
	if err := c.post(ctx, "/v1/integration_api/transactions/update_metadata", body, "", &wire); err != nil {
		return Transaction{}, err
	}
	return wire.toTransaction(), nil
}

func (c *Client) CurrentUser(ctx context.Context, userToken string) (User, error) {
	var wire wireUser
	if err := c.get(ctx, "/v1/api/current_user/show", nil, userToken, &wire); err != nil {
		return User{}, err
	}
	return wire.toUser(), nil
}

func (c *Client) UpdateProfile(ctx context.Context, userToken string, upd ProfileUpdate) error {
	return c.post(ctx, "/v1/api/current_user/update_profile", upd, userToken, nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, userToken string, out any) error {
	target := strings.TrimRight(c.BaseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, userToken, out)
}

func (c *Client) post(ctx context.Context, path string, body any, userToken string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	target := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, userToken, out)
}

func (c *Client) do(req *http.Request, userToken string, out any) error {
	token := userToken
	if token == "" {
		token = c.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.ClientID != "" {
		req.Header.Set("X-Client-Id", c.ClientID)
	}

	resp, err := c.HTTP.Do(req.Context(), req)
	if err != nil {
		recordPlatformCall("error")
		return common.NewPlatformError(0, "marketplace API unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		recordPlatformCall("error")
		return common.NewPlatformError(0, "marketplace API read failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordPlatformCall("error")
		return common.NewPlatformError(resp.StatusCode, platformErrorMessage(raw, resp.StatusCode), nil)
	}
	recordPlatformCall("ok")
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return common.NewPlatformError(0, "marketplace API returned malformed JSON", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return common.NewPlatformError(0, "marketplace API returned unexpected payload", err)
	}
	return nil
}

func recordPlatformCall(result string) {
	if obs.PlatformCallTotal != nil {
		obs.PlatformCallTotal.WithLabelValues(result).Inc()
	}
}

func platformErrorMessage(raw []byte, status int) string {
	var body struct {
		Errors []struct {
			Title string `json:"title"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Errors) > 0 && body.Errors[0].Title != "" {
		return body.Errors[0].Title
	}
	return fmt.Sprintf("marketplace API request failed with status %d", status)
}
