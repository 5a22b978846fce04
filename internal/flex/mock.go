package flex

import (
	"context"
	"errors"

	"github.com/noah-isme/backend-pasar/internal/lineitem"
)

// Mock implements API through optional function fields. Unset fields return
// an error so tests fail loudly on unexpected calls.
type Mock struct {
	ShowListingFn     func(ctx context.Context, id string) (ListingDetails, error)
	QueryListingsFn   func(ctx context.Context, ids []string) ([]lineitem.Listing, error)
	FetchCommissionFn func(ctx context.Context) (CommissionAsset, error)
	InitiateFn        func(ctx context.Context, params InitiateParams) (Transaction, error)
	TransitionFn      func(ctx context.Context, params TransitionParams) (Transaction, error)
	ShowTransactionFn func(ctx context.Context, id string) (Transaction, error)
	UpdateMetadataFn  func(ctx context.Context, id string, metadata map[string]any) (Transaction, error)
	CurrentUserFn     func(ctx context.Context, userToken string) (User, error)
	UpdateProfileFn   func(ctx context.Context, userToken string, upd ProfileUpdate) error
}

var _ API = (*Mock)(nil)

var errMockNotConfigured = errors.New("flex: mock call not configured")

func (m *Mock) ShowListing(ctx context.Context, id string) (ListingDetails, error) {
	if m.ShowListingFn == nil {
		return ListingDetails{}, errMockNotConfigured
	}
	return m.ShowListingFn(ctx, id)
}

func (m *Mock) QueryListings(ctx context.Context, ids []string) ([]lineitem.Listing, error) {
	if m.QueryListingsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.QueryListingsFn(ctx, ids)
}

func (m *Mock) FetchCommission(ctx context.Context) (CommissionAsset, error) {
	if m.FetchCommissionFn == nil {
		return CommissionAsset{}, errMockNotConfigured
	}
	return m.FetchCommissionFn(ctx)
}

func (m *Mock) Initiate(ctx context.Context, params InitiateParams) (Transaction, error) {
	if m.InitiateFn == nil {
		return Transaction{}, errMockNotConfigured
	}
	return m.InitiateFn(ctx, params)
}

func (m *Mock) Transition(ctx context.Context, params TransitionParams) (Transaction, error) {
	if m.TransitionFn == nil {
		return Transaction{}, errMockNotConfigured
	}
	return m.TransitionFn(ctx, params)
}

func (m *Mock) ShowTransaction(ctx context.Context, id string) (Transaction, error) {
	if m.ShowTransactionFn == nil {
		return Transaction{}, errMockNotConfigured
	}
	return m.ShowTransactionFn(ctx, id)
}

func (m *Mock) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) (Transaction, error) {
	if m.UpdateMetadataFn == nil {
		return Transaction{}, errMockNotConfigured
	}
	return m.UpdateMetadataFn(ctx, id, metadata)
}

func (m *Mock) CurrentUser(ctx context.Context, userToken string) (User, error) {
	if m.CurrentUserFn == nil {
		return User{}, errMockNotConfigured
	}
	return m.CurrentUserFn(ctx, userToken)
}

func (m *Mock) UpdateProfile(ctx context.Context, userToken string, upd ProfileUpdate) error {
	if m.UpdateProfileFn == nil {
		return errMockNotConfigured
	}
	return m.UpdateProfileFn(ctx, userToken, upd)
}
