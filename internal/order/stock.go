package order

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/noah-isme/backend-pasar/internal/flex"
	"github.com/noah-isme/backend-pasar/internal/lineitem"
	"github.com/noah-isme/backend-pasar/internal/obs"
)

// Cart orders hold their per-listing stock in child transactions running the
// cart stock process, linked to the parent purchase transaction through
// protected data.
const (
	ProcessAliasCartStock = "cart-stock-process/release-1"

	TransitionReserveStock            = "transition/reserve-stock"
	TransitionConfirmStock            = "transition/confirm-stock"
	TransitionUpdateChildTransactions = "transition/update-child-transactions"
)

// CreateStockReservations initiates one stock reservation child transaction
// per ordered listing and records their ids on the parent transaction. The
// parent is returned unchanged when it carries no ordered products.
func (s *Service) CreateStockReservations(ctx context.Context, tx flex.Transaction) (flex.Transaction, error) {
	ordered, ok := orderedProductsFromTransaction(tx)
	if !ok || len(ordered.Listings) == 0 {
		return tx, nil
	}

	ids := make([]string, 0, len(ordered.Listings))
	for id := range ordered.Listings {
		ids = append(ids, id)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		children = make(map[string]any, len(ids))
		firstErr error
	)
	for _, listingID := range ids {
		wg.Add(1)
		go func(listingID string, quantity float64) {
			defer wg.Done()
			child, err := s.Platform.Initiate(ctx, flex.InitiateParams{
				ProcessAlias: ProcessAliasCartStock,
				Transition:   TransitionReserveStock,
				Params: map[string]any{
					"listingId":                listingID,
					"stockReservationQuantity": quantity,
					"protectedData": map[string]any{
						"parentTransactionId": tx.ID,
					},
				},
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			children[listingID] = child.ID
		}(listingID, ordered.Listings[listingID].Quantity)
	}
	wg.Wait()
	if firstErr != nil {
		recordStockReservation("error")
		return flex.Transaction{}, firstErr
	}

	protectedData := make(map[string]any, len(tx.ProtectedData)+1)
	for k, v := range tx.ProtectedData {
		protectedData[k] = v
	}
	protectedData["childTransactions"] = children

	updated, err := s.Platform.Transition(ctx, flex.TransitionParams{
		ID:         tx.ID,
		Transition: TransitionUpdateChildTransactions,
		Params:     map[string]any{"protectedData": protectedData},
	})
	if err != nil {
		recordStockReservation("error")
		return flex.Transaction{}, err
	}
	recordStockReservation("ok")
	s.Logger.Info().
		Str("transaction_id", tx.ID).
		Int("child_count", len(children)).
		Msg("stock reservations created")
	return updated, nil
}

// ConfirmStockReservations transitions every child stock reservation to
// confirmed and marks the parent's metadata accordingly.
func (s *Service) ConfirmStockReservations(ctx context.Context, tx flex.Transaction) (flex.Transaction, error) {
	children := childTransactionIDs(tx)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, childID := range children {
		wg.Add(1)
		go func(childID string) {
			defer wg.Done()
			_, err := s.Platform.Transition(ctx, flex.TransitionParams{
				ID:         childID,
				Transition: TransitionConfirmStock,
				Params:     map[string]any{},
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(childID)
	}
	wg.Wait()
	if firstErr != nil {
		return flex.Transaction{}, firstErr
	}

	if _, err := s.Platform.UpdateMetadata(ctx, tx.ID, map[string]any{
		"childrenTransactionStockConfirmed": true,
	}); err != nil {
		return flex.Transaction{}, err
	}
	s.Logger.Info().
		Str("transaction_id", tx.ID).
		Int("child_count", len(children)).
		Msg("stock reservations confirmed")
	return tx, nil
}

func recordStockReservation(result string) {
	if obs.StockReservationTotal != nil {
		obs.StockReservationTotal.WithLabelValues(result).Inc()
	}
}

func orderedProductsFromTransaction(tx flex.Transaction) (lineitem.OrderedProducts, bool) {
	raw, ok := tx.ProtectedData["orderedProducts"]
	if !ok || raw == nil {
		return lineitem.OrderedProducts{}, false
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return lineitem.OrderedProducts{}, false
	}
	var ordered lineitem.OrderedProducts
	if err := json.Unmarshal(encoded, &ordered); err != nil {
		return lineitem.OrderedProducts{}, false
	}
	return ordered, true
}

func childTransactionIDs(tx flex.Transaction) []string {
	raw, ok := tx.ProtectedData["childTransactions"].(map[string]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
