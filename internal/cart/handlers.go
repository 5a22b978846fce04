package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pasar/internal/common"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the caller's current cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	cart, err := h.Svc.Get(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"cart":  cart,
		"count": Count(cart),
	}})
}

// AddOrUpdate adds, updates or removes a single cart entry.
func (h *Handler) AddOrUpdate(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload AddOrUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	cart, err := h.Svc.AddOrUpdate(r.Context(), token, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"cart":  cart,
		"count": Count(cart),
	}})
}

// RemoveGroup removes one author and delivery method group from the cart.
func (h *Handler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	authorID := chi.URLParam(r, "authorId")
	deliveryMethod := chi.URLParam(r, "deliveryMethod")
	cart, err := h.Svc.RemoveGroup(r.Context(), token, authorID, deliveryMethod)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"cart":  cart,
		"count": Count(cart),
	}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "authorId, listingId and deliveryMethod are required", nil)
		return
	}
	common.WriteError(w, err)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
