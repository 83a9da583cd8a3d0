package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jask/homeledger/internal/database/repository"
	"github.com/jask/homeledger/internal/service"
)

type recurringJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MerchantName *string   `json:"merchant_name,omitempty"`
	AmountCents  int64     `json:"amount_cents"`
	Frequency    string    `json:"frequency"`
	IsActive     bool      `json:"is_active"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecurringJSON(rec repository.RecurringTransaction) recurringJSON {
	return recurringJSON{
		ID:           rec.ID,
		Name:         rec.Name,
		MerchantName: rec.MerchantName,
		AmountCents:  rec.AmountCents,
		Frequency:    rec.Frequency,
		IsActive:     rec.IsActive,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt,
	}
}

// DetectRecurring mines the recent history and returns candidates that are
// not already tracked. Nothing is saved until /recurring/confirm.
func (h *Handler) DetectRecurring(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.Recurring.Detect(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (h *Handler) ConfirmRecurring(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Candidates []service.RecurringCandidate `json:"candidates"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.Recurring.Confirm(r.Context(), payload.Candidates)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]recurringJSON, 0, len(saved))
	for _, rec := range saved {
		out = append(out, toRecurringJSON(rec))
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	list, err := h.Recurring.Recurring.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]recurringJSON, 0, len(list))
	for _, rec := range list {
		out = append(out, toRecurringJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload struct {
		IsActive *bool `json:"is_active"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.IsActive == nil {
		writeError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	ok, err := h.Recurring.Recurring.SetActive(r.Context(), id, *payload.IsActive)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "recurring transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": *payload.IsActive})
}

func (h *Handler) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ok, err := h.Recurring.Recurring.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "recurring transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
