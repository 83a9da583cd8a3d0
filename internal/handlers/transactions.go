package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jask/homeledger/internal/category"
	"github.com/jask/homeledger/internal/database/repository"
)

type transactionJSON struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Date         string    `json:"date"`
	AmountCents  int64     `json:"amount_cents"`
	Name         string    `json:"name"`
	MerchantName *string   `json:"merchant_name,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Pending      bool      `json:"pending"`
	IsIgnored    bool      `json:"is_ignored"`
	Notes        *string   `json:"notes,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toTransactionJSON(t repository.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Date:         t.Date.Format("2006-01-02"),
		AmountCents:  t.AmountCents,
		Name:         t.Name,
		MerchantName: t.MerchantName,
		Category:     t.Category,
		Pending:      t.Pending,
		IsIgnored:    t.IsIgnored,
		Notes:        t.Notes,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.TransactionFilters{
		AccountID:      q.Get("account_id"),
		Category:       q.Get("category"),
		Search:         q.Get("search"),
		IncludeIgnored: q.Get("include_ignored") == "true",
	}
	if m := q.Get("month"); m != "" {
		month, err := time.Parse("2006-01", m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		f.Month = month
	}

	list, err := h.Transactions.List(r.Context(), f)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]transactionJSON, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateTransaction applies a manual edit: category, ignore flag, or notes.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload struct {
		Category  *string `json:"category"`
		IsIgnored *bool   `json:"is_ignored"`
		Notes     *string `json:"notes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	current, err := h.Transactions.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	if payload.Category != nil {
		if *payload.Category != "" && !category.Valid(*payload.Category) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "must be \"Group\" or \"Group > Subcategory\"",
				"field": "category",
			})
			return
		}
		cat := payload.Category
		if *payload.Category == "" {
			cat = nil // clearing the category
		}
		if err := h.Transactions.UpdateCategory(r.Context(), id, cat, nil); err != nil {
			h.writeServiceError(w, err)
			return
		}
	}
	if payload.IsIgnored != nil {
		if err := h.Transactions.SetIgnored(r.Context(), id, *payload.IsIgnored); err != nil {
			h.writeServiceError(w, err)
			return
		}
	}
	if payload.Notes != nil {
		if err := h.Transactions.UpdateNotes(r.Context(), id, payload.Notes); err != nil {
			h.writeServiceError(w, err)
			return
		}
	}

	updated, err := h.Transactions.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(*updated))
}
