package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/homeledger/internal/category"
	"github.com/jask/homeledger/internal/database/repository"
)

// ListCategories returns the built-in taxonomy with custom categories
// merged in.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	custom, err := h.Categories.ListValues(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	type groupJSON struct {
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories"`
	}
	merged := category.Merged(custom)
	out := make([]groupJSON, 0, len(merged))
	for _, g := range merged {
		out = append(out, groupJSON{Name: g.Name, Subcategories: g.Subcategories})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	value := strings.TrimSpace(payload.Value)
	if !category.Valid(value) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "must be \"Group\" or \"Group > Subcategory\"",
			"field": "value",
		})
		return
	}

	c := repository.Category{ID: uuid.NewString(), Value: value}
	if err := h.Categories.Insert(r.Context(), c); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID, "value": c.Value})
}
