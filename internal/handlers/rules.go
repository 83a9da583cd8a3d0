package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jask/homeledger/internal/database/repository"
)

type ruleJSON struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MatchField     string    `json:"match_field"`
	MatchType      string    `json:"match_type"`
	MatchValue     string    `json:"match_value"`
	Action         string    `json:"action"`
	CategoryString *string   `json:"category_string,omitempty"`
	NegateAmount   bool      `json:"negate_amount"`
	Priority       int       `json:"priority"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func toRuleJSON(r repository.Rule) ruleJSON {
	return ruleJSON{
		ID:             r.ID,
		Name:           r.Name,
		MatchField:     r.MatchField,
		MatchType:      r.MatchType,
		MatchValue:     r.MatchValue,
		Action:         string(r.Action),
		CategoryString: r.CategoryString,
		NegateAmount:   r.NegateAmount,
		Priority:       r.Priority,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
	}
}

type rulePayload struct {
	Name           string  `json:"name"`
	MatchField     string  `json:"match_field"`
	MatchType      string  `json:"match_type"`
	MatchValue     string  `json:"match_value"`
	Action         string  `json:"action"`
	CategoryString *string `json:"category_string"`
	NegateAmount   bool    `json:"negate_amount"`
	Priority       int     `json:"priority"`
	IsActive       *bool   `json:"is_active"`
}

func (p rulePayload) toRule() repository.Rule {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	action := repository.RuleAction(p.Action)
	if p.Action == "" {
		action = repository.ActionCategorize
	}
	return repository.Rule{
		Name:           p.Name,
		MatchField:     p.MatchField,
		MatchType:      p.MatchType,
		MatchValue:     p.MatchValue,
		Action:         action,
		CategoryString: p.CategoryString,
		NegateAmount:   p.NegateAmount,
		Priority:       p.Priority,
		IsActive:       active,
	}
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	list, err := h.Rules.Rules.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]ruleJSON, 0, len(list))
	for _, rule := range list {
		out = append(out, toRuleJSON(rule))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var p rulePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, similar, err := h.Rules.Create(r.Context(), p.toRule())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"rule": toRuleJSON(created)}
	if similar != nil {
		resp["warning"] = "a similar rule already exists: " + similar.Name
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	current, err := h.Rules.Rules.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}

	// Patch semantics: start from the stored rule, overlay provided fields.
	p := rulePayload{
		Name:           current.Name,
		MatchField:     current.MatchField,
		MatchType:      current.MatchType,
		MatchValue:     current.MatchValue,
		Action:         string(current.Action),
		CategoryString: current.CategoryString,
		NegateAmount:   current.NegateAmount,
		Priority:       current.Priority,
	}
	active := current.IsActive
	p.IsActive = &active
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule := p.toRule()
	rule.ID = id
	updated, err := h.Rules.Update(r.Context(), rule)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, toRuleJSON(*updated))
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ok, err := h.Rules.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyRules(w http.ResponseWriter, r *http.Request) {
	res, err := h.Apply.ApplyAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PreviewRules(w http.ResponseWriter, r *http.Request) {
	previews, err := h.Apply.Preview(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previews)
}
