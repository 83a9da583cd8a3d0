// Package handlers exposes the classification pipeline over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jask/homeledger/internal/database/repository"
	"github.com/jask/homeledger/internal/rules"
	"github.com/jask/homeledger/internal/service"
)

type Handler struct {
	Rules        *service.RuleService
	Apply        *service.ApplyService
	Recurring    *service.RecurringService
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
	Log          *logrus.Logger
}

// Register wires all routes onto the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/rules", h.ListRules).Methods("GET")
	r.HandleFunc("/rules", h.CreateRule).Methods("POST")
	r.HandleFunc("/rules/{id}", h.UpdateRule).Methods("PATCH")
	r.HandleFunc("/rules/{id}", h.DeleteRule).Methods("DELETE")
	r.HandleFunc("/rules/apply", h.ApplyRules).Methods("POST")
	r.HandleFunc("/rules/preview", h.PreviewRules).Methods("POST")

	r.HandleFunc("/recurring/detect", h.DetectRecurring).Methods("POST")
	r.HandleFunc("/recurring/confirm", h.ConfirmRecurring).Methods("POST")
	r.HandleFunc("/recurring", h.ListRecurring).Methods("GET")
	r.HandleFunc("/recurring/{id}", h.UpdateRecurring).Methods("PATCH")
	r.HandleFunc("/recurring/{id}", h.DeleteRecurring).Methods("DELETE")

	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/categories", h.CreateCategory).Methods("POST")

	r.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	r.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PATCH")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps validation failures to field-level 400s and
// everything else to a single 500 banner message.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *rules.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Msg,
			"field": verr.Field,
		})
		return
	}
	h.Log.WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
