package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tomasvera/debtwise/internal/service"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
}

// NewHandler creates a handler over the given service
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetState returns the full financial snapshot
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.State())
}

// GetProjections returns ranked payoff projections
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Projections())
}

// GetReminders returns the active reminder set for today
func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Reminders())
}

// CreateDebt adds a new debt
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var input service.DebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	debt, err := h.svc.AddDebt(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, debt)
}

// UpdateDebt replaces an existing debt's fields
func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var input service.DebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	debt, err := h.svc.UpdateDebt(r.Context(), id, input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, debt)
}

// DeleteDebt removes a debt
func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteDebt(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreatePayment records a payment against a debt
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var input service.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	payment, err := h.svc.RecordPayment(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

// CreateExpense adds a recurring expense
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var input service.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	expense, err := h.svc.AddExpense(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// DeleteExpense removes a recurring expense
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteExpense(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateIncome adds an income source
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var input service.IncomeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	income, err := h.svc.AddIncome(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, income)
}

// Presence records a foreground heartbeat from a client session
func (h *Handler) Presence(w http.ResponseWriter, r *http.Request) {
	h.svc.MarkPresent()
	w.WriteHeader(http.StatusNoContent)
}
