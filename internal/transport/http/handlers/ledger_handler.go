package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/service"
	"github.com/aleixpv/fortuna/internal/transport/http/middleware"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
	log           *slog.Logger
}

func NewLedgerHandler(ledgerService *service.LedgerService, log *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, log: log}
}

type amountInput struct {
	Identifier string          `json:"identifier"`
	Amount     decimal.Decimal `json:"amount"`
	Instrument string          `json:"instrument,omitempty"`
}

// Transaction credits the identified balance.
func (h *LedgerHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	var input amountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.ledgerService.Credit(r.Context(), input.Identifier, input.Amount, input.Instrument)
	if err != nil {
		writeServiceError(w, h.log, "credit", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "transaction completed",
		"user":    user,
	})
}

// SubstractBalance debits the identified balance.
func (h *LedgerHandler) SubstractBalance(w http.ResponseWriter, r *http.Request) {
	var input amountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.ledgerService.Debit(r.Context(), input.Identifier, input.Amount, input.Instrument)
	if err != nil {
		writeServiceError(w, h.log, "debit", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "balance updated",
		"user":    user,
	})
}

// Balance returns the session user's balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionUser(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	balance, err := h.ledgerService.GetBalance(r.Context(), claims.Nickname)
	if err != nil {
		writeServiceError(w, h.log, "get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledgerService.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, h.log, "list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}
