package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
)

// Transaction is an append-only log entry of a balance-affecting event.
// It is written in the same database transaction as the balance mutation.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Instrument string          `json:"instrument,omitempty"`
	Type       string          `json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`
}
