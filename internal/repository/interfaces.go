package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
	GetByDNI(ctx context.Context, dni string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update writes the whole mutable subset, balance included, in one statement.
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, path string) error
	Delete(ctx context.Context, nickname string) error
}

// LedgerRepository mutates balances atomically: each credit or debit is a
// single conditional update plus a transaction-log insert in one database
// transaction. Debit never lets the balance go negative, even under
// concurrent calls.
type LedgerRepository interface {
	Credit(ctx context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error)
	Debit(ctx context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error)
	GetBalance(ctx context.Context, key domain.LookupKey) (decimal.Decimal, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
