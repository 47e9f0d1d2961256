package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/internal/repository"
)

// Notifier pushes balance events to connected clients. Implementations must
// not block.
type Notifier interface {
	NotifyBalanceChanged(user *domain.User, tx *domain.Transaction)
}

// LedgerService mutates and queries balances. Identifiers may be either a
// national id or a nickname; the kind is resolved once per call.
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	notifier   Notifier
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, notifier Notifier) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, notifier: notifier}
}

// Credit adds amount to the identified balance. Amounts of zero or less are
// rejected.
func (s *LedgerService) Credit(ctx context.Context, identifier string, amount decimal.Decimal, instrument string) (*domain.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	user, err := s.ledgerRepo.Credit(ctx, domain.ResolveKey(identifier), amount, instrument)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	s.notify(user, amount, instrument, domain.TransactionDeposit)
	return user, nil
}

// Debit subtracts amount from the identified balance. The same non-positive
// amount policy as Credit applies, and the check-and-decrement happens as one
// conditional statement in the store.
func (s *LedgerService) Debit(ctx context.Context, identifier string, amount decimal.Decimal, instrument string) (*domain.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	user, err := s.ledgerRepo.Debit(ctx, domain.ResolveKey(identifier), amount, instrument)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	s.notify(user, amount, instrument, domain.TransactionWithdrawal)
	return user, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, identifier string) (decimal.Decimal, error) {
	return s.ledgerRepo.GetBalance(ctx, domain.ResolveKey(identifier))
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.ledgerRepo.ListTransactions(ctx)
}

func (s *LedgerService) notify(user *domain.User, amount decimal.Decimal, instrument, txType string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyBalanceChanged(user, &domain.Transaction{
		UserID:     user.ID,
		Amount:     amount,
		Instrument: instrument,
		Type:       txType,
	})
}
