package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleixpv/fortuna/internal/domain"
)

// fakeLedgerRepo mirrors the store contract: debits are a single conditional
// check-and-decrement under a lock, so concurrent calls behave like the
// database's atomic update.
type fakeLedgerRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by both dni and nickname
	txs   []domain.Transaction
}

func newFakeLedgerRepo(users ...*domain.User) *fakeLedgerRepo {
	r := &fakeLedgerRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		r.users[u.DNI] = u
		r.users[u.Nickname] = u
	}
	return r
}

func (r *fakeLedgerRepo) lookup(key domain.LookupKey) *domain.User {
	u, ok := r.users[key.Value]
	if !ok {
		return nil
	}
	if key.Kind == domain.KeyNationalID && u.DNI != key.Value {
		return nil
	}
	if key.Kind == domain.KeyNickname && u.Nickname != key.Value {
		return nil
	}
	return u
}

func (r *fakeLedgerRepo) Credit(_ context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.lookup(key)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	u.Balance = u.Balance.Add(amount)
	r.txs = append(r.txs, domain.Transaction{ID: uuid.New(), UserID: u.ID, Amount: amount, Instrument: instrument, Type: domain.TransactionDeposit})
	cp := *u
	return &cp, nil
}

func (r *fakeLedgerRepo) Debit(_ context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.lookup(key)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if u.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(amount)
	r.txs = append(r.txs, domain.Transaction{ID: uuid.New(), UserID: u.ID, Amount: amount, Instrument: instrument, Type: domain.TransactionWithdrawal})
	cp := *u
	return &cp, nil
}

func (r *fakeLedgerRepo) GetBalance(_ context.Context, key domain.LookupKey) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.lookup(key)
	if u == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return u.Balance, nil
}

func (r *fakeLedgerRepo) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Transaction(nil), r.txs...), nil
}

func ledgerUser(balance int64) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		DNI:      "12345678Z",
		Nickname: "pepe77",
		Balance:  decimal.NewFromInt(balance),
	}
}

func TestCreditAmountPolicy(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo(ledgerUser(100)), nil)
	ctx := context.Background()

	_, err := svc.Credit(ctx, "pepe77", decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Credit(ctx, "pepe77", decimal.NewFromInt(-5), "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	user, err := svc.Credit(ctx, "pepe77", decimal.NewFromInt(10), "card-1")
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(110)))
	assert.Empty(t, user.PasswordHash)
}

func TestDebitAmountPolicy(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo(ledgerUser(100)), nil)
	ctx := context.Background()

	// Zero is rejected for debits too, same policy as credits.
	_, err := svc.Debit(ctx, "pepe77", decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Debit(ctx, "pepe77", decimal.NewFromInt(150), "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	user, err := svc.Debit(ctx, "pepe77", decimal.NewFromInt(40), "")
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(60)))
}

func TestDualKeyLookup(t *testing.T) {
	repo := newFakeLedgerRepo(ledgerUser(100))
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	// By DNI.
	user, err := svc.Credit(ctx, "12345678Z", decimal.NewFromInt(5), "")
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(105)))

	// By nickname.
	balance, err := svc.GetBalance(ctx, "pepe77")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(105)))

	_, err = svc.GetBalance(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionLogWritten(t *testing.T) {
	repo := newFakeLedgerRepo(ledgerUser(100))
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	_, err := svc.Credit(ctx, "pepe77", decimal.NewFromInt(10), "card-1")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, "pepe77", decimal.NewFromInt(5), "card-1")
	require.NoError(t, err)

	txs, err := svc.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TransactionDeposit, txs[0].Type)
	assert.Equal(t, domain.TransactionWithdrawal, txs[1].Type)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	const (
		startingBalance = 100
		debitAmount     = 30
		attempts        = 20
	)

	repo := newFakeLedgerRepo(ledgerUser(startingBalance))
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Debit(ctx, "pepe77", decimal.NewFromInt(debitAmount), "")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	// floor(100/30) = 3 debits can ever succeed.
	assert.LessOrEqual(t, successes, startingBalance/debitAmount)

	balance, err := svc.GetBalance(ctx, "pepe77")
	require.NoError(t, err)
	expected := decimal.NewFromInt(startingBalance - int64(successes)*debitAmount)
	assert.True(t, balance.Equal(expected), "balance %s, expected %s", balance, expected)
	assert.False(t, balance.IsNegative())
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Transaction
}

func (n *recordingNotifier) NotifyBalanceChanged(_ *domain.User, tx *domain.Transaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *tx)
}

func TestNotifierReceivesBalanceEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewLedgerService(newFakeLedgerRepo(ledgerUser(100)), notifier)

	_, err := svc.Credit(context.Background(), "pepe77", decimal.NewFromInt(10), "card-1")
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.TransactionDeposit, notifier.events[0].Type)
	assert.True(t, notifier.events[0].Amount.Equal(decimal.NewFromInt(10)))
}
