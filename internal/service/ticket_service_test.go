package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/pkg/validator"
)

type fakeTicketRepo struct {
	tickets map[uuid.UUID]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[uuid.UUID]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	cp := *ticket
	f.tickets[ticket.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

func TestTicketLifecycle(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo)
	ctx := context.Background()

	userID := uuid.New()
	id, err := svc.Create(ctx, CreateTicketInput{
		UserID:  userID,
		Email:   "pepe@example.com",
		Type:    "payment",
		Message: "deposit not credited",
	})
	require.NoError(t, err)

	tickets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.TicketStatusUnresolved, tickets[0].Status)
	assert.Equal(t, "pepe@example.com", tickets[0].Email)
	assert.Nil(t, tickets[0].Photo)

	require.NoError(t, svc.UpdateStatus(ctx, id, domain.TicketStatusResolved))
	tickets, _ = svc.List(ctx)
	assert.Equal(t, domain.TicketStatusResolved, tickets[0].Status)
}

func TestTicketValidation(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo())
	ctx := context.Background()

	var ve *validator.Error

	_, err := svc.Create(ctx, CreateTicketInput{Message: "no type"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)

	_, err = svc.Create(ctx, CreateTicketInput{Type: "payment"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "message", ve.Field)

	err = svc.UpdateStatus(ctx, uuid.New(), "closed")
	assert.ErrorAs(t, err, &ve)

	err = svc.UpdateStatus(ctx, uuid.New(), domain.TicketStatusResolved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
