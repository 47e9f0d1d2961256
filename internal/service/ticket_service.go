package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/internal/repository"
	"github.com/aleixpv/fortuna/pkg/validator"
)

type TicketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

type CreateTicketInput struct {
	UserID  uuid.UUID
	Email   string
	Type    string
	Message string
	Photo   *string
}

// Create opens a ticket in the unresolved state. The reporter email is a
// snapshot taken from the session at creation time.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (uuid.UUID, error) {
	if input.Type == "" {
		return uuid.Nil, &validator.Error{Field: "type", Reason: "is required"}
	}
	if input.Message == "" {
		return uuid.Nil, &validator.Error{Field: "message", Reason: "is required"}
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Email:     input.Email,
		Type:      input.Type,
		Message:   input.Message,
		Photo:     input.Photo,
		Status:    domain.TicketStatusUnresolved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return uuid.Nil, err
	}
	return ticket.ID, nil
}

func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.ticketRepo.List(ctx)
}

func (s *TicketService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != domain.TicketStatusUnresolved && status != domain.TicketStatusResolved {
		return &validator.Error{Field: "status", Reason: "must be unresolved or resolved"}
	}
	return s.ticketRepo.UpdateStatus(ctx, id, status)
}
