package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TicketStatusUnresolved = "unresolved"
	TicketStatusResolved   = "resolved"
)

type Ticket struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Photo     *string   `json:"photo,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
