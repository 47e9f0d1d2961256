package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleNormal = "normal"
	RoleStaff  = "staff"
)

type User struct {
	ID             uuid.UUID       `json:"id"`
	DNI            string          `json:"dni"`
	Nickname       string          `json:"nickname"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	Birthdate      time.Time       `json:"birthdate"`
	Balance        decimal.Decimal `json:"balance"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	Role           string          `json:"role"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
