package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/auth"
	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/internal/repository"
	"github.com/aleixpv/fortuna/pkg/validator"
)

// UserService covers account management outside the register/login flow:
// contact-data updates, password changes, deletion and profile pictures.
type UserService struct {
	userRepo   repository.UserRepository
	hashParams auth.HashParams
}

func NewUserService(userRepo repository.UserRepository, hashParams auth.HashParams) *UserService {
	return &UserService{userRepo: userRepo, hashParams: hashParams}
}

type UpdateUserInput struct {
	DNI      string          `json:"dni"`
	Nickname string          `json:"nickname"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Surname  string          `json:"surname"`
	Balance  decimal.Decimal `json:"balance"`
}

// Update validates the mutable subset and writes all fields, balance
// included, in one statement keyed by DNI.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) error {
	if err := validator.DNI(input.DNI); err != nil {
		return err
	}
	if err := validator.Nickname(input.Nickname); err != nil {
		return err
	}
	if err := validator.Email(input.Email); err != nil {
		return err
	}
	if err := validator.PersonName("name", input.Name); err != nil {
		return err
	}
	if err := validator.PersonName("surname", input.Surname); err != nil {
		return err
	}

	user := &domain.User{
		DNI:      input.DNI,
		Nickname: input.Nickname,
		Email:    input.Email,
		Name:     input.Name,
		Surname:  input.Surname,
		Balance:  input.Balance,
	}
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) ChangePassword(ctx context.Context, email, newPassword string) error {
	if err := validator.Email(email); err != nil {
		return err
	}
	if err := validator.Password(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.hashParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, email, hash)
}

func (s *UserService) Delete(ctx context.Context, nickname string) error {
	if err := validator.Nickname(nickname); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, nickname)
}

// UpdateProfilePicture overwrites the picture path unconditionally, keyed by
// the internal id.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID uuid.UUID, path string) error {
	return s.userRepo.UpdateProfilePicture(ctx, userID, path)
}

// GetProfilePicture returns the stored picture path for a nickname.
func (s *UserService) GetProfilePicture(ctx context.Context, nickname string) (string, error) {
	user, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		return "", err
	}
	if user == nil || user.ProfilePicture == nil {
		return "", domain.ErrNotFound
	}
	return *user.ProfilePicture, nil
}

// List returns all users with the password hash stripped.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
