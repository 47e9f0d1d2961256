package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/auth"
	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/internal/repository"
	"github.com/aleixpv/fortuna/pkg/validator"
)

type AuthService struct {
	userRepo   repository.UserRepository
	issuer     *auth.Issuer
	hashParams auth.HashParams
}

func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer, hashParams auth.HashParams) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		issuer:     issuer,
		hashParams: hashParams,
	}
}

type RegisterInput struct {
	DNI       string `json:"dni"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Birthdate string `json:"birthdate"`
}

type LoginInput struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Register validates every field, enforces nickname and DNI uniqueness and
// inserts the new user with a zero balance. Validation fails fast on the
// first offending field.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	if err := validator.DNI(input.DNI); err != nil {
		return uuid.Nil, err
	}
	if err := validator.Nickname(input.Nickname); err != nil {
		return uuid.Nil, err
	}
	if err := validator.Email(input.Email); err != nil {
		return uuid.Nil, err
	}
	if err := validator.Password(input.Password); err != nil {
		return uuid.Nil, err
	}
	if err := validator.PersonName("name", input.Name); err != nil {
		return uuid.Nil, err
	}
	if err := validator.PersonName("surname", input.Surname); err != nil {
		return uuid.Nil, err
	}
	birthdate, err := validator.Birthdate(input.Birthdate)
	if err != nil {
		return uuid.Nil, err
	}

	existing, err := s.userRepo.GetByNickname(ctx, input.Nickname)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, domain.ErrDuplicateIdentity
	}

	existing, err = s.userRepo.GetByDNI(ctx, input.DNI)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, domain.ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(input.Password, s.hashParams)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		DNI:          input.DNI,
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Surname:      input.Surname,
		Birthdate:    birthdate,
		Balance:      decimal.Zero,
		Role:         domain.RoleNormal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// Login verifies the nickname/password pair and mints a session credential.
// The returned user carries no password hash, and neither do the claims.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if err := validator.Nickname(input.Nickname); err != nil {
		return nil, "", err
	}
	if input.Password == "" {
		return nil, "", &validator.Error{Field: "password", Reason: "is required"}
	}

	user, err := s.userRepo.GetByNickname(ctx, input.Nickname)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", domain.ErrNotFound
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash, s.hashParams) {
		return nil, "", domain.ErrInvalidCredential
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issuing credential: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Logout revokes the credential server-side so it stops verifying before its
// natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.issuer.Revoke(ctx, token)
}
