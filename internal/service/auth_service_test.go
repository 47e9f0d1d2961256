package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleixpv/fortuna/internal/auth"
	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/pkg/validator"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Nickname == user.Nickname || u.DNI == user.DNI {
			return domain.ErrDuplicateIdentity
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByNickname(_ context.Context, nickname string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Nickname == nickname {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByDNI(_ context.Context, dni string) (*domain.User, error) {
	for _, u := range f.users {
		if u.DNI == dni {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.DNI == user.DNI {
			u.Nickname = user.Nickname
			u.Email = user.Email
			u.Name = user.Name
			u.Surname = user.Surname
			u.Balance = user.Balance
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, email, hash string) error {
	for _, u := range f.users {
		if u.Email == email {
			u.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfilePicture(_ context.Context, id uuid.UUID, path string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ProfilePicture = &path
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, nickname string) error {
	for id, u := range f.users {
		if u.Nickname == nickname {
			delete(f.users, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Small work factor keeps the tests fast.
var testHashParams = auth.HashParams{Time: 1, MemoryKB: 8, Threads: 1}

func newTestAuthService(repo *fakeUserRepo) (*AuthService, *auth.Issuer) {
	issuer := auth.NewIssuer("test-secret", time.Hour, nil, slog.Default())
	return NewAuthService(repo, issuer, testHashParams), issuer
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		DNI:       "12345678Z",
		Nickname:  "pepe77",
		Email:     "pepe@example.com",
		Password:  "Abcdef1!",
		Name:      "Pepe",
		Surname:   "Garcia",
		Birthdate: "1990-05-20",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc, issuer := newTestAuthService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "Abcdef1!", stored.PasswordHash)
	assert.True(t, stored.Balance.IsZero())
	assert.Equal(t, domain.RoleNormal, stored.Role)

	user, token, err := svc.Login(ctx, LoginInput{Nickname: "pepe77", Password: "Abcdef1!"})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash, "login result must not leak the hash")
	assert.Equal(t, id, user.ID)

	claims, ok := issuer.Verify(ctx, token)
	require.True(t, ok)
	assert.Equal(t, "pepe77", claims.Nickname)
	assert.Equal(t, id.String(), claims.UserID)
}

func TestRegisterDuplicateNickname(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	second := validRegisterInput()
	second.DNI = "00000000T"
	_, err = svc.Register(ctx, second)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestRegisterDuplicateDNI(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	second := validRegisterInput()
	second.Nickname = "otro77"
	_, err = svc.Register(ctx, second)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestRegisterValidationFailsFast(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	input := validRegisterInput()
	input.DNI = "12345678T" // wrong control letter
	input.Password = "bad"  // also invalid, but DNI is reported first

	_, err := svc.Register(context.Background(), input)
	var ve *validator.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dni", ve.Field)
	assert.Empty(t, repo.users)
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Nickname: "nadie", Password: "Abcdef1!"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.Login(ctx, LoginInput{Nickname: "pepe77", Password: "Wrong1!x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, _, err = svc.Login(ctx, LoginInput{Nickname: "pepe77", Password: ""})
	var ve *validator.Error
	assert.ErrorAs(t, err, &ve)
}
