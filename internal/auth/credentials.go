package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aleixpv/fortuna/internal/domain"
)

// Claims are the identity assertions embedded in a session credential.
// The password hash is never part of the claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
}

// Denylist records revoked token IDs until their natural expiry, so logout
// takes effect before the credential runs out.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Issuer mints and verifies signed session credentials.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	log      *slog.Logger
}

func NewIssuer(secret string, ttl time.Duration, denylist Denylist, log *slog.Logger) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		log:      log,
	}
}

// Issue mints a credential for the given user with the configured expiry.
func (i *Issuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:   user.ID.String(),
		Nickname: user.Nickname,
		Email:    user.Email,
	})
	return token.SignedString(i.secret)
}

// Verify decodes a credential. Any failure — bad signature, expired, revoked,
// malformed — yields (nil, false): the caller proceeds as anonymous, never
// with an error.
func (i *Issuer) Verify(ctx context.Context, tokenStr string) (*Claims, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	if i.denylist != nil && claims.ID != "" {
		revoked, err := i.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail open: an unreachable denylist must not lock everyone out.
			i.log.Warn("denylist check failed", "error", err)
		} else if revoked {
			return nil, false
		}
	}

	return claims, true
}

// Revoke denylists the credential's token ID for its remaining lifetime.
// Unparseable or already-expired tokens are ignored.
func (i *Issuer) Revoke(ctx context.Context, tokenStr string) error {
	if i.denylist == nil {
		return nil
	}
	claims, ok := i.Verify(ctx, tokenStr)
	if !ok {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return i.denylist.Revoke(ctx, claims.ID, remaining)
}
