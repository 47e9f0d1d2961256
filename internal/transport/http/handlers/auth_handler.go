package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/internal/service"
	"github.com/aleixpv/fortuna/internal/transport/http/middleware"
	"github.com/aleixpv/fortuna/pkg/validator"
)

type AuthHandler struct {
	authService  *service.AuthService
	cookieSecure bool
	tokenTTL     time.Duration
	log          *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, cookieSecure bool, tokenTTL time.Duration, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
		tokenTTL:     tokenTTL,
		log:          log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.authService.Register(r.Context(), input); err != nil {
		writeServiceError(w, h.log, "register", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user created"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		var ve *validator.Error
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidCredential):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			h.log.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.tokenTTL.Seconds())))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			// Revocation failure still clears the cookie client-side.
			h.log.Warn("revoking credential failed", "error", err)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]string{"message": "logout"})
}

// Protected returns the session identity, or denies access for anonymous
// requests.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionUser(r.Context())
	if claims == nil {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{
		"id":       claims.UserID,
		"nickname": claims.Nickname,
		"email":    claims.Email,
	}})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
