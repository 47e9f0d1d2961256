package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aleixpv/fortuna/internal/service"
	"github.com/aleixpv/fortuna/internal/storage"
)

type UserHandler struct {
	userService *service.UserService
	uploads     *storage.DiskStore
	log         *slog.Logger
}

func NewUserHandler(userService *service.UserService, uploads *storage.DiskStore, log *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads, log: log}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Update(r.Context(), input); err != nil {
		writeServiceError(w, h.log, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nickname := r.PathValue("nickname")
	if err := h.userService.Delete(r.Context(), nickname); err != nil {
		writeServiceError(w, h.log, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), input.Email, input.NewPassword); err != nil {
		writeServiceError(w, h.log, "change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// UpdateProfilePicture stores the uploaded image and points the user record
// at it. Multipart fields: profile_picture (file), user_id.
func (h *UserHandler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}

	userID, err := uuid.Parse(r.FormValue("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "profile_picture file is required")
		return
	}
	defer file.Close()

	url, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("saving profile picture failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save file")
		return
	}

	if err := h.userService.UpdateProfilePicture(r.Context(), userID, url); err != nil {
		writeServiceError(w, h.log, "update profile picture", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":        "profile picture updated",
		"profilePicture": url,
	})
}

func (h *UserHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	nickname := r.PathValue("nickname")
	url, err := h.userService.GetProfilePicture(r.Context(), nickname)
	if err != nil {
		writeServiceError(w, h.log, "get profile picture", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profilePicture": url})
}
