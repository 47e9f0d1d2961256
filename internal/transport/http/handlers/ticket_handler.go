package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aleixpv/fortuna/internal/service"
	"github.com/aleixpv/fortuna/internal/storage"
	"github.com/aleixpv/fortuna/internal/transport/http/middleware"
)

type TicketHandler struct {
	ticketService *service.TicketService
	uploads       *storage.DiskStore
	log           *slog.Logger
}

func NewTicketHandler(ticketService *service.TicketService, uploads *storage.DiskStore, log *slog.Logger) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, uploads: uploads, log: log}
}

// Create opens a ticket for the session user. Multipart fields: type,
// message, photo (optional file).
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionUser(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}

	input := service.CreateTicketInput{
		UserID:  userID,
		Email:   claims.Email,
		Type:    r.FormValue("type"),
		Message: r.FormValue("message"),
	}

	// Photo attachment is optional. The file write and the row insert are
	// independent steps: a failure after the write leaves an orphaned file,
	// nothing worse.
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		url, err := h.uploads.Save(file, header.Filename)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFileType) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.log.Error("saving ticket photo failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not save file")
			return
		}
		input.Photo = &url
	}

	id, err := h.ticketService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, "create ticket", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "ticket created",
		"ticketId": id,
	})
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.ticketService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, "list tickets", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

// UpdateStatus moves a ticket between the unresolved and resolved states.
func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ticketService.UpdateStatus(r.Context(), id, input.Status); err != nil {
		writeServiceError(w, h.log, "update ticket status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket updated"})
}
