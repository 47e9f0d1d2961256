package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/aleixpv/fortuna/internal/transport/http/middleware"
)

// ServeWS upgrades an authenticated request to a WebSocket. The session
// credential arrives in the cookie like any other request, so the usual
// session middleware must wrap this handler.
func ServeWS(hub *Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.SessionUser(r.Context())
		if claims == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("ws accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn, userID, log)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
