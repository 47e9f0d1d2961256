package ws

import (
	"log/slog"

	"github.com/aleixpv/fortuna/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
	log *slog.Logger
}

func NewHubNotifier(hub *Hub, log *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

func (n *HubNotifier) NotifyBalanceChanged(user *domain.User, tx *domain.Transaction) {
	evt, err := NewEvent(EventTypeBalanceUpdated, BalancePayload{
		UserID:          user.ID,
		Nickname:        user.Nickname,
		Balance:         user.Balance,
		Amount:          tx.Amount,
		TransactionType: tx.Type,
	})
	if err != nil {
		n.log.Error("ws notifier marshal failed", "error", err)
		return
	}
	n.hub.BroadcastToUser(user.ID, evt)
}
