package domain

import "time"

const (
	NotifWalletLowBalance = "wallet.low_balance"
	NotifTxCreated        = "tx.created"
)

type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// NotifyEvent is the wire shape published to the notifications queue and
// pushed over the websocket hubs.
type NotifyEvent struct {
	UserID  string         `json:"user_id,omitempty"` // empty for admin broadcast
	Kind    string         `json:"kind"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

type NotificationsQuery struct {
	Page     int
	PageSize int
	IsRead   *bool
}
