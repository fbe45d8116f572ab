package service

import (
	"context"
	"log/slog"

	"github.com/baohm88/mycabs/internal/domain"
)

type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindForUser(ctx context.Context, userID string, q domain.NotificationsQuery) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// EventPublisher carries notification events to the realtime side (the
// notify-service consumes them off the queue and pushes over websocket).
type EventPublisher interface {
	PublishUser(ctx context.Context, ev *domain.NotifyEvent) error
	PublishAdmin(ctx context.Context, ev *domain.NotifyEvent) error
}

// NotificationService persists every notification first and then hands it to
// the realtime channel. The persisted row is the source of truth; the push is
// best-effort.
type NotificationService struct {
	slogger *slog.Logger
	store   NotificationStore
	events  EventPublisher
}

func NewNotificationService(slogger *slog.Logger, store NotificationStore, events EventPublisher) *NotificationService {
	return &NotificationService{slogger: slogger, store: store, events: events}
}

func (s *NotificationService) Publish(ctx context.Context, userID, kind, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	err := s.events.PublishUser(ctx, &domain.NotifyEvent{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	})
	if err != nil {
		s.slogger.Warn("cannot publish notification event", "action", "publish notification", "error", err)
	}
	return nil
}

// TxCreated implements AdminRealtime over the admin broadcast channel.
func (s *NotificationService) TxCreated(ctx context.Context, tx *domain.Transaction) error {
	return s.events.PublishAdmin(ctx, &domain.NotifyEvent{
		Kind:    domain.NotifTxCreated,
		Title:   "Transaction recorded",
		Message: string(tx.Type) + " " + string(tx.Status),
		Data: map[string]any{
			"txId":      tx.ID,
			"type":      tx.Type,
			"status":    tx.Status,
			"amount":    tx.Amount,
			"companyId": tx.CompanyID,
		},
	})
}

func (s *NotificationService) Get(ctx context.Context, userID string, q domain.NotificationsQuery) ([]domain.Notification, int64, error) {
	return s.store.FindForUser(ctx, userID, q)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	return s.store.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
