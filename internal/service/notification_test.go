package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baohm88/mycabs/internal/domain"
)

type fakeNotifStore struct {
	mu        sync.Mutex
	seq       int
	rows      map[string]*domain.Notification
	createErr error
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{rows: make(map[string]*domain.Notification)}
}

func (f *fakeNotifStore) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	n.ID = fmt.Sprintf("ntf-%d", f.seq)
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeNotifStore) FindForUser(_ context.Context, userID string, q domain.NotificationsQuery) ([]domain.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID != userID {
			continue
		}
		if q.IsRead != nil && n.IsRead != *q.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotifStore) MarkRead(_ context.Context, userID, notificationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[notificationID]
	if !ok || n.UserID != userID || n.IsRead {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (f *fakeNotifStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	err    error
	user   []*domain.NotifyEvent
	admin  []*domain.NotifyEvent
}

func (f *fakeEvents) PublishUser(_ context.Context, ev *domain.NotifyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.user = append(f.user, ev)
	return nil
}

func (f *fakeEvents) PublishAdmin(_ context.Context, ev *domain.NotifyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, ev)
	return nil
}

func TestPublishPersistsThenPushes(t *testing.T) {
	store := newFakeNotifStore()
	events := &fakeEvents{}
	svc := NewNotificationService(testLogger(), store, events)

	err := svc.Publish(context.Background(), "user-1", domain.NotifWalletLowBalance,
		"Wallet balance is low", "Balance 100 is under the 200000 threshold", nil)
	require.NoError(t, err)

	rows, total, err := svc.Get(context.Background(), "user-1", domain.NotificationsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotifWalletLowBalance, rows[0].Kind)

	require.Len(t, events.user, 1)
	assert.Equal(t, "user-1", events.user[0].UserID)
}

func TestPublishSurvivesPushFailure(t *testing.T) {
	store := newFakeNotifStore()
	events := &fakeEvents{err: errors.New("broker down")}
	svc := NewNotificationService(testLogger(), store, events)

	// the push is best-effort, the persisted row is what counts
	err := svc.Publish(context.Background(), "user-1", domain.NotifWalletLowBalance, "t", "m", nil)
	require.NoError(t, err)

	_, total, err := svc.Get(context.Background(), "user-1", domain.NotificationsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestPublishFailsWhenStoreFails(t *testing.T) {
	store := newFakeNotifStore()
	store.createErr = errors.New("db down")
	events := &fakeEvents{}
	svc := NewNotificationService(testLogger(), store, events)

	err := svc.Publish(context.Background(), "user-1", "k", "t", "m", nil)
	assert.Error(t, err)
	assert.Empty(t, events.user)
}

func TestMarkReadIsScopedToOwner(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewNotificationService(testLogger(), store, &fakeEvents{})

	require.NoError(t, svc.Publish(context.Background(), "user-1", "k", "t", "m", nil))

	var id string
	for k := range store.rows {
		id = k
	}

	ok, err := svc.MarkRead(context.Background(), "user-2", id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.MarkRead(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.True(t, ok)

	// already read
	ok, err = svc.MarkRead(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkAllRead(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewNotificationService(testLogger(), store, &fakeEvents{})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Publish(context.Background(), "user-1", "k", "t", "m", nil))
	}
	require.NoError(t, svc.Publish(context.Background(), "user-2", "k", "t", "m", nil))

	count, err := svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	unread := false
	rows, _, err := svc.Get(context.Background(), "user-1", domain.NotificationsQuery{IsRead: &unread})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
