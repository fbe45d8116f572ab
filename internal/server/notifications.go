package server

import (
	"net/http"
	"strconv"

	"github.com/baohm88/mycabs/internal/domain"
)

func (h *marketHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	page, pageSize := parsePaging(r)
	q := domain.NotificationsQuery{Page: page, PageSize: pageSize}
	if raw := r.URL.Query().Get("is_read"); raw != "" {
		if isRead, err := strconv.ParseBool(raw); err == nil {
			q.IsRead = &isRead
		}
	}
	items, total, err := h.notif.Get(r.Context(), userID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, page, pageSize)
}

func (h *marketHandler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	updated, err := h.notif.MarkRead(r.Context(), userID, r.PathValue("notification_id"))
	if err != nil {
		businessError(w, err)
		return
	}
	if !updated {
		errorWrite(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}
	writeJSON(w, map[string]bool{"read": true})
}

func (h *marketHandler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.notif.MarkAllRead(r.Context(), userID)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"read": n})
}
