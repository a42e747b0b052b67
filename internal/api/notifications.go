package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/notification"
)

func listNotificationsHandler(store notification.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		q := r.URL.Query()

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		filter := notification.ListFilter{
			UnreadOnly: q.Get("unread") == "true",
			Category:   notification.Category(q.Get("category")),
			Limit:      limit,
			Offset:     offset,
		}

		items, total, err := store.ListByUser(r.Context(), actor.UserID, filter)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		unread, err := store.CountUnread(r.Context(), actor.UserID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]NotificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}

		writeJSON(w, http.StatusOK, NotificationListResponse{
			Notifications: out,
			Total:         total,
			Unread:        unread,
		})
	}
}

func markNotificationReadHandler(store notification.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_notification_id", "id must be a valid UUID")
			return
		}

		if err := store.MarkRead(r.Context(), id, actor.UserID); err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"marked_read": true})
	}
}

func markAllNotificationsReadHandler(store notification.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		n, err := store.MarkAllRead(r.Context(), actor.UserID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"marked_read": n})
	}
}
