package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/directory"
)

var ErrNotificationNotFound = errors.New("notification not found")

// UserNotification is the read model returned to inbox listings.
type UserNotification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Role      directory.Role
	Type      string
	Title     string
	Message   string
	Priority  Priority
	Category  Category
	Data      json.RawMessage
	Read      bool
	CreatedAt time.Time
}

type ListFilter struct {
	UnreadOnly bool
	Category   Category
	Limit      int
	Offset     int
}

// Store persists notifications.
type Store interface {
	Create(ctx context.Context, n Notification) error
	CreateBatch(ctx context.Context, ns []Notification) error

	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]UserNotification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	// MarkRead only touches the caller's own rows.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
