package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func marshalData(data any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal notification payload: %w", err)
	}
	return b, nil
}

func (s *PgStore) Create(ctx context.Context, n Notification) error {
	data, err := marshalData(n.Data)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, role, type, title, message, priority, category, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now())
	`, uuid.New(), n.UserID, string(n.Role), n.Type, n.Title, n.Message, string(n.Priority), string(n.Category), data)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (s *PgStore) CreateBatch(ctx context.Context, ns []Notification) error {
	if len(ns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range ns {
		data, err := marshalData(n.Data)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO notifications (id, user_id, role, type, title, message, priority, category, data, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now())
		`, uuid.New(), n.UserID, string(n.Role), n.Type, n.Title, n.Message, string(n.Priority), string(n.Category), data)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range ns {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert notification batch: %w", err)
		}
	}

	return nil
}

func scanUserNotification(row pgx.Row) (*UserNotification, error) {
	var n UserNotification
	var data []byte

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Role,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Priority,
		&n.Category,
		&data,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	n.Data = data
	return &n, nil
}

func (s *PgStore) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]UserNotification, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, role, type, title, message, priority, category, data, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		  AND (NOT $2 OR NOT is_read)
		  AND ($3 = '' OR category = $3)
		ORDER BY is_read ASC, created_at DESC
		LIMIT $4 OFFSET $5
	`, userID, filter.UnreadOnly, string(filter.Category), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []UserNotification
	for rows.Next() {
		n, err := scanUserNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM notifications
		WHERE user_id = $1
		  AND (NOT $2 OR NOT is_read)
		  AND ($3 = '' OR category = $3)
	`, userID, filter.UnreadOnly, string(filter.Category)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (s *PgStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read
	`, userID).Scan(&n)
	return n, err
}

func (s *PgStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *PgStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
