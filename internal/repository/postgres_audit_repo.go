package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// PostgresAuditRepository appends auth events to the auth_events table.
type PostgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Record(ctx context.Context, e models.AuthEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_events (event, outcome, user_id, ip, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
	`, e.Event, e.Outcome, e.UserID, e.IP, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// RecentForUser returns the latest events of a user, newest first.
func (r *PostgresAuditRepository) RecentForUser(ctx context.Context, userID string, limit int) ([]models.AuthEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event, outcome, COALESCE(user_id, ''), COALESCE(ip, ''), created_at
		FROM auth_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query auth events: %w", err)
	}
	defer rows.Close()

	var events []models.AuthEvent
	for rows.Next() {
		var e models.AuthEvent
		if err := rows.Scan(&e.Event, &e.Outcome, &e.UserID, &e.IP, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auth event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
