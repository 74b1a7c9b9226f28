package services

import (
	"context"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// NopAuditLog is used when no audit database is configured.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, models.AuthEvent) error { return nil }

func (NopAuditLog) RecentForUser(context.Context, string, int) ([]models.AuthEvent, error) {
	return nil, models.ErrUnavailable
}
