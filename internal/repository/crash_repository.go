package repository

import (
	"context"

	"github.com/wihwin/helmet-core/internal/models"
)

// CrashRepository defines data access for crash alerts.
type CrashRepository interface {
	// Create inserts an immutable crash alert record.
	Create(ctx context.Context, alert *models.CrashAlert) error
}
