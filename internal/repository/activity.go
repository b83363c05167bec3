package repository

import (
	"context"

	"isrs-auth/internal/domain"
)

// DashboardPageSize caps the number of activities shown on the dashboard.
const DashboardPageSize = 20

// ActivityRepository exposes the append-only audit log.
type ActivityRepository interface {
	// Append fails with ErrUserNotFound when userID does not reference an existing user.
	Append(ctx context.Context, userID int64, action string) (int64, error)
	// RecentForUser returns at most limit entries ordered by timestamp then id, newest first.
	RecentForUser(ctx context.Context, userID int64, limit int) ([]domain.Activity, error)
}
