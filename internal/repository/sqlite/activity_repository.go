package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"isrs-auth/internal/domain"
	"isrs-auth/internal/repository"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, userID int64, action string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO activity_log (user_id, action, timestamp)
VALUES (?, ?, ?)`,
		userID,
		action,
		time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, repository.ErrUserNotFound
		}
		return 0, fmt.Errorf("insert activity: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("activity last insert id: %w", err)
	}
	return id, nil
}

func (r *ActivityRepository) RecentForUser(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		return []domain.Activity{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, action, timestamp
FROM activity_log
WHERE user_id = ?
ORDER BY timestamp DESC, id DESC
LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0, min(limit, repository.DashboardPageSize))
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(&activity.ID, &activity.UserID, &activity.Action, &activity.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}
