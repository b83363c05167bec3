package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"isrs-auth/internal/repository"
)

// Audit actions recorded by the gateway.
const (
	ActionRegistered = "account registered"
	ActionLoggedIn   = "user logged in"
	ActionExported   = "activity exported"
)

// ActivityRecorder appends audit entries after a primary action has already succeeded.
// Record never reports failure to its caller: errors are logged and dropped so the audit
// trail can not fail or roll back the action it describes.
type ActivityRecorder struct {
	activities repository.ActivityRepository
	logger     logrus.FieldLogger
}

func NewActivityRecorder(activities repository.ActivityRepository, logger logrus.FieldLogger) *ActivityRecorder {
	if logger == nil {
		logger = logrus.New()
	}
	return &ActivityRecorder{
		activities: activities,
		logger:     logger,
	}
}

func (r *ActivityRecorder) Record(ctx context.Context, userID int64, action string) {
	if _, err := r.activities.Append(ctx, userID, action); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
		}).Warn("record activity")
	}
}
