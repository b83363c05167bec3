package domain

import "time"

// Activity is an immutable audit entry attributed to a user.
type Activity struct {
	ID        int64
	UserID    int64
	Action    string
	Timestamp time.Time
}

// Dashboard aggregates a user's profile with their most recent activity.
type Dashboard struct {
	User       Profile
	Activities []Activity
}
