package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"isrs-auth/internal/domain"
	"isrs-auth/internal/repository"
	"isrs-auth/internal/storage"
)

const (
	// ExportLimit caps how many activities an archive export contains.
	ExportLimit = 1000
	// ExportURLExpiry is the lifetime of the presigned download link.
	ExportURLExpiry = 15 * time.Minute
)

// ErrArchiveDisabled is returned by ExportActivity when no archive bucket is configured.
var ErrArchiveDisabled = errors.New("activity archive not configured")

// ArchiveOptions conveys where activity exports are written.
type ArchiveOptions struct {
	Bucket    string
	KeyPrefix string
}

// ExportResult describes an uploaded activity archive.
type ExportResult struct {
	Location string
	URL      string
	Count    int
}

// ActivityService serves the authenticated user's audit trail.
type ActivityService interface {
	Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error)
	LogActivity(ctx context.Context, userID int64, action string) (int64, error)
	ExportActivity(ctx context.Context, userID int64) (*ExportResult, error)
}

type activityService struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	recorder   *ActivityRecorder
	archive    storage.Service
	archiveOpt ArchiveOptions
}

func NewActivityService(users repository.UserRepository, activities repository.ActivityRepository, recorder *ActivityRecorder, archive storage.Service, opts ArchiveOptions) ActivityService {
	return &activityService{
		users:      users,
		activities: activities,
		recorder:   recorder,
		archive:    archive,
		archiveOpt: opts,
	}
}

func (s *activityService) Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error) {
	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	activities, err := s.activities.RecentForUser(ctx, userID, repository.DashboardPageSize)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}

	return &domain.Dashboard{
		User:       *profile,
		Activities: activities,
	}, nil
}

func (s *activityService) LogActivity(ctx context.Context, userID int64, action string) (int64, error) {
	action = strings.TrimSpace(action)
	if err := validation.Validate(action, validation.Required); err != nil {
		return 0, fmt.Errorf("%w: action %v", ErrInvalidInput, err)
	}
	return s.activities.Append(ctx, userID, action)
}

type archiveDocument struct {
	ExportedAt time.Time         `json:"exported_at"`
	User       archiveUser       `json:"user"`
	Activities []archiveActivity `json:"activities"`
}

type archiveUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type archiveActivity struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *activityService) ExportActivity(ctx context.Context, userID int64) (*ExportResult, error) {
	if s.archive == nil || strings.TrimSpace(s.archiveOpt.Bucket) == "" {
		return nil, ErrArchiveDisabled
	}

	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.RecentForUser(ctx, userID, ExportLimit)
	if err != nil {
		return nil, err
	}

	doc := archiveDocument{
		ExportedAt: time.Now().UTC(),
		User: archiveUser{
			ID:        profile.ID,
			Name:      profile.Name,
			Email:     profile.Email,
			CreatedAt: profile.CreatedAt,
		},
		Activities: make([]archiveActivity, len(activities)),
	}
	for i := range activities {
		doc.Activities[i] = archiveActivity{
			ID:        activities[i].ID,
			Action:    activities[i].Action,
			Timestamp: activities[i].Timestamp,
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}

	key := path.Join(strings.Trim(s.archiveOpt.KeyPrefix, "/"), strconv.FormatInt(userID, 10), uuid.NewString()+".json")
	location, err := s.archive.PutObject(ctx, s.archiveOpt.Bucket, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("upload archive: %w", err)
	}
	url, err := s.archive.GetObjectURL(ctx, s.archiveOpt.Bucket, key, ExportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign archive: %w", err)
	}

	s.recorder.Record(ctx, userID, ActionExported)
	return &ExportResult{
		Location: location,
		URL:      url,
		Count:    len(activities),
	}, nil
}
