package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"isrs-auth/internal/auth"
	"isrs-auth/internal/domain"
)

type mockUserRepo struct {
	insertFn      func(ctx context.Context, name, email, passwordHash string) (int64, error)
	findByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	findByIDFn    func(ctx context.Context, id int64) (*domain.Profile, error)
}

func (m *mockUserRepo) Insert(ctx context.Context, name, email, passwordHash string) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, name, email, passwordHash)
	}
	return 1, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, errors.New("not configured")
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*domain.Profile, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, errors.New("not configured")
}

type appendCall struct {
	userID int64
	action string
}

type mockActivityRepo struct {
	mu       sync.Mutex
	appended []appendCall

	appendFn func(ctx context.Context, userID int64, action string) (int64, error)
	recentFn func(ctx context.Context, userID int64, limit int) ([]domain.Activity, error)
}

func (m *mockActivityRepo) Append(ctx context.Context, userID int64, action string) (int64, error) {
	m.mu.Lock()
	m.appended = append(m.appended, appendCall{userID: userID, action: action})
	m.mu.Unlock()
	if m.appendFn != nil {
		return m.appendFn(ctx, userID, action)
	}
	return 1, nil
}

func (m *mockActivityRepo) RecentForUser(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockActivityRepo) calls() []appendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]appendCall(nil), m.appended...)
}

type mockIssuer struct {
	issueFn func(identity auth.Identity) (string, error)
}

func (m *mockIssuer) Issue(identity auth.Identity) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(identity)
	}
	return "token", nil
}

type putCall struct {
	bucket      string
	key         string
	body        []byte
	contentType string
}

type mockArchive struct {
	puts []putCall

	putErr error
	urlErr error
}

func (m *mockArchive) PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.puts = append(m.puts, putCall{bucket: bucket, key: key, body: data, contentType: contentType})
	return "s3://" + bucket + "/" + key, nil
}

func (m *mockArchive) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return "https://signed.example/" + key, nil
}
