package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"

	"isrs-auth/internal/auth"
	"isrs-auth/internal/domain"
	"isrs-auth/internal/repository"
)

var (
	// ErrInvalidInput indicates that a required field is missing or empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering an email that is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrPasswordTooLong accompanies ErrInvalidInput when a new password exceeds auth.MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password too long")
)

// notBlank rejects whitespace-only strings, which validation.Required lets through.
var notBlank = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// exact rejects values with leading or trailing whitespace. Emails are matched byte for byte,
// so padded input is refused instead of silently normalized.
var exact = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s != strings.TrimSpace(s) {
		return errors.New("must not have surrounding whitespace")
	}
	return nil
})

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  domain.Profile
}

// UserService describes registration and login.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	recorder *ActivityRecorder

	decoyOnce sync.Once
	decoyHash string
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer, recorder *ActivityRecorder) UserService {
	return &userService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
	}
}

type registerInput struct {
	Name     string
	Email    string
	Password string
}

func (in registerInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, notBlank, exact),
		validation.Field(&in.Password, validation.Required, notBlank),
	)
}

type loginInput struct {
	Email    string
	Password string
}

func (in loginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, notBlank),
		validation.Field(&in.Password, validation.Required, notBlank),
	)
}

func (s *userService) Register(ctx context.Context, name, email, password string) (int64, error) {
	in := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: password,
	}
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, ErrPasswordTooLong)
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	// the store's unique constraint is the only duplicate guard
	id, err := s.users.Insert(ctx, in.Name, in.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return 0, ErrUserAlreadyExists
		}
		return 0, err
	}

	s.recorder.Record(ctx, id, ActionRegistered)
	return id, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := loginInput{
		Email:    email,
		Password: password,
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// unknown emails still pay for one bcrypt comparison
			s.hasher.Verify(in.Password, s.decoy())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.recorder.Record(ctx, user.ID, ActionLoggedIn)
	return &LoginResult{
		Token: token,
		User:  user.Profile(),
	}, nil
}

func (s *userService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("isrs-decoy-password")
		if err == nil {
			s.decoyHash = hash
		}
	})
	return s.decoyHash
}
