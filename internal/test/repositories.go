package test

import (
	"context"
	"strconv"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"github.com/polkiloo/celestial/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Next  int
	Err   error

	// GetByEmailFn runs before the in-memory lookup when set.
	GetByEmailFn       func(context.Context, string) error
	UpdateLastLoginErr error
	LastLoginCalls     int

	mu sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
		Next:  1,
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *user
	stored.ID = strconv.Itoa(s.Next)
	s.Next++
	s.Users[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.GetByEmailFn != nil {
		if err := s.GetByEmailFn(ctx, email); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, err := strconv.Atoi(id); err != nil {
		return nil, domainErrors.ErrInvalidIdentifier
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateLastLogin stamps the stored record unless UpdateLastLoginErr is set.
func (s *UserRepositoryStub) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastLoginCalls++
	if s.UpdateLastLoginErr != nil {
		return s.UpdateLastLoginErr
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	stamp := at
	user.LastLogin = &stamp
	return nil
}

// HealthCheckerStub returns Err from every probe.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck reports the configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
