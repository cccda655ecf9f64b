package test

import (
	"context"
	"time"

	"github.com/polkiloo/celestial/internal/domain/model"
)

// SampleUser returns a fully populated account used across handler tests.
func SampleUser() *model.User {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &model.User{
		ID:           "65e1c0ffee0000000000beef",
		Name:         "Test User 1",
		Email:        "user1@test.com",
		PasswordHash: "$2a$10$secret",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

// AccountFacadeStub simulates account facade interactions.
type AccountFacadeStub struct {
	SignupFn  func(context.Context, string, string, string) (*model.User, error)
	SigninFn  func(context.Context, string, string) (*model.User, error)
	ProfileFn func(context.Context, string) (*model.User, error)
	HealthFn  func(context.Context) error
}

// Signup returns a sample user unless overridden.
func (s AccountFacadeStub) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	if s.SignupFn != nil {
		return s.SignupFn(ctx, name, email, password)
	}
	usr := SampleUser()
	usr.Name, usr.Email = name, email
	return usr, nil
}

// Signin returns a sample user unless overridden.
func (s AccountFacadeStub) Signin(ctx context.Context, email, password string) (*model.User, error) {
	if s.SigninFn != nil {
		return s.SigninFn(ctx, email, password)
	}
	usr := SampleUser()
	usr.Email = email
	return usr, nil
}

// Profile returns a sample user with the requested identifier unless overridden.
func (s AccountFacadeStub) Profile(ctx context.Context, id string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, id)
	}
	usr := SampleUser()
	usr.ID = id
	return usr, nil
}

// Health reports a connected store unless overridden.
func (s AccountFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
