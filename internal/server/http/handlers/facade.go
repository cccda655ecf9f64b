package handlers

import (
	"context"

	"github.com/polkiloo/celestial/internal/domain/model"
)

// AccountFacade describes account capabilities required by handlers.
type AccountFacade interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Signin(ctx context.Context, email, password string) (*model.User, error)
	Profile(ctx context.Context, id string) (*model.User, error)
}

// HealthFacade probes store connectivity.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	AccountFacade
	HealthFacade
}

// AuthRecorder counts signup and signin outcomes.
type AuthRecorder interface {
	RecordAuth(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuth(string, string) {}
