package repository

import (
	"context"
	"time"

	"github.com/polkiloo/celestial/internal/domain/model"
)

// UserRepository describes persistence operations for user accounts.
// Emails passed in are already case-folded.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// HealthChecker probes store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
