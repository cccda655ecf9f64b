package app

import (
	"context"

	"github.com/polkiloo/celestial/internal/domain/model"
	"github.com/polkiloo/celestial/internal/domain/repository"
	"github.com/polkiloo/celestial/internal/usecase"
)

// AccountFacade exposes account operations and the store probe to the transport layer.
type AccountFacade struct {
	accounts *usecase.AccountUseCase
	health   repository.HealthChecker
}

func NewAccountFacade(accounts *usecase.AccountUseCase, health repository.HealthChecker) *AccountFacade {
	return &AccountFacade{accounts: accounts, health: health}
}

func (f *AccountFacade) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	return f.accounts.Signup(ctx, name, email, password)
}

func (f *AccountFacade) Signin(ctx context.Context, email, password string) (*model.User, error) {
	return f.accounts.Signin(ctx, email, password)
}

func (f *AccountFacade) Profile(ctx context.Context, id string) (*model.User, error) {
	return f.accounts.Profile(ctx, id)
}

// Health reports whether the store answers a ping.
func (f *AccountFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
