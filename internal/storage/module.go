// Package storage selects the credential store backend and ties it to the fx lifecycle.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/celestial/internal/config"
	"github.com/polkiloo/celestial/internal/domain/repository"
	"github.com/polkiloo/celestial/internal/storage/mongo"
	"github.com/polkiloo/celestial/internal/storage/postgres"
)

// Backend is a credential store implementation.
type Backend interface {
	repository.HealthChecker
	Users() repository.UserRepository
	Initialize(ctx context.Context) error
	Close(ctx context.Context) error
}

// Module wires the configured backend and its repositories.
var Module = fx.Options(
	fx.Provide(NewBackend),
	fx.Provide(
		func(b Backend) repository.UserRepository { return b.Users() },
		func(b Backend) repository.HealthChecker { return b },
	),
	fx.Invoke(registerLifecycle),
)

type backendParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewBackend builds the store selected by the connection string scheme.
// No connection is opened here.
func NewBackend(p backendParams) (Backend, error) {
	backend := p.Config.Backend
	if backend == "" {
		var err error
		if backend, err = config.BackendFor(p.Config.DatabaseURI); err != nil {
			return nil, err
		}
	}

	switch backend {
	case config.BackendMongo:
		return mongo.New(p.Config.DatabaseURI, p.Config.DatabaseName, p.Config.ConnectTimeout, p.Logger), nil
	case config.BackendPostgres:
		return postgres.New(p.Config.DatabaseURI, p.Config.ConnectTimeout, p.Logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func registerLifecycle(lc fx.Lifecycle, backend Backend, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := backend.Initialize(ctx); err != nil {
				return fmt.Errorf("initialize store: %w", err)
			}
			logger.Info("store initialized")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return backend.Close(ctx)
		},
	})
}
