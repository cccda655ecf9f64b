package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/celestial/internal/app"
	"github.com/polkiloo/celestial/internal/config"
	"github.com/polkiloo/celestial/internal/logger"
	"github.com/polkiloo/celestial/internal/metrics"
	"github.com/polkiloo/celestial/internal/pkg/auth"
	"github.com/polkiloo/celestial/internal/server/http/handlers"
	"github.com/polkiloo/celestial/internal/server/http/router"
	"github.com/polkiloo/celestial/internal/storage"
	"github.com/polkiloo/celestial/internal/usecase"
)

// Core builds everything up to the gin engine. Configuration is not
// included; callers pick how it is loaded.
func Core(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		logger.Module,
		metrics.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		app.FacadeModule,
		fx.Provide(func(f *app.AccountFacade) handlers.Facade { return f }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// Module composes the long-running server.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		Core(),
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
