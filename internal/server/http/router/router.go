package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/celestial/internal/config"
	"github.com/polkiloo/celestial/internal/metrics"
	"github.com/polkiloo/celestial/internal/server/http/dto"
	"github.com/polkiloo/celestial/internal/server/http/handlers"
	"github.com/polkiloo/celestial/internal/server/http/middleware"
)

// MaxBodyBytes caps request bodies accepted by the API.
const MaxBodyBytes = 1 << 20

// MsgInternalError is written when a handler panics.
const MsgInternalError = "Internal Server Error"

var routableMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade  handlers.Facade
	Logger  *slog.Logger
	Config  *config.Config
	Metrics *metrics.Metrics
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		p.Logger.Error("handler panicked", slog.Any("panic", err), slog.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Failure(MsgInternalError))
	}))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(cors.New(corsConfig(p.Config.CORSOrigins)))
	engine.Use(middleware.DecompressRequest())
	engine.Use(middleware.LimitBody(MaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	accountHandler := handlers.NewAccountHandler(p.Facade, p.Logger, p.Metrics)
	healthHandler := handlers.NewHealthHandler(p.Facade, p.Logger, p.Config.VerboseHealth)

	api := engine.Group("/api")
	authGroup := api.Group("/auth")
	limited := authGroup.Group("")
	limited.Use(middleware.RateLimit(middleware.NewClientLimiter(p.Config.RateLimitRPS, p.Config.RateLimitBurst)))
	route(limited, http.MethodPost, "/signup", accountHandler.Signup)
	route(limited, http.MethodPost, "/signin", accountHandler.Signin)
	route(authGroup, http.MethodGet, "/user/:id", accountHandler.Profile)
	route(api, http.MethodGet, "/health", healthHandler.Health)

	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	engine.NoRoute(handlers.NotFound)

	return engine
}

// route registers handler for method and answers every other method with 405.
func route(group *gin.RouterGroup, method, path string, handler gin.HandlerFunc) {
	group.Handle(method, path, handler)
	reject := handlers.MethodNotAllowed(method)
	for _, other := range routableMethods {
		if other != method {
			group.Handle(other, path, reject)
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Encoding", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
