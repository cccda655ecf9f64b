// Package function serves the account API from per-route serverless entry
// points. The fx graph and gin engine are built once per process on the
// first invocation and reused by every later one.
package function

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/fx"

	"github.com/polkiloo/celestial/internal/config"
	"github.com/polkiloo/celestial/internal/di"
	"github.com/polkiloo/celestial/internal/pkg/lazy"
	"github.com/polkiloo/celestial/internal/server/http/dto"
	"github.com/polkiloo/celestial/internal/server/http/handlers"
)

const (
	signupPath  = "/api/auth/signup"
	signinPath  = "/api/auth/signin"
	userPrefix  = "/api/auth/user/"
	healthPath  = "/api/health"
	msgInternal = "Internal Server Error"
)

// Runtime owns the lazily built request handler.
type Runtime struct {
	handler *lazy.Value[http.Handler]
	logger  *slog.Logger
}

// NewRuntime creates a runtime whose handler is produced by build on first use.
// A failed build is retried by the next request.
func NewRuntime(build lazy.InitFunc[http.Handler], logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{handler: lazy.New(build), logger: logger}
}

// BuildEngine assembles the core graph with environment configuration and
// returns its gin engine. The graph is never started, so the store connects
// on first use.
func BuildEngine(context.Context) (http.Handler, error) {
	var engine *gin.Engine
	app := fx.New(
		fx.NopLogger,
		config.EnvModule,
		di.Core(),
		fx.Populate(&engine),
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return engine, nil
}

var shared = NewRuntime(BuildEngine, slog.New(slog.NewJSONHandler(os.Stdout, nil)))

// Signup serves POST /api/auth/signup.
func Signup(w http.ResponseWriter, r *http.Request) { shared.Serve(w, rewrite(r, signupPath)) }

// Signin serves POST /api/auth/signin.
func Signin(w http.ResponseWriter, r *http.Request) { shared.Serve(w, rewrite(r, signinPath)) }

// User serves GET /api/auth/user/{id}. The id is taken from the id query
// parameter, falling back to the last path segment.
func User(w http.ResponseWriter, r *http.Request) { shared.ServeUser(w, r) }

// Health serves GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) { shared.ServeHealth(w, rewrite(r, healthPath)) }

// Serve forwards r to the shared handler, answering 500 when it cannot be built.
func (rt *Runtime) Serve(w http.ResponseWriter, r *http.Request) {
	h, err := rt.handler.Get(r.Context())
	if err != nil {
		rt.logger.Error("handler unavailable", slog.String("path", r.URL.Path), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, dto.Failure(msgInternal))
		return
	}
	h.ServeHTTP(w, r)
}

// ServeHealth is Serve with the health payload for build failures.
func (rt *Runtime) ServeHealth(w http.ResponseWriter, r *http.Request) {
	h, err := rt.handler.Get(r.Context())
	if err != nil {
		rt.logger.Error("health handler unavailable", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, dto.HealthFailure())
		return
	}
	h.ServeHTTP(w, r)
}

// ServeUser routes a profile lookup.
func (rt *Runtime) ServeUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" && strings.HasPrefix(r.URL.Path, userPrefix) {
		id = path.Base(r.URL.Path)
	}
	if id == "" || strings.Contains(id, "/") {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, http.StatusMethodNotAllowed, dto.Failure(handlers.MsgMethodNotAllowed))
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.Failure(handlers.MsgInvalidUserID))
		return
	}
	rt.Serve(w, rewrite(r, userPrefix+id))
}

// rewrite points r at the route the engine registers for this entry point,
// so hosts that mount functions under other paths still reach it.
func rewrite(r *http.Request, target string) *http.Request {
	if r.URL.Path == target {
		return r
	}
	out := r.Clone(r.Context())
	out.URL.Path = target
	out.URL.RawPath = ""
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	out := render.JSON{Data: body}
	out.WriteContentType(w)
	w.WriteHeader(status)
	_ = out.Render(w)
}
