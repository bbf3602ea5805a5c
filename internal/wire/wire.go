package wire

import (
	"context"
	"net/http"

	"advance-auth/internal/adaptor"
	"advance-auth/internal/data/repository"
	"advance-auth/internal/usecase"
	"advance-auth/pkg/middleware"
	"advance-auth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router http.Handler
}

// Wiring builds services, handlers and routes. ctx bounds background work
// such as the IP limiter's cleanup.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, deps usecase.Deps, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, adaptor.CookieConfig{
		Production: config.App.IsProduction(),
		MaxAge:     deps.Tokens.TTL(),
	}, logger)

	router := setupRouter(ctx, handler, repo, config, deps, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	ctx context.Context,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	deps usecase.Deps,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.TrustedRealIP(config.App.TrustedProxies))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.ClientURLs))

	auth := authGuards{
		required: middleware.AuthCookie(deps.Tokens, repo.Session, logger),
		optional: middleware.OptionalAuth(deps.Tokens, repo.Session, logger),
	}

	var limiter func(http.Handler) http.Handler
	if config.Limits.RateLimitPerMinute > 0 {
		limiter = middleware.NewIPRateLimiter(ctx, config.Limits.RateLimitPerMinute, logger).Handler
	}

	wireAuth(r, handler.Auth, auth, limiter)
	wireUser(r, handler.User, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

type authGuards struct {
	required func(http.Handler) http.Handler
	optional func(http.Handler) http.Handler
}
