package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/application"
	"github.com/meridianbank/auth-service/internal/ports"
)

// AuthService is the slice of the application layer the HTTP adapter needs.
// Declaring it on the consumer side keeps handlers testable with a stub.
type AuthService interface {
	Register(ctx context.Context, req application.RegisterRequest) (application.RegisterResponse, error)
	Login(ctx context.Context, req application.LoginRequest) (application.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (application.LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (ports.AccessClaims, error)
	Profile(ctx context.Context, identityID uuid.UUID) (application.UserInfo, error)
}

// Handler is the HTTP adapter entrypoint for auth use-cases.
type Handler struct {
	service AuthService
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// NewRouter registers routes and the middleware stack. The authentication
// middleware runs on every request so that downstream handlers only need to
// ask whether a principal is present.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(handler.authenticateMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/refresh", handler.refresh)
		r.Post("/logout", handler.logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.requirePrincipal)
			r.Get("/users/me", handler.me)
		})
	})

	return r
}
