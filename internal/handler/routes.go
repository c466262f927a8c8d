package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/ratelimit"
)

// RouterOptions configures the middleware around the API routes
type RouterOptions struct {
	CORSOrigin     string
	RequestTimeout time.Duration
	// AuthLimiter throttles register and login; nil disables it
	AuthLimiter ratelimit.Limiter
}

// NewRouter wires every API route and the middleware chain
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	r.Use(
		mux.MiddlewareFunc(middleware.Tracing()),
		mux.MiddlewareFunc(middleware.Timeout(opts.RequestTimeout)),
	)

	// Public routes
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)

	limited := middleware.RateLimit(opts.AuthLimiter, h.log)
	r.Handle("/auth/register", limited(http.HandlerFunc(h.Register))).Methods(http.MethodPost)
	r.Handle("/auth/login", limited(http.HandlerFunc(h.Login))).Methods(http.MethodPost)

	// Protected routes. Registered flat, as mux subrouters lose a method
	// mismatch when a later sibling prefix matches.
	requireAuth := func(fn http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h.auth, h.log)(fn)
	}
	r.Handle("/auth/me", requireAuth(h.Me)).Methods(http.MethodGet)
	r.Handle("/tasks", requireAuth(h.CreateTask)).Methods(http.MethodPost)
	r.Handle("/tasks", requireAuth(h.ListTasks)).Methods(http.MethodGet)
	r.Handle("/tasks/stats", requireAuth(h.Stats)).Methods(http.MethodGet)
	r.Handle("/tasks/{id}", requireAuth(h.UpdateTask)).Methods(http.MethodPut)
	r.Handle("/tasks/{id}", requireAuth(h.DeleteTask)).Methods(http.MethodDelete)

	return middleware.Chain(r,
		middleware.Recover(h.log),
		middleware.RequestID(),
		middleware.Logging(h.log),
		middleware.CORS(opts.CORSOrigin),
	)
}
