package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/httpx"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/service"
)

// AuthService is the part of service.AuthService the handlers use
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.IssuedToken, error)
	WhoAmI(ctx context.Context, token string) (*auth.Identity, error)
}

// TaskService is the part of service.TaskService the handlers use
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, in models.NewTask) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) (*models.TaskPage, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, in models.TaskUpdate) error
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*models.TaskStats, error)
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth  AuthService
	tasks TaskService
	db    Pinger
	log   *logrus.Logger
}

func NewHandler(authSvc AuthService, taskSvc TaskService, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{auth: authSvc, tasks: taskSvc, db: db, log: log}
}

type messageResponse struct {
	Message string `json:"message"`
}

// Index answers with the API banner
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: "Task Management System API"})
}

// Healthz reports 200 when the database answers a ping
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown routes
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, &apperrors.Exception{Message: "route not found", StatusCode: http.StatusNotFound})
}

// MethodNotAllowed answers known routes called with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, &apperrors.Exception{Message: "method not allowed", StatusCode: http.StatusMethodNotAllowed})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		h.log.WithError(err).WithField("path", r.URL.Path).Warn("Failed to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.log, err)
}
