package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
)

type taskCreatedResponse struct {
	Message string    `json:"message"`
	TaskID  uuid.UUID `json:"task_id"`
}

// CreateTask handles task creation
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.ErrUnauthorized)
		return
	}

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toNewTask()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), identity.UserID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, taskCreatedResponse{Message: "task created", TaskID: task.ID})
}

// ListTasks returns a filtered page of the caller's tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.ErrUnauthorized)
		return
	}

	page, err := h.tasks.List(r.Context(), identity.UserID, parseTaskFilter(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, page)
}

// UpdateTask replaces all mutable fields of one of the caller's tasks
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.ErrUnauthorized)
		return
	}
	taskID, ok := taskIDFromPath(r)
	if !ok {
		h.writeError(w, r, apperrors.ErrNotFound)
		return
	}

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toTaskUpdate()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.tasks.Update(r.Context(), identity.UserID, taskID, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: "task updated"})
}

// DeleteTask removes one of the caller's tasks
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.ErrUnauthorized)
		return
	}
	taskID, ok := taskIDFromPath(r)
	if !ok {
		h.writeError(w, r, apperrors.ErrNotFound)
		return
	}

	if err := h.tasks.Delete(r.Context(), identity.UserID, taskID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: "task deleted"})
}

// Stats returns the caller's task counts
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.ErrUnauthorized)
		return
	}

	stats, err := h.tasks.Stats(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}

// taskIDFromPath parses {id}; a malformed id cannot match any task
func taskIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseTaskFilter reads listing options from the query string. Malformed
// numbers are left at zero and replaced by defaults in the service.
func parseTaskFilter(q url.Values) models.TaskFilter {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.TaskFilter{
		Status:   models.Status(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
		Page:     page,
		Limit:    limit,
	}
}
