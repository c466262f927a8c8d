package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
)

const maxBodyBytes = 1 << 20

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// decodeJSON reads a single JSON object of at most maxBodyBytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.InvalidInput("request body too large")
		}
		return apperrors.InvalidInput("invalid request body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}

func (req credentialsRequest) validateRegister() error {
	if !strings.Contains(strings.TrimSpace(req.Email), "@") {
		return apperrors.InvalidInput("valid email is required")
	}
	if req.Password == "" {
		return apperrors.InvalidInput("password is required")
	}
	if len(req.Password) > auth.MaxPasswordLength {
		return apperrors.InvalidInput("password must be at most 72 bytes")
	}
	return nil
}

func (req credentialsRequest) validateLogin() error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.InvalidInput("email and password are required")
	}
	return nil
}

// toNewTask validates a create request. A valid status is accepted but new
// tasks always start pending.
func (req taskRequest) toNewTask() (models.NewTask, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.NewTask{}, apperrors.InvalidInput("title is required")
	}

	var priority models.Priority
	if req.Priority != nil {
		priority = models.Priority(*req.Priority)
		if !priority.Valid() {
			return models.NewTask{}, apperrors.InvalidInput("invalid priority")
		}
	}
	if req.Status != nil && !models.Status(*req.Status).Valid() {
		return models.NewTask{}, apperrors.InvalidInput("invalid status")
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return models.NewTask{}, err
	}

	return models.NewTask{
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     due,
	}, nil
}

// toTaskUpdate validates a full replacement; status and priority are required
func (req taskRequest) toTaskUpdate() (models.TaskUpdate, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.TaskUpdate{}, apperrors.InvalidInput("title is required")
	}
	if req.Status == nil || !models.Status(*req.Status).Valid() {
		return models.TaskUpdate{}, apperrors.InvalidInput("invalid status")
	}
	if req.Priority == nil || !models.Priority(*req.Priority).Valid() {
		return models.TaskUpdate{}, apperrors.InvalidInput("invalid priority")
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return models.TaskUpdate{}, err
	}

	return models.TaskUpdate{
		Title:       title,
		Description: req.Description,
		Status:      models.Status(*req.Status),
		Priority:    models.Priority(*req.Priority),
		DueDate:     due,
	}, nil
}

// parseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight)
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return &t, nil
	}
	return nil, apperrors.InvalidInput("invalid due_date")
}
