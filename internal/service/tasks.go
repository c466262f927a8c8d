package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// TaskService handles task operations scoped to the calling user
type TaskService struct {
	repo         TaskRepository
	log          *logrus.Logger
	defaultLimit int
	maxLimit     int
}

// NewTaskService initializes a new task service. defaultLimit and maxLimit
// bound the page size of List.
func NewTaskService(repo TaskRepository, log *logrus.Logger, defaultLimit, maxLimit int) *TaskService {
	return &TaskService{repo: repo, log: log, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Create stores a new pending task for userID
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, in models.NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.InvalidInput("invalid priority")
	}

	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": task.ID}).Info("Task created")
	return task, nil
}

// List returns one page of the user's tasks
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) (*models.TaskPage, error) {
	filter = filter.Normalize(s.defaultLimit, s.maxLimit)

	tasks, err := s.repo.ListTasks(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return &models.TaskPage{
		Page:  filter.Page,
		Limit: filter.Limit,
		Count: len(tasks),
		Tasks: tasks,
	}, nil
}

// Update replaces all mutable fields of a task owned by userID
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, in models.TaskUpdate) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperrors.InvalidInput("title is required")
	}
	if !in.Priority.Valid() {
		return apperrors.InvalidInput("invalid priority")
	}
	if !in.Status.Valid() {
		return apperrors.InvalidInput("invalid status")
	}

	task := &models.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("Task updated")
	return nil
}

// Delete removes a task owned by userID
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.repo.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("Task deleted")
	return nil
}

// Stats returns the user's task counts
func (s *TaskService) Stats(ctx context.Context, userID uuid.UUID) (*models.TaskStats, error) {
	stats, err := s.repo.TaskStats(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return stats, nil
}
