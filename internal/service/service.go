package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dan9191/task-service/internal/models"
)

// UserRepository is the credential store used by AuthService
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TaskRepository is the task store used by TaskService
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	ListTasks(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	TaskStats(ctx context.Context, userID uuid.UUID) (*models.TaskStats, error)
}
