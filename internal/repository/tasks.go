package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Dan9191/task-service/internal/models"
)

const taskColumns = `task_id, user_id, title, description, status, priority, due_date, created_at`

// sortColumns whitelists the ORDER BY columns; values never come from input
var sortColumns = map[string]string{
	models.SortByCreatedAt: "created_at",
	models.SortByDueDate:   "due_date",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateTask inserts a new task and fills its creation timestamp
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (task_id, user_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, string(task.Status), string(task.Priority), task.DueDate).
		Scan(&task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListTasks returns one page of the user's tasks. The filter must be normalized.
func (r *Repository) ListTasks(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) ([]models.Task, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf(`LOWER(title) LIKE LOWER($%d) ESCAPE '\'`, len(args)))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}
	direction := "DESC"
	if filter.Order == models.OrderAsc {
		direction = "ASC"
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY %s %s NULLS LAST, task_id %s
		LIMIT $%d OFFSET $%d`,
		taskColumns, strings.Join(conditions, " AND "), column, direction, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, filter.Limit)
	for rows.Next() {
		var (
			task     models.Task
			status   string
			priority string
		)
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&status, &priority, &task.DueDate, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Status = models.Status(status)
		task.Priority = models.Priority(priority)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces every mutable field of a task owned by task.UserID.
// ErrNotFound covers both a missing task and a task of another user.
func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5
		WHERE task_id = $6 AND user_id = $7`
	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, string(task.Status), string(task.Priority), task.DueDate, task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return expectAffected(res)
}

// DeleteTask removes a task owned by userID
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return expectAffected(res)
}

// TaskStats counts the user's tasks in a single pass
func (r *Repository) TaskStats(ctx context.Context, userID uuid.UUID) (*models.TaskStats, error) {
	stats := &models.TaskStats{}
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE priority = 'high')
		FROM tasks
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Completed, &stats.HighPriority)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	return stats, nil
}

func expectAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
