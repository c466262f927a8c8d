package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status of a task. Any status may replace any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the enumerated statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a task owned by a single user
type Task struct {
	ID          uuid.UUID  `json:"task_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask holds the client-settable fields of a task at creation
type NewTask struct {
	Title       string
	Description *string
	Priority    Priority // empty means medium
	DueDate     *time.Time
}

// TaskUpdate is a full replacement of the mutable task fields
type TaskUpdate struct {
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
}

// TaskPage is one page of a task listing
type TaskPage struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// TaskStats represents aggregate task counts of a user
type TaskStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	InProgress   int `json:"in_progress"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
}
