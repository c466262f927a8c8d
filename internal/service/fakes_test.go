package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// memStore is an in-memory stand-in for repository.Repository that keeps the
// same contract: unique emails, owner-scoped mutations, normalized filters.
type memStore struct {
	mu    sync.Mutex
	users map[string]models.User
	tasks map[uuid.UUID]models.Task
	clock time.Time
	err   error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]models.User),
		tasks: make(map[uuid.UUID]models.Task),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.CreatedAt = m.tick()
	m.users[user.Email] = *user
	return nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	task.CreatedAt = m.tick()
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) ListTasks(_ context.Context, userID uuid.UUID, f models.TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var out []models.Task
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, t)
	}

	asc := f.Order == models.OrderAsc
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var cmp int
		if f.SortBy == models.SortByDueDate {
			cmp = compareDue(a.DueDate, b.DueDate, asc)
		} else {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
			if !asc {
				cmp = -cmp
			}
		}
		if cmp != 0 {
			return cmp < 0
		}
		if asc {
			return a.ID.String() < b.ID.String()
		}
		return a.ID.String() > b.ID.String()
	})

	start := f.Offset()
	if start >= len(out) {
		return []models.Task{}, nil
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

// compareDue orders by due date with NULLs last in both directions
func compareDue(a, b *time.Time, asc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	cmp := a.Compare(*b)
	if !asc {
		cmp = -cmp
	}
	return cmp
}

func (m *memStore) UpdateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) DeleteTask(_ context.Context, userID, taskID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.tasks[taskID]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *memStore) TaskStats(_ context.Context, userID uuid.UUID) (*models.TaskStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stats := &models.TaskStats{}
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		stats.Total++
		switch t.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusCompleted:
			stats.Completed++
		}
		if t.Priority == models.PriorityHigh {
			stats.HighPriority++
		}
	}
	return stats, nil
}

func (m *memStore) taskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
