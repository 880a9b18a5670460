package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/visorry/task-management-system/internal/cache"
	"github.com/visorry/task-management-system/internal/models"
	"github.com/visorry/task-management-system/internal/repository"
)

var (
	// ErrTaskNotFound is returned for tasks that are absent or owned by
	// another user; the caller cannot tell which.
	ErrTaskNotFound = errors.New("task not found")
	// ErrValidation is returned for input that violates a field constraint.
	ErrValidation = errors.New("validation failed")
)

// CreateTaskRequest carries the fields for a new task.
type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
}

// UpdateTaskRequest carries a partial update; nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
}

// TaskService implements the owner-scoped task operations. Every method
// takes the authenticated owner's id as its first argument; a call cannot
// be constructed without an identity.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateTaskRequest) (*models.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, req UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	cache    *cache.TaskCache
	now      func() time.Time
}

// NewTaskService creates a new TaskService instance. cache may be nil.
func NewTaskService(taskRepo repository.TaskRepository, taskCache *cache.TaskCache) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		cache:    taskCache,
		now:      time.Now,
	}
}

// Create validates the request and persists a task owned by ownerID. The
// due date must be strictly in the future at creation time; updates are
// exempt from that check.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, req CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !req.DueDate.After(s.now()) {
		return nil, fmt.Errorf("%w: due date must be greater than the current date", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, priority)
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Status:      status,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, ownerID)
	return task, nil
}

// List returns every task owned by ownerID, serving from the cache when
// a fresh entry exists.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	if tasks, ok := s.cache.GetTasks(ctx, ownerID); ok {
		return tasks, nil
	}

	tasks, err := s.taskRepo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.cache.SetTasks(ctx, ownerID, tasks)
	return tasks, nil
}

func (s *taskService) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update applies the provided fields through the repository's atomic
// owner-filtered update. Enum fields are validated here; the due date is
// deliberately not re-validated on update, matching the create-only rule.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, req UpdateTaskRequest) (*models.Task, error) {
	changes := make(map[string]interface{})
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.DueDate != nil {
		changes["due_date"] = *req.DueDate
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *req.Priority)
		}
		changes["priority"] = *req.Priority
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
		changes["status"] = *req.Status
	}

	if len(changes) == 0 {
		return s.GetByID(ctx, ownerID, taskID)
	}

	task, err := s.taskRepo.Update(ctx, ownerID, taskID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, ownerID)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.cache.Invalidate(ctx, ownerID)
	return nil
}
