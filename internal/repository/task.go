package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visorry/task-management-system/internal/models"
)

// ErrTaskNotFound is returned when a task does not exist or is not owned
// by the requesting user. The two cases are deliberately indistinguishable
// so the API never reveals whether a task id exists for another owner.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines owner-scoped task data operations. Every query
// carries the owner id in its match condition; there is no way to reach a
// task through this interface without naming its owner.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	FindByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, changes map[string]interface{}) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for owner %s: %w", ownerID, err)
	}
	return tasks, nil
}

func (r *taskRepository) FindByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	return &task, nil
}

// Update applies changes in a single UPDATE whose match condition includes
// the owner id. The ownership filter is part of the mutation itself, not a
// preceding existence check, so there is no window where authorization and
// action can diverge.
func (r *taskRepository) Update(ctx context.Context, ownerID, taskID uuid.UUID, changes map[string]interface{}) (*models.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		Updates(changes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByOwnerAndID(ctx, ownerID, taskID)
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
