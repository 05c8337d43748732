package tasksrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/validation"
)

// Set of error values for CRUD operations on the task resource.
var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidTitle = errors.New("title is required")
)

// Storer defines the data storage interface for Task. Every read and
// mutation is scoped by both the task id and the owner id in the same
// statement: the store never exposes an operation that could touch
// another owner's task, and mutations report how many rows matched.
type Storer interface {
	List(ctx context.Context, ownerID string) ([]Task, error)
	GetByID(ctx context.Context, taskID string, ownerID string) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, taskID string, ownerID string, update UpdateTask) (int64, error)
	Delete(ctx context.Context, taskID string, ownerID string) (int64, error)
}

// Repository provides access to task storage and enforces the ownership
// rules on top of it.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// List returns every task owned by ownerID, newest first. No tasks is an
// empty slice, not an error.
func (r *Repository) List(ctx context.Context, ownerID string) ([]Task, error) {
	records, err := r.storer.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("task repository list: %w", err)
	}

	if records == nil {
		records = []Task{}
	}

	return records, nil
}

// GetByID returns the single task matching both id and owner. A task
// that exists but belongs to someone else is indistinguishable from one
// that does not exist.
func (r *Repository) GetByID(ctx context.Context, taskID string, ownerID string) (Task, error) {
	record, err := r.storer.GetByID(ctx, taskID, ownerID)
	if err != nil {
		return Task{}, fmt.Errorf("task repository get by id: %w", err)
	}
	return record, nil
}

// Create validates the input and persists a new task owned by ownerID.
// Nothing is persisted when validation fails.
func (r *Repository) Create(ctx context.Context, ownerID string, input CreateTask) (Task, error) {
	if validation.IsBlank(input.Title) {
		return Task{}, ErrInvalidTitle
	}

	task := Task{
		TaskID:      uuid.NewString(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	record, err := r.storer.Create(ctx, task)
	if err != nil {
		return Task{}, fmt.Errorf("task repository create: %w", err)
	}

	r.log.InfoContext(ctx, "task created", "task_id", record.TaskID)

	return record, nil
}

// Update applies the non-nil fields of the patch to the single task
// matching both id and owner. Zero matched rows surface as ErrNotFound
// whether the id is unknown or owned by someone else. An empty patch is
// a no-op that still reports whether the task matched.
func (r *Repository) Update(ctx context.Context, taskID string, ownerID string, update UpdateTask) error {
	if update.Title != nil && validation.IsBlank(*update.Title) {
		return ErrInvalidTitle
	}

	if update.IsZero() {
		if _, err := r.storer.GetByID(ctx, taskID, ownerID); err != nil {
			return fmt.Errorf("task repository update: %w", err)
		}
		return nil
	}

	count, err := r.storer.Update(ctx, taskID, ownerID, update)
	if err != nil {
		return fmt.Errorf("task repository update: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the single task matching both id and owner. Zero
// matched rows surface as ErrNotFound.
func (r *Repository) Delete(ctx context.Context, taskID string, ownerID string) error {
	count, err := r.storer.Delete(ctx, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("task repository delete: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}

	r.log.InfoContext(ctx, "task deleted", "task_id", taskID)

	return nil
}
