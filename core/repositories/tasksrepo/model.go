package tasksrepo

import "time"

// Task is the sole persisted entity: one to-do item owned by exactly one
// user. OwnerID is set at creation from the authenticated caller and
// never changes.
type Task struct {
	TaskID      string    `db:"task_id" json:"task_id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Seq breaks created_at ties so listing stays stable in insertion
	// order. Assigned by the store, never exposed on the wire.
	Seq int64 `db:"seq" json:"-"`
}

// CreateTask contains fields for creating a new task. Description is a
// pointer: an absent description is distinct from an empty one.
type CreateTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTask contains fields for updating an existing task. All fields
// are optional (pointers) to support partial updates; nil fields are
// left untouched.
type UpdateTask struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// IsZero reports whether the patch carries no fields at all.
func (ut UpdateTask) IsZero() bool {
	return ut.Title == nil && ut.Description == nil && ut.Completed == nil
}
