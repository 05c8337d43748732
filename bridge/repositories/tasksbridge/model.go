package tasksbridge

import "fmt"

// Task is the wire shape of a task. Description is omitted entirely when
// the task has none, matching the distinction the store keeps between
// absent and empty.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
}

// CreateTaskInput is the request body for creating a task.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Validate implements the web validator hook.
func (c CreateTaskInput) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// UpdateTaskInput is the request body for a partial update. Absent
// fields stay untouched; JSON null and absent both decode to nil here,
// which the store treats identically as "leave alone".
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// SuccessResponse acknowledges a mutation that returns no entity.
type SuccessResponse struct {
	Success bool `json:"success"`
}
