// Package taskflow models the ephemeral client-side state as pure
// values: which task is being edited and which completion filter is
// active. Both are plain functions of current state plus one event, with
// no persistence, so they are testable without a browser or a server.
package taskflow

import "github.com/jrazmi/taskdeck/core/repositories/tasksrepo"

// EditState tracks whether the user is editing a task inline.
// The zero value is Idle.
type EditState struct {
	taskID string
}

// Idle is the edit state with no task being edited.
var Idle = EditState{}

// Editing returns the edit state for the given task.
func Editing(taskID string) EditState {
	return EditState{taskID: taskID}
}

// IsEditing reports whether any task is being edited.
func (s EditState) IsEditing() bool {
	return s.taskID != ""
}

// TaskID returns the task being edited and whether there is one.
func (s EditState) TaskID() (string, bool) {
	return s.taskID, s.taskID != ""
}

// StartEdit moves to editing the given task, replacing any edit in
// progress.
func (s EditState) StartEdit(taskID string) EditState {
	return Editing(taskID)
}

// CancelEdit returns to Idle.
func (s EditState) CancelEdit() EditState {
	return Idle
}

// CommitEdit returns to Idle after a successful save of the given task.
// Committing a different task than the one being edited leaves the state
// unchanged, so a stale save cannot cancel a newer edit.
func (s EditState) CommitEdit(taskID string) EditState {
	if s.taskID != taskID {
		return s
	}
	return Idle
}

// Filter selects which tasks are shown.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a raw value to a Filter, defaulting to FilterAll for
// anything unrecognized.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether a task passes the filter.
func (f Filter) Matches(task tasksrepo.Task) bool {
	switch f {
	case FilterActive:
		return !task.Completed
	case FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

// Apply returns the tasks passing the filter, preserving order.
func (f Filter) Apply(tasks []tasksrepo.Task) []tasksrepo.Task {
	if f == FilterAll || f == "" {
		return tasks
	}

	out := make([]tasksrepo.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}
