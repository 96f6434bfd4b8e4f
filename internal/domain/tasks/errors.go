package tasks

import "errors"

var (
	// ErrTaskAlreadyClosed rejects any transition out of completed.
	ErrTaskAlreadyClosed = errors.New("task is already closed")

	// ErrInvalidTransition rejects moves the state machine does not define,
	// including reopening.
	ErrInvalidTransition = errors.New("invalid task transition")

	// ErrDuplicateReport enforces one report per (employee, task, date).
	ErrDuplicateReport = errors.New("report already submitted for this date")

	// ErrOutOfScope rejects a task-specific report from an employee who is
	// not assigned to the task.
	ErrOutOfScope = errors.New("employee is not assigned to this task")

	// ErrScopeViolation rejects assignments whose assignee is outside the
	// task branch's subtree.
	ErrScopeViolation = errors.New("assignee is outside the task branch subtree")

	ErrNotFound = errors.New("record not found")
)
