package tasks

// validateTransition enforces the task state machine: open -> in_progress ->
// completed, with completed terminal. Overdue is a read-time view, never a
// transition target.
func validateTransition(from, to Status) error {
	if from == StatusCompleted {
		return ErrTaskAlreadyClosed
	}
	switch {
	case from == StatusOpen && to == StatusInProgress:
		return nil
	case from == StatusInProgress && to == StatusCompleted:
		return nil
	}
	return ErrInvalidTransition
}
