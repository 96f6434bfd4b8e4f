package tasks

import (
	"testing"
	"time"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want error
	}{
		{"open to in progress", StatusOpen, StatusInProgress, nil},
		{"in progress to completed", StatusInProgress, StatusCompleted, nil},
		{"open to completed skips a step", StatusOpen, StatusCompleted, ErrInvalidTransition},
		{"in progress back to open", StatusInProgress, StatusOpen, ErrInvalidTransition},
		{"completed is terminal", StatusCompleted, StatusInProgress, ErrTaskAlreadyClosed},
		{"completed cannot reopen", StatusCompleted, StatusOpen, ErrTaskAlreadyClosed},
		{"overdue is never a target", StatusOpen, StatusOverdue, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validateTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("validateTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestEffectiveStatusDerivesOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	open := Task{Status: StatusOpen, DueDate: &past}
	if got := open.EffectiveStatus(now); got != StatusOverdue {
		t.Fatalf("past-due open task reads %s, want %s", got, StatusOverdue)
	}

	inProgress := Task{Status: StatusInProgress, DueDate: &future}
	if got := inProgress.EffectiveStatus(now); got != StatusInProgress {
		t.Fatalf("task due tomorrow reads %s, want %s", got, StatusInProgress)
	}

	completed := Task{Status: StatusCompleted, DueDate: &past}
	if got := completed.EffectiveStatus(now); got != StatusCompleted {
		t.Fatalf("completed task must never read overdue, got %s", got)
	}

	noDue := Task{Status: StatusOpen}
	if got := noDue.EffectiveStatus(now); got != StatusOpen {
		t.Fatalf("task without a due date reads %s, want %s", got, StatusOpen)
	}
}
