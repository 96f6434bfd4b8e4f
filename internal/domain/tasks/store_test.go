package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestUpdateStatusLastAssigneeClosesTask(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM tasks").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("in_progress"))
	mock.ExpectExec("UPDATE task_assignments").
		WithArgs("t1", "e1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE tasks").
		WithArgs("e1", "t1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE task_assignments").
		WithArgs("t1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, company_id, branch_id").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "branch_id", "created_by_role", "created_by_id",
			"title", "description", "due_date", "status", "completed_by", "completed_at", "created_at",
		}).AddRow("t1", "c1", "b1", "manager", "m1", "Ship it", "", nil, "completed", "e1", &now, now))

	task, err := store.UpdateStatus(context.Background(), "t1", "e1", false, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("expected completed task, got %s", task.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusAssigneeLeavesTaskOpenForOthers(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM tasks").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("in_progress"))
	mock.ExpectExec("UPDATE task_assignments").
		WithArgs("t1", "e1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, company_id, branch_id").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "branch_id", "created_by_role", "created_by_id",
			"title", "description", "due_date", "status", "completed_by", "completed_at", "created_at",
		}).AddRow("t1", "c1", "b1", "manager", "m1", "Ship it", "", nil, "in_progress", "", nil, now))

	task, err := store.UpdateStatus(context.Background(), "t1", "e1", false, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if task.Status != StatusInProgress {
		t.Fatalf("task with open assignments must stay in_progress, got %s", task.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsClosedTask(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM tasks").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("completed"))
	mock.ExpectRollback()

	if _, err := store.UpdateStatus(context.Background(), "t1", "e1", true, StatusInProgress); !errors.Is(err, ErrTaskAlreadyClosed) {
		t.Fatalf("expected ErrTaskAlreadyClosed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignTaskOutsideSubtree(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT company_id, branch_id, status FROM tasks").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"company_id", "branch_id", "status"}).AddRow("c1", "b1", "open"))
	mock.ExpectQuery("WITH RECURSIVE subtree").
		WithArgs("b1", "c1", "e9").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	if err := store.AssignTask(context.Background(), "t1", "e9"); !errors.Is(err, ErrScopeViolation) {
		t.Fatalf("expected ErrScopeViolation, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitReportRequiresAssignment(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("t1", "e1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	in := NewReport{TaskID: "t1", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Content: "did things"}
	if _, err := store.SubmitReport(context.Background(), "e1", in); !errors.Is(err, ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitReportDuplicateDate(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("t1", "e1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO daily_reports").
		WithArgs("e1", "t1", date, "did things").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	in := NewReport{TaskID: "t1", Date: date, Content: "did things"}
	if _, err := store.SubmitReport(context.Background(), "e1", in); !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
