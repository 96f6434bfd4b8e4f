package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"ems/internal/domain/rbac"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock), rbac.NewEngine(nil)), mock
}

func TestSendAdminToCompany(t *testing.T) {
	t.Parallel()

	service, mock := newMockService(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(rbac.RoleAdmin, "admin", rbac.RoleCompany, "c1", "hello").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "sender_role", "sender_id", "recipient_role", "recipient_id", "body", "is_read", "sent_at",
		}).AddRow("m1", rbac.RoleAdmin, "admin", rbac.RoleCompany, "c1", "hello", false, now))

	actor := rbac.Actor{ID: "admin", Role: rbac.RoleAdmin}
	msg, err := service.Send(context.Background(), actor, rbac.Peer{ID: "c1", Role: rbac.RoleCompany}, "hello")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if msg.RecipientID != "c1" || msg.Read {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSendRejectsEmployeeSender(t *testing.T) {
	t.Parallel()

	service, _ := newMockService(t)

	actor := rbac.Actor{ID: "e1", Role: rbac.RoleEmployee, CompanyID: "c1", BranchID: "b1"}
	if _, err := service.Send(context.Background(), actor, rbac.Peer{ID: "admin", Role: rbac.RoleAdmin}, "hi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSendRejectsCompanyToCompany(t *testing.T) {
	t.Parallel()

	service, _ := newMockService(t)

	actor := rbac.Actor{ID: "c1", Role: rbac.RoleCompany, CompanyID: "c1"}
	if _, err := service.Send(context.Background(), actor, rbac.Peer{ID: "c2", Role: rbac.RoleCompany}, "hi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestThreadMarksInboundRead(t *testing.T) {
	t.Parallel()

	service, mock := newMockService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM messages").
		WithArgs(rbac.RoleCompany, "c1", rbac.RoleAdmin, "admin").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "sender_role", "sender_id", "recipient_role", "recipient_id", "body", "is_read", "sent_at",
		}).
			AddRow("m1", rbac.RoleAdmin, "admin", rbac.RoleCompany, "c1", "hello", false, now).
			AddRow("m2", rbac.RoleCompany, "c1", rbac.RoleAdmin, "admin", "hi back", true, now))
	mock.ExpectExec("UPDATE messages").
		WithArgs(rbac.RoleCompany, "c1", rbac.RoleAdmin, "admin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	actor := rbac.Actor{ID: "c1", Role: rbac.RoleCompany, CompanyID: "c1"}
	thread, err := service.Thread(context.Background(), actor, rbac.Peer{ID: "admin", Role: rbac.RoleAdmin})
	if err != nil {
		t.Fatalf("Thread returned error: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(thread))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRejectsEmployeeReader(t *testing.T) {
	t.Parallel()

	service, _ := newMockService(t)

	actor := rbac.Actor{ID: "m1", Role: rbac.RoleManager, CompanyID: "c1", BranchID: "b1"}
	if _, err := service.Thread(context.Background(), actor, rbac.Peer{ID: "admin", Role: rbac.RoleAdmin}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
