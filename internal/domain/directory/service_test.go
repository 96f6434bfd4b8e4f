package directory

import (
	"context"
	"errors"
	"testing"

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
	engine := rbac.NewEngine(rbac.NewStore(mock))
	return NewService(NewStore(mock), engine), mock
}

func expectEmployeeScope(mock pgxmock.PgxPoolIface, employeeID, companyID, branchID, roleName string) {
	mock.ExpectQuery("SELECT b.company_id, e.branch_id, r.name").
		WithArgs(employeeID).
		WillReturnRows(pgxmock.NewRows([]string{"company_id", "branch_id", "name"}).
			AddRow(companyID, branchID, roleName))
}

func expectSubtreeHit(mock pgxmock.PgxPoolIface, rootID, companyID, branchID string) {
	mock.ExpectQuery("WITH RECURSIVE subtree").
		WithArgs(rootID, companyID, branchID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
}

func TestUpdateEmployeeDeniesPromotionAboveActor(t *testing.T) {
	t.Parallel()

	service, mock := newMockService(t)
	asst := rbac.Actor{ID: "a1", Role: rbac.RoleAsstManager, CompanyID: "c1", BranchID: "b1"}

	expectEmployeeScope(mock, "e1", "c1", "b1", "General Employee")
	expectSubtreeHit(mock, "b1", "c1", "b1")

	err := service.UpdateEmployee(context.Background(), asst, "e1", "Evan Employee", rbac.RoleManager)
	if !errors.Is(err, rbac.ErrDenied) {
		t.Fatalf("expected denial, got %v", err)
	}

	// No UPDATE may reach the store once the engine denies.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateEmployeeDeniesPeerManagerPromotion(t *testing.T) {
	t.Parallel()

	service, mock := newMockService(t)
	manager := rbac.Actor{ID: "m1", Role: rbac.RoleManager, CompanyID: "c1", BranchID: "b1"}

	expectEmployeeScope(mock, "e1", "c1", "b1", "General Employee")
	expectSubtreeHit(mock, "b1", "c1", "b1")

	err := service.UpdateEmployee(context.Background(), manager, "e1", "Evan Employee", rbac.RoleManager)
	if !errors.Is(err, rbac.ErrDenied) {
		t.Fatalf("expected denial, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateEmployeeAllowsPromotionWithinRank(t *testing.T) {
	t.Parallel()

	service, mock := newMockService(t)
	manager := rbac.Actor{ID: "m1", Role: rbac.RoleManager, CompanyID: "c1", BranchID: "b1"}

	expectEmployeeScope(mock, "e1", "c1", "b1", "General Employee")
	expectSubtreeHit(mock, "b1", "c1", "b1")
	mock.ExpectExec("UPDATE employees").
		WithArgs("Evan Employee", "Asst. Manager", "e1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := service.UpdateEmployee(context.Background(), manager, "e1", "Evan Employee", rbac.RoleAsstManager)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
