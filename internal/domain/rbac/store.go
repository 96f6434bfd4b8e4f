package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

// Store resolves target scopes straight from the relational schema.
type Store struct {
	DB db.Queryer
}

func NewStore(q db.Queryer) *Store {
	return &Store{DB: q}
}

// BranchInSubtree reports whether branchID is rootBranchID or one of its
// descendants inside companyID. An empty branch is never reachable.
func (s *Store) BranchInSubtree(ctx context.Context, companyID, rootBranchID, branchID string) (bool, error) {
	if companyID == "" || rootBranchID == "" || branchID == "" {
		return false, nil
	}
	var count int
	err := s.DB.QueryRow(ctx, `
    WITH RECURSIVE subtree AS (
      SELECT id FROM branches WHERE id = $1 AND company_id = $2
      UNION ALL
      SELECT b.id FROM branches b JOIN subtree s ON b.parent_branch_id = s.id
    )
    SELECT COUNT(1) FROM subtree WHERE id = $3
  `, rootBranchID, companyID, branchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) EmployeeScope(ctx context.Context, employeeID string) (EmployeeScope, bool, error) {
	if employeeID == "" {
		return EmployeeScope{}, false, nil
	}
	var scope EmployeeScope
	var roleName string
	err := s.DB.QueryRow(ctx, `
    SELECT b.company_id, e.branch_id, r.name
    FROM employees e
    JOIN branches b ON e.branch_id = b.id
    JOIN roles r ON e.role_id = r.id
    WHERE e.id = $1
  `, employeeID).Scan(&scope.CompanyID, &scope.BranchID, &roleName)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeScope{}, false, nil
	}
	if err != nil {
		return EmployeeScope{}, false, err
	}
	role, ok := RoleByName(roleName)
	if !ok {
		return EmployeeScope{}, false, nil
	}
	scope.Role = role
	return scope, true, nil
}

func (s *Store) TaskScope(ctx context.Context, taskID string) (TaskScope, bool, error) {
	if taskID == "" {
		return TaskScope{}, false, nil
	}
	var scope TaskScope
	err := s.DB.QueryRow(ctx, `
    SELECT company_id, branch_id FROM tasks WHERE id = $1
  `, taskID).Scan(&scope.CompanyID, &scope.BranchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return TaskScope{}, false, nil
	}
	if err != nil {
		return TaskScope{}, false, err
	}
	return scope, true, nil
}

func (s *Store) TaskAssignedTo(ctx context.Context, taskID, employeeID string) (bool, error) {
	if taskID == "" || employeeID == "" {
		return false, nil
	}
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM task_assignments WHERE task_id = $1 AND employee_id = $2
  `, taskID, employeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
