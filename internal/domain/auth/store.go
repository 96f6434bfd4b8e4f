package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

type Store struct {
	DB db.Queryer
}

func NewStore(q db.Queryer) *Store {
	return &Store{DB: q}
}

type CompanyLogin struct {
	ID           string
	Name         string
	PasswordHash string
}

type EmployeeLogin struct {
	ID           string
	FullName     string
	PasswordHash string
	BranchID     string
	CompanyID    string
	RoleName     string
}

// FindActiveCompany matches only active companies, mirroring the login order
// the page layer expects: admin, then company, then employee.
func (s *Store) FindActiveCompany(ctx context.Context, username string) (*CompanyLogin, error) {
	var out CompanyLogin
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, password_hash
    FROM companies
    WHERE username = $1 AND is_active
  `, username).Scan(&out.ID, &out.Name, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindActiveEmployee requires the employee, its branch and its company to all
// be active.
func (s *Store) FindActiveEmployee(ctx context.Context, username string) (*EmployeeLogin, error) {
	var out EmployeeLogin
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.full_name, e.password_hash, e.branch_id, b.company_id, r.name
    FROM employees e
    JOIN branches b ON e.branch_id = b.id
    JOIN companies c ON b.company_id = c.id
    JOIN roles r ON e.role_id = r.id
    WHERE e.username = $1 AND e.is_active AND b.is_active AND c.is_active
  `, username).Scan(&out.ID, &out.FullName, &out.PasswordHash, &out.BranchID, &out.CompanyID, &out.RoleName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
