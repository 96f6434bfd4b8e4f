package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/domain/rbac"
	"ems/internal/platform/db"
)

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const companyColumns = `
    SELECT id, name, username,
           COALESCE(contact_email, ''),
           COALESCE(contact_phone, ''),
           is_active, created_at
    FROM companies`

func (s *Store) CreateCompany(ctx context.Context, in NewCompany, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO companies (name, username, password_hash, contact_email, contact_phone)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, in.Name, in.Username, passwordHash, nullIfEmpty(in.ContactEmail), nullIfEmpty(in.ContactPhone)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	row := s.DB.QueryRow(ctx, companyColumns+` WHERE id = $1`, companyID)
	company, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.DB.Query(ctx, companyColumns+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *company)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCompany(ctx context.Context, companyID, name, contactEmail, contactPhone string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE companies
    SET name = $1, contact_email = $2, contact_phone = $3
    WHERE id = $4
  `, name, nullIfEmpty(contactEmail), nullIfEmpty(contactPhone), companyID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateCompany soft-deletes a company. The dependents check and the
// update run in one transaction so a branch activated concurrently cannot
// slip past the check.
func (s *Store) DeactivateCompany(ctx context.Context, companyID string) error {
	return db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		var active int
		err := q.QueryRow(ctx, `
      SELECT (SELECT COUNT(1) FROM branches WHERE company_id = $1 AND is_active)
           + (SELECT COUNT(1)
              FROM employees e
              JOIN branches b ON e.branch_id = b.id
              WHERE b.company_id = $1 AND e.is_active)
    `, companyID).Scan(&active)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrHasActiveDependents
		}

		cmd, err := q.Exec(ctx, "UPDATE companies SET is_active = FALSE WHERE id = $1", companyID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

const branchColumns = `
    SELECT id, company_id,
           COALESCE(parent_branch_id::text, ''),
           name,
           COALESCE(location, ''),
           COALESCE(head_name, ''),
           is_main, is_active, created_at
    FROM branches`

func (s *Store) GetBranch(ctx context.Context, branchID string) (*Branch, error) {
	row := s.DB.QueryRow(ctx, branchColumns+` WHERE id = $1`, branchID)
	branch, err := scanBranch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// CreateBranch validates the parent chain and inserts inside one transaction,
// holding the company's branch rows locked so concurrent creates cannot
// weave a cycle between check and write.
func (s *Store) CreateBranch(ctx context.Context, in NewBranch) (string, error) {
	var id string
	err := db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		parents, err := branchParentsForUpdate(ctx, q, in.CompanyID)
		if err != nil {
			return err
		}
		if err := validateParent(parents, "", in.ParentBranchID); err != nil {
			return err
		}

		return q.QueryRow(ctx, `
      INSERT INTO branches (company_id, parent_branch_id, name, location, head_name, is_main)
      VALUES ($1, $2, $3, $4, $5, $6)
      RETURNING id
    `, in.CompanyID, nullIfEmpty(in.ParentBranchID), in.Name, nullIfEmpty(in.Location), nullIfEmpty(in.Head), in.Main).Scan(&id)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateBranch(ctx context.Context, branchID, name, location, head string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE branches
    SET name = $1, location = $2, head_name = $3
    WHERE id = $4
  `, name, nullIfEmpty(location), nullIfEmpty(head), branchID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveBranch reparents a branch atomically. An empty newParentID makes the
// branch a root.
func (s *Store) MoveBranch(ctx context.Context, branchID, newParentID string) error {
	return db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		var companyID string
		err := q.QueryRow(ctx, "SELECT company_id FROM branches WHERE id = $1", branchID).Scan(&companyID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		parents, err := branchParentsForUpdate(ctx, q, companyID)
		if err != nil {
			return err
		}
		if err := validateParent(parents, branchID, newParentID); err != nil {
			return err
		}

		_, err = q.Exec(ctx, "UPDATE branches SET parent_branch_id = $1 WHERE id = $2", nullIfEmpty(newParentID), branchID)
		return err
	})
}

// SetBranchStatus flips a branch and cascades the flag to its employees in
// the same transaction, as one visible change.
func (s *Store) SetBranchStatus(ctx context.Context, branchID string, active bool) error {
	return db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		cmd, err := q.Exec(ctx, "UPDATE branches SET is_active = $1 WHERE id = $2", active, branchID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}

		_, err = q.Exec(ctx, "UPDATE employees SET is_active = $1 WHERE branch_id = $2", active, branchID)
		return err
	})
}

// ListBranchesUnder returns the subtree rooted at rootBranchID, or every
// branch of the company when rootBranchID is empty.
func (s *Store) ListBranchesUnder(ctx context.Context, companyID, rootBranchID string) ([]Branch, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if rootBranchID == "" {
		rows, err = s.DB.Query(ctx, branchColumns+`
      WHERE company_id = $1
      ORDER BY is_main DESC, name
    `, companyID)
	} else {
		rows, err = s.DB.Query(ctx, `
      WITH RECURSIVE subtree AS (
        SELECT id FROM branches WHERE id = $1 AND company_id = $2
        UNION ALL
        SELECT b.id FROM branches b JOIN subtree s ON b.parent_branch_id = s.id
      )`+branchColumns+`
      WHERE id IN (SELECT id FROM subtree)
      ORDER BY is_main DESC, name
    `, rootBranchID, companyID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *branch)
	}
	return out, rows.Err()
}

const employeeColumns = `
    SELECT e.id, e.branch_id, b.company_id, r.name, e.username, e.full_name, e.is_active, e.created_at
    FROM employees e
    JOIN branches b ON e.branch_id = b.id
    JOIN roles r ON e.role_id = r.id`

func (s *Store) CreateEmployee(ctx context.Context, in NewEmployee, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (branch_id, role_id, username, password_hash, full_name)
    VALUES ($1, (SELECT id FROM roles WHERE name = $2), $3, $4, $5)
    RETURNING id
  `, in.BranchID, rbac.DisplayNames[in.Role], in.Username, passwordHash, in.FullName).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, employeeColumns+` WHERE e.id = $1`, employeeID)
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID, fullName string, role rbac.Role) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET full_name = $1,
        role_id = (SELECT id FROM roles WHERE name = $2)
    WHERE id = $3
  `, fullName, rbac.DisplayNames[role], employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetEmployeeStatus(ctx context.Context, employeeID string, active bool) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE employees SET is_active = $1 WHERE id = $2", active, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEmployeesUnder returns employees of the subtree rooted at rootBranchID,
// or of the whole company when rootBranchID is empty.
func (s *Store) ListEmployeesUnder(ctx context.Context, companyID, rootBranchID string) ([]Employee, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if rootBranchID == "" {
		rows, err = s.DB.Query(ctx, employeeColumns+`
      WHERE b.company_id = $1
      ORDER BY e.full_name
    `, companyID)
	} else {
		rows, err = s.DB.Query(ctx, `
      WITH RECURSIVE subtree AS (
        SELECT id FROM branches WHERE id = $1 AND company_id = $2
        UNION ALL
        SELECT b.id FROM branches b JOIN subtree s ON b.parent_branch_id = s.id
      )`+employeeColumns+`
      WHERE e.branch_id IN (SELECT id FROM subtree)
      ORDER BY e.full_name
    `, rootBranchID, companyID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *employee)
	}
	return out, rows.Err()
}

// branchParentsForUpdate loads and locks the company's id->parent map. Every
// hierarchy mutation goes through this lock.
func branchParentsForUpdate(ctx context.Context, q db.Queryer, companyID string) (map[string]string, error) {
	rows, err := q.Query(ctx, `
    SELECT id, COALESCE(parent_branch_id::text, '')
    FROM branches
    WHERE company_id = $1
    FOR UPDATE
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := map[string]string{}
	for rows.Next() {
		var id, parent string
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, err
		}
		parents[id] = parent
	}
	return parents, rows.Err()
}

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.Name, &c.Username, &c.ContactEmail, &c.ContactPhone, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanBranch(row pgx.Row) (*Branch, error) {
	var b Branch
	if err := row.Scan(&b.ID, &b.CompanyID, &b.ParentBranchID, &b.Name, &b.Location, &b.Head, &b.Main, &b.Active, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	var roleName string
	if err := row.Scan(&e.ID, &e.BranchID, &e.CompanyID, &roleName, &e.Username, &e.FullName, &e.Active, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.RoleName = roleName
	if role, ok := rbac.RoleByName(roleName); ok {
		e.Role = role
	}
	return &e, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
