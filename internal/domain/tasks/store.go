package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ems/internal/platform/db"
)

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const taskColumns = `
    SELECT id, company_id, branch_id, created_by_role,
           COALESCE(created_by_id, ''),
           title,
           COALESCE(description, ''),
           due_date, status,
           COALESCE(completed_by, ''),
           completed_at, created_at
    FROM tasks`

// CreateTask inserts the task and its assignments in one transaction. A
// whole-branch task fans out to every active employee of the branch; direct
// assignees must sit inside the task branch's subtree.
func (s *Store) CreateTask(ctx context.Context, createdByRole, createdByID string, in NewTask) (string, error) {
	var id string
	err := db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		var companyID string
		err := q.QueryRow(ctx, "SELECT company_id FROM branches WHERE id = $1", in.BranchID).Scan(&companyID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		err = q.QueryRow(ctx, `
      INSERT INTO tasks (company_id, branch_id, created_by_role, created_by_id, title, description, due_date)
      VALUES ($1, $2, $3, $4, $5, $6, $7)
      RETURNING id
    `, companyID, in.BranchID, createdByRole, nullIfEmpty(createdByID), in.Title, nullIfEmpty(in.Description), in.DueDate).Scan(&id)
		if err != nil {
			return err
		}

		if in.WholeBranch {
			_, err = q.Exec(ctx, `
        INSERT INTO task_assignments (task_id, employee_id)
        SELECT $1, id FROM employees WHERE branch_id = $2 AND is_active
        ON CONFLICT DO NOTHING
      `, id, in.BranchID)
			return err
		}

		for _, employeeID := range in.AssigneeIDs {
			if err := assignInTx(ctx, q, id, companyID, in.BranchID, employeeID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignTask adds an assignee. Re-assigning the same employee is a no-op.
func (s *Store) AssignTask(ctx context.Context, taskID, employeeID string) error {
	return db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		var companyID, branchID string
		var status Status
		err := q.QueryRow(ctx, "SELECT company_id, branch_id, status FROM tasks WHERE id = $1 FOR UPDATE", taskID).
			Scan(&companyID, &branchID, &status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status == StatusCompleted {
			return ErrTaskAlreadyClosed
		}
		return assignInTx(ctx, q, taskID, companyID, branchID, employeeID)
	})
}

// assignInTx verifies the assignee is an active employee inside the task
// branch's subtree before inserting. Outside the subtree is a scope
// violation even when the assignee belongs to the same company.
func assignInTx(ctx context.Context, q db.Queryer, taskID, companyID, branchID, employeeID string) error {
	var reachable int
	err := q.QueryRow(ctx, `
    WITH RECURSIVE subtree AS (
      SELECT id FROM branches WHERE id = $1 AND company_id = $2
      UNION ALL
      SELECT b.id FROM branches b JOIN subtree s ON b.parent_branch_id = s.id
    )
    SELECT COUNT(1) FROM employees
    WHERE id = $3 AND is_active AND branch_id IN (SELECT id FROM subtree)
  `, branchID, companyID, employeeID).Scan(&reachable)
	if err != nil {
		return err
	}
	if reachable == 0 {
		return ErrScopeViolation
	}

	_, err = q.Exec(ctx, `
    INSERT INTO task_assignments (task_id, employee_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING
  `, taskID, employeeID)
	return err
}

// UpdateStatus applies a transition under a row lock. A manager-tier move to
// completed closes the whole task; an assignee's completion closes only their
// assignment, and the task when theirs was the last one open.
func (s *Store) UpdateStatus(ctx context.Context, taskID, actorID string, managerTier bool, to Status) (*Task, error) {
	err := db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		var current Status
		err := q.QueryRow(ctx, "SELECT status FROM tasks WHERE id = $1 FOR UPDATE", taskID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := validateTransition(current, to); err != nil {
			return err
		}

		if to != StatusCompleted {
			_, err = q.Exec(ctx, "UPDATE tasks SET status = $1 WHERE id = $2", to, taskID)
			return err
		}

		if managerTier {
			return closeTask(ctx, q, taskID, actorID)
		}

		cmd, err := q.Exec(ctx, `
      UPDATE task_assignments
      SET completed = TRUE, completed_at = NOW()
      WHERE task_id = $1 AND employee_id = $2 AND NOT completed
    `, taskID, actorID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrOutOfScope
		}

		var open int
		err = q.QueryRow(ctx, `
      SELECT COUNT(1) FROM task_assignments WHERE task_id = $1 AND NOT completed
    `, taskID).Scan(&open)
		if err != nil {
			return err
		}
		if open == 0 {
			return closeTask(ctx, q, taskID, actorID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, taskID)
}

func closeTask(ctx context.Context, q db.Queryer, taskID, actorID string) error {
	_, err := q.Exec(ctx, `
    UPDATE tasks
    SET status = 'completed', completed_by = $1, completed_at = NOW()
    WHERE id = $2
  `, nullIfEmpty(actorID), taskID)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
    UPDATE task_assignments
    SET completed = TRUE, completed_at = NOW()
    WHERE task_id = $1 AND NOT completed
  `, taskID)
	return err
}

// BranchCompany resolves a branch to its owning company.
func (s *Store) BranchCompany(ctx context.Context, branchID string) (string, error) {
	var companyID string
	err := s.DB.QueryRow(ctx, "SELECT company_id FROM branches WHERE id = $1", branchID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return companyID, nil
}

func (s *Store) GetTask(ctx context.Context, taskID string) (*Task, error) {
	row := s.DB.QueryRow(ctx, taskColumns+` WHERE id = $1`, taskID)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, taskColumns+`
    WHERE id IN (SELECT task_id FROM task_assignments WHERE employee_id = $1)
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) ListForBranch(ctx context.Context, branchID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, taskColumns+`
    WHERE branch_id = $1
    ORDER BY created_at DESC
  `, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) ListForCompany(ctx context.Context, companyID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, taskColumns+`
    WHERE company_id = $1
    ORDER BY created_at DESC
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Progress returns per-assignee completion for one task.
func (s *Store) Progress(ctx context.Context, taskID string) (*Progress, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.employee_id, e.full_name, r.name, a.completed, a.completed_at
    FROM task_assignments a
    JOIN employees e ON a.employee_id = e.id
    JOIN roles r ON e.role_id = r.id
    WHERE a.task_id = $1
    ORDER BY e.full_name
  `, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := Progress{TaskID: taskID}
	for rows.Next() {
		var a AssigneeProgress
		if err := rows.Scan(&a.EmployeeID, &a.FullName, &a.RoleName, &a.Completed, &a.CompletedAt); err != nil {
			return nil, err
		}
		progress.Total++
		if a.Completed {
			progress.Completed++
		}
		progress.Assignees = append(progress.Assignees, a)
	}
	return &progress, rows.Err()
}

// SubmitReport inserts a daily report. A task-specific report requires an
// assignment; the unique index backstops the one-per-day rule.
func (s *Store) SubmitReport(ctx context.Context, employeeID string, in NewReport) (string, error) {
	var id string
	err := db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		if in.TaskID != "" {
			var assigned int
			err := q.QueryRow(ctx, `
        SELECT COUNT(1) FROM task_assignments WHERE task_id = $1 AND employee_id = $2
      `, in.TaskID, employeeID).Scan(&assigned)
			if err != nil {
				return err
			}
			if assigned == 0 {
				return ErrOutOfScope
			}
		}

		err := q.QueryRow(ctx, `
      INSERT INTO daily_reports (employee_id, task_id, report_date, content)
      VALUES ($1, $2, $3, $4)
      RETURNING id
    `, employeeID, nullIfEmpty(in.TaskID), in.Date, in.Content).Scan(&id)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReport
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *task)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	if err := row.Scan(&t.ID, &t.CompanyID, &t.BranchID, &t.CreatedByRole, &t.CreatedByID,
		&t.Title, &t.Description, &t.DueDate, &t.Status, &t.CompletedByID, &t.CompletedAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
