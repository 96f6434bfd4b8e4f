package reports

import (
	"context"
	"fmt"
	"strings"

	"ems/internal/platform/db"
)

type Store struct {
	DB db.Queryer
}

func NewStore(q db.Queryer) *Store {
	return &Store{DB: q}
}

// ListRecords returns reports matching the filter, newest date first. The
// branch filter covers the branch's whole subtree.
func (s *Store) ListRecords(ctx context.Context, f Filter) ([]Record, error) {
	var sb strings.Builder
	args := []any{f.CompanyID}

	sb.WriteString(`
    SELECT r.id, r.employee_id, e.full_name, ro.name, b.name,
           COALESCE(t.title, ''),
           r.report_date, r.content, r.created_at
    FROM daily_reports r
    JOIN employees e ON r.employee_id = e.id
    JOIN branches b ON e.branch_id = b.id
    JOIN roles ro ON e.role_id = ro.id
    LEFT JOIN tasks t ON r.task_id = t.id
    WHERE b.company_id = $1`)

	if f.BranchID != "" {
		args = append(args, f.BranchID)
		fmt.Fprintf(&sb, `
      AND e.branch_id IN (
        WITH RECURSIVE subtree AS (
          SELECT id FROM branches WHERE id = $%d AND company_id = $1
          UNION ALL
          SELECT br.id FROM branches br JOIN subtree s ON br.parent_branch_id = s.id
        )
        SELECT id FROM subtree
      )`, len(args))
	}
	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		fmt.Fprintf(&sb, " AND r.employee_id = $%d", len(args))
	}
	if f.TaskID != "" {
		args = append(args, f.TaskID)
		fmt.Fprintf(&sb, " AND r.task_id = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		fmt.Fprintf(&sb, " AND r.report_date >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		fmt.Fprintf(&sb, " AND r.report_date <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY r.report_date DESC, e.full_name")
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.RoleName, &r.BranchName,
			&r.TaskTitle, &r.Date, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Dashboard aggregates a company's counters in one round trip. Overdue is
// computed against NOW() rather than read from a column.
func (s *Store) Dashboard(ctx context.Context, companyID string) (*Dashboard, error) {
	var d Dashboard
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM branches WHERE company_id = $1 AND is_active),
      (SELECT COUNT(1) FROM employees e JOIN branches b ON e.branch_id = b.id
        WHERE b.company_id = $1 AND e.is_active),
      (SELECT COUNT(1) FROM tasks WHERE company_id = $1 AND status = 'open'),
      (SELECT COUNT(1) FROM tasks WHERE company_id = $1 AND status = 'in_progress'),
      (SELECT COUNT(1) FROM tasks WHERE company_id = $1 AND status = 'completed'),
      (SELECT COUNT(1) FROM tasks WHERE company_id = $1
        AND status <> 'completed' AND due_date IS NOT NULL AND due_date < NOW()),
      (SELECT COUNT(1) FROM daily_reports r JOIN employees e ON r.employee_id = e.id
        JOIN branches b ON e.branch_id = b.id
        WHERE b.company_id = $1 AND r.report_date = CURRENT_DATE)
  `, companyID).Scan(&d.Branches, &d.Employees, &d.TasksOpen, &d.TasksInProgress,
		&d.TasksCompleted, &d.TasksOverdue, &d.ReportsToday)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
