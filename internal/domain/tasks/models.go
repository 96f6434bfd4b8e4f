package tasks

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"

	// StatusOverdue is derived from the due date at read time and never
	// stored, so it cannot go stale.
	StatusOverdue Status = "overdue"
)

type Task struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"companyId"`
	BranchID      string     `json:"branchId"`
	CreatedByRole string     `json:"createdByRole"`
	CreatedByID   string     `json:"createdById"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Status        Status     `json:"status"`
	CompletedByID string     `json:"completedById,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// EffectiveStatus folds the due date in: a task past due and not completed
// reads as overdue.
func (t Task) EffectiveStatus(now time.Time) Status {
	if t.Status != StatusCompleted && t.DueDate != nil && t.DueDate.Before(now) {
		return StatusOverdue
	}
	return t.Status
}

type Assignment struct {
	TaskID      string     `json:"taskId"`
	EmployeeID  string     `json:"employeeId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	AssignedAt  time.Time  `json:"assignedAt"`
}

type NewTask struct {
	BranchID    string
	Title       string
	Description string
	DueDate     *time.Time
	// AssigneeIDs lists direct assignees; WholeBranch instead fans the task
	// out to every active employee of the branch.
	AssigneeIDs []string
	WholeBranch bool
}

type Report struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	TaskID     string    `json:"taskId,omitempty"`
	Date       time.Time `json:"date"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewReport struct {
	TaskID  string
	Date    time.Time
	Content string
}

type AssigneeProgress struct {
	EmployeeID  string     `json:"employeeId"`
	FullName    string     `json:"fullName"`
	RoleName    string     `json:"roleName"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Progress struct {
	TaskID    string             `json:"taskId"`
	Total     int                `json:"total"`
	Completed int                `json:"completed"`
	Assignees []AssigneeProgress `json:"assignees"`
}
