package reports

import "time"

// Record is one daily report joined with its author and task, the flat shape
// the listings and the PDF export render.
type Record struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	RoleName     string    `json:"roleName"`
	BranchName   string    `json:"branchName"`
	TaskTitle    string    `json:"taskTitle,omitempty"`
	Date         time.Time `json:"date"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Filter narrows a record listing. CompanyID is always required; BranchID
// restricts to that branch's subtree.
type Filter struct {
	CompanyID  string
	BranchID   string
	EmployeeID string
	TaskID     string
	From       time.Time
	To         time.Time
	// Limit of 0 means no paging; the PDF export always renders everything.
	Limit  int
	Offset int
}

type Dashboard struct {
	Branches        int `json:"branches"`
	Employees       int `json:"employees"`
	TasksOpen       int `json:"tasksOpen"`
	TasksInProgress int `json:"tasksInProgress"`
	TasksCompleted  int `json:"tasksCompleted"`
	TasksOverdue    int `json:"tasksOverdue"`
	ReportsToday    int `json:"reportsToday"`
}
