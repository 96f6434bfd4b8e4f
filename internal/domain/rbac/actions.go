package rbac

type Action string

const (
	ActionCreateCompany    Action = "company.create"
	ActionManageCompany    Action = "company.manage"
	ActionManageBranch     Action = "branch.manage"
	ActionManageEmployee   Action = "employee.manage"
	ActionCreateTask       Action = "task.create"
	ActionAssignTask       Action = "task.assign"
	ActionUpdateTaskStatus Action = "task.status"
	ActionSubmitReport     Action = "report.submit"
	ActionViewReport       Action = "report.view"
	ActionSendMessage      Action = "message.send"
)

// managerActions is the employee-management/task-assignment set a Manager may
// perform inside their branch subtree. Company and branch creation stay with
// the tenant-scope roles.
var managerActions = map[Action]bool{
	ActionManageEmployee:   true,
	ActionCreateTask:       true,
	ActionAssignTask:       true,
	ActionUpdateTaskStatus: true,
	ActionSubmitReport:     true,
	ActionViewReport:       true,
}
