package tasks

import (
	"context"
	"time"

	"ems/internal/domain/rbac"
)

// Service fronts the task store. Authorization runs before every store call;
// scope rules inside the store (assignment reachability, transition locks)
// still apply afterwards.
type Service struct {
	store *Store
	authz *rbac.Engine
}

func NewService(store *Store, authz *rbac.Engine) *Service {
	return &Service{store: store, authz: authz}
}

func (s *Service) authorize(ctx context.Context, actor rbac.Actor, action rbac.Action, target rbac.Target) error {
	decision, err := s.authz.Authorize(ctx, actor, action, target)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return rbac.ErrDenied
	}
	return nil
}

func (s *Service) CreateTask(ctx context.Context, actor rbac.Actor, in NewTask) (*Task, error) {
	companyID, err := s.store.BranchCompany(ctx, in.BranchID)
	if err != nil {
		return nil, s.denyMissing(actor, err)
	}
	if err := s.authorize(ctx, actor, rbac.ActionCreateTask, rbac.Target{CompanyID: companyID, BranchID: in.BranchID}); err != nil {
		return nil, err
	}

	id, err := s.store.CreateTask(ctx, string(actor.Role), actor.ID, in)
	if err != nil {
		return nil, err
	}
	return s.store.GetTask(ctx, id)
}

// AssignTask checks the task and the assignee separately: the actor must be
// able to reach both before the store enforces branch reachability between
// them.
func (s *Service) AssignTask(ctx context.Context, actor rbac.Actor, taskID, employeeID string) error {
	if err := s.authorize(ctx, actor, rbac.ActionAssignTask, rbac.Target{TaskID: taskID}); err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, rbac.ActionAssignTask, rbac.Target{EmployeeID: employeeID}); err != nil {
		return err
	}
	return s.store.AssignTask(ctx, taskID, employeeID)
}

func (s *Service) UpdateStatus(ctx context.Context, actor rbac.Actor, taskID string, to Status) (*Task, error) {
	if err := s.authorize(ctx, actor, rbac.ActionUpdateTaskStatus, rbac.Target{TaskID: taskID}); err != nil {
		return nil, err
	}

	managerTier := actor.Role == rbac.RoleAdmin || actor.Role == rbac.RoleCompany || rbac.IsManagerTier(actor.Role)
	return s.store.UpdateStatus(ctx, taskID, actor.ID, managerTier, to)
}

func (s *Service) GetTask(ctx context.Context, actor rbac.Actor, taskID string) (*Task, error) {
	if err := s.authorize(ctx, actor, rbac.ActionViewReport, rbac.Target{TaskID: taskID}); err != nil {
		return nil, err
	}
	return s.store.GetTask(ctx, taskID)
}

func (s *Service) Progress(ctx context.Context, actor rbac.Actor, taskID string) (*Progress, error) {
	if err := s.authorize(ctx, actor, rbac.ActionViewReport, rbac.Target{TaskID: taskID}); err != nil {
		return nil, err
	}
	return s.store.Progress(ctx, taskID)
}

// ListAssigned returns the actor's own assignments.
func (s *Service) ListAssigned(ctx context.Context, actor rbac.Actor) ([]Task, error) {
	if !rbac.IsEmployeeTier(actor.Role) {
		return nil, rbac.ErrDenied
	}
	return s.store.ListForEmployee(ctx, actor.ID)
}

func (s *Service) ListForBranch(ctx context.Context, actor rbac.Actor, branchID string) ([]Task, error) {
	companyID, err := s.store.BranchCompany(ctx, branchID)
	if err != nil {
		return nil, s.denyMissing(actor, err)
	}
	if err := s.authorize(ctx, actor, rbac.ActionViewReport, rbac.Target{CompanyID: companyID, BranchID: branchID}); err != nil {
		return nil, err
	}
	return s.store.ListForBranch(ctx, branchID)
}

func (s *Service) ListForCompany(ctx context.Context, actor rbac.Actor, companyID string) ([]Task, error) {
	if err := s.authorize(ctx, actor, rbac.ActionViewReport, rbac.Target{CompanyID: companyID}); err != nil {
		return nil, err
	}
	return s.store.ListForCompany(ctx, companyID)
}

// SubmitReport files a daily report for the actor. The date defaults to today.
func (s *Service) SubmitReport(ctx context.Context, actor rbac.Actor, in NewReport) (string, error) {
	if err := s.authorize(ctx, actor, rbac.ActionSubmitReport, rbac.Target{EmployeeID: actor.ID}); err != nil {
		return "", err
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return s.store.SubmitReport(ctx, actor.ID, in)
}

func (s *Service) denyMissing(actor rbac.Actor, err error) error {
	if err != ErrNotFound {
		return err
	}
	if actor.Role == rbac.RoleAdmin {
		return ErrNotFound
	}
	return rbac.ErrDenied
}
