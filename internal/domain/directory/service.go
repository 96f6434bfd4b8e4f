package directory

import (
	"context"

	"ems/internal/domain/auth"
	"ems/internal/domain/rbac"
)

// Service fronts the hierarchy store. Every mutating call asks the
// authorization engine first; a denial surfaces as rbac.ErrDenied regardless
// of whether the target exists.
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

func (s *Service) CreateCompany(ctx context.Context, actor rbac.Actor, in NewCompany) (*Company, error) {
	if err := s.authorize(ctx, actor, rbac.ActionCreateCompany, rbac.Target{}); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateCompany(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	return s.store.GetCompany(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, actor rbac.Actor) ([]Company, error) {
	if err := s.authorize(ctx, actor, rbac.ActionManageCompany, rbac.Target{}); err != nil {
		return nil, err
	}
	return s.store.ListCompanies(ctx)
}

func (s *Service) GetCompany(ctx context.Context, actor rbac.Actor, companyID string) (*Company, error) {
	if err := s.authorize(ctx, actor, rbac.ActionManageCompany, rbac.Target{CompanyID: companyID}); err != nil {
		return nil, err
	}
	return s.store.GetCompany(ctx, companyID)
}

func (s *Service) UpdateCompany(ctx context.Context, actor rbac.Actor, companyID, name, contactEmail, contactPhone string) error {
	if err := s.authorize(ctx, actor, rbac.ActionManageCompany, rbac.Target{CompanyID: companyID}); err != nil {
		return err
	}
	return s.store.UpdateCompany(ctx, companyID, name, contactEmail, contactPhone)
}

func (s *Service) DeactivateCompany(ctx context.Context, actor rbac.Actor, companyID string) error {
	if err := s.authorize(ctx, actor, rbac.ActionManageCompany, rbac.Target{CompanyID: companyID}); err != nil {
		return err
	}
	return s.store.DeactivateCompany(ctx, companyID)
}

func (s *Service) CreateBranch(ctx context.Context, actor rbac.Actor, in NewBranch) (*Branch, error) {
	if err := s.authorize(ctx, actor, rbac.ActionManageBranch, rbac.Target{CompanyID: in.CompanyID}); err != nil {
		return nil, err
	}

	id, err := s.store.CreateBranch(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.store.GetBranch(ctx, id)
}

func (s *Service) UpdateBranch(ctx context.Context, actor rbac.Actor, branchID, name, location, head string) error {
	branch, err := s.store.GetBranch(ctx, branchID)
	if err != nil {
		return s.denyMissing(actor, err)
	}
	if err := s.authorize(ctx, actor, rbac.ActionManageBranch, rbac.Target{CompanyID: branch.CompanyID, BranchID: branchID}); err != nil {
		return err
	}
	return s.store.UpdateBranch(ctx, branchID, name, location, head)
}

func (s *Service) MoveBranch(ctx context.Context, actor rbac.Actor, branchID, newParentID string) error {
	branch, err := s.store.GetBranch(ctx, branchID)
	if err != nil {
		return s.denyMissing(actor, err)
	}
	if err := s.authorize(ctx, actor, rbac.ActionManageBranch, rbac.Target{CompanyID: branch.CompanyID, BranchID: branchID}); err != nil {
		return err
	}
	return s.store.MoveBranch(ctx, branchID, newParentID)
}

func (s *Service) SetBranchStatus(ctx context.Context, actor rbac.Actor, branchID string, active bool) error {
	branch, err := s.store.GetBranch(ctx, branchID)
	if err != nil {
		return s.denyMissing(actor, err)
	}
	if err := s.authorize(ctx, actor, rbac.ActionManageBranch, rbac.Target{CompanyID: branch.CompanyID, BranchID: branchID}); err != nil {
		return err
	}
	return s.store.SetBranchStatus(ctx, branchID, active)
}

// ListBranchesUnder serves the subtree visible to the actor. Tenant-scope
// roles authorize as branch management; manager-tier actors see their own
// subtree through the employee-management action set.
func (s *Service) ListBranchesUnder(ctx context.Context, actor rbac.Actor, companyID, rootBranchID string) ([]Branch, error) {
	action := rbac.ActionManageBranch
	if rbac.IsManagerTier(actor.Role) {
		action = rbac.ActionManageEmployee
		if rootBranchID == "" {
			rootBranchID = actor.BranchID
		}
	}
	if err := s.authorize(ctx, actor, action, rbac.Target{CompanyID: companyID, BranchID: rootBranchID}); err != nil {
		return nil, err
	}
	return s.store.ListBranchesUnder(ctx, companyID, rootBranchID)
}

func (s *Service) CreateEmployee(ctx context.Context, actor rbac.Actor, in NewEmployee) (*Employee, error) {
	branch, err := s.store.GetBranch(ctx, in.BranchID)
	if err != nil {
		return nil, s.denyMissing(actor, err)
	}
	target := rbac.Target{CompanyID: branch.CompanyID, BranchID: in.BranchID, EmployeeRole: in.Role}
	if err := s.authorize(ctx, actor, rbac.ActionManageEmployee, target); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateEmployee(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) GetEmployee(ctx context.Context, actor rbac.Actor, employeeID string) (*Employee, error) {
	if err := s.authorize(ctx, actor, rbac.ActionManageEmployee, rbac.Target{EmployeeID: employeeID}); err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) UpdateEmployee(ctx context.Context, actor rbac.Actor, employeeID, fullName string, role rbac.Role) error {
	// EmployeeRole carries the role being written so the engine checks the
	// promotion as well as the current row.
	target := rbac.Target{EmployeeID: employeeID, EmployeeRole: role}
	if err := s.authorize(ctx, actor, rbac.ActionManageEmployee, target); err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, employeeID, fullName, role)
}

func (s *Service) SetEmployeeStatus(ctx context.Context, actor rbac.Actor, employeeID string, active bool) error {
	if err := s.authorize(ctx, actor, rbac.ActionManageEmployee, rbac.Target{EmployeeID: employeeID}); err != nil {
		return err
	}
	return s.store.SetEmployeeStatus(ctx, employeeID, active)
}

func (s *Service) ListEmployeesUnder(ctx context.Context, actor rbac.Actor, companyID, rootBranchID string) ([]Employee, error) {
	if rbac.IsManagerTier(actor.Role) && rootBranchID == "" {
		rootBranchID = actor.BranchID
	}
	if err := s.authorize(ctx, actor, rbac.ActionManageEmployee, rbac.Target{CompanyID: companyID, BranchID: rootBranchID}); err != nil {
		return nil, err
	}
	return s.store.ListEmployeesUnder(ctx, companyID, rootBranchID)
}

// denyMissing folds a missing target into the uniform denial for everyone
// the engine would have denied anyway, so probing ids reveals nothing.
func (s *Service) denyMissing(actor rbac.Actor, err error) error {
	if err != ErrNotFound {
		return err
	}
	if actor.Role == rbac.RoleAdmin {
		return ErrNotFound
	}
	return rbac.ErrDenied
}
