package reports

import (
	"context"

	"ems/internal/domain/rbac"
)

// Service authorizes report reads. An employee filter authorizes against that
// employee; otherwise the branch (or whole company) scope applies, with
// manager-tier actors pinned to their own subtree.
type Service struct {
	store *Store
	authz *rbac.Engine
}

func NewService(store *Store, authz *rbac.Engine) *Service {
	return &Service{store: store, authz: authz}
}

func (s *Service) authorize(ctx context.Context, actor rbac.Actor, target rbac.Target) error {
	decision, err := s.authz.Authorize(ctx, actor, rbac.ActionViewReport, target)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return rbac.ErrDenied
	}
	return nil
}

func (s *Service) Records(ctx context.Context, actor rbac.Actor, f Filter) ([]Record, error) {
	if actor.CompanyID != "" {
		f.CompanyID = actor.CompanyID
	}
	if rbac.IsManagerTier(actor.Role) && f.BranchID == "" && f.EmployeeID == "" {
		f.BranchID = actor.BranchID
	}
	if actor.Role == rbac.RoleEmployee && f.EmployeeID == "" {
		f.EmployeeID = actor.ID
	}

	target := rbac.Target{CompanyID: f.CompanyID, BranchID: f.BranchID}
	if f.EmployeeID != "" {
		target = rbac.Target{EmployeeID: f.EmployeeID}
	}
	if err := s.authorize(ctx, actor, target); err != nil {
		return nil, err
	}
	return s.store.ListRecords(ctx, f)
}

func (s *Service) Dashboard(ctx context.Context, actor rbac.Actor, companyID string) (*Dashboard, error) {
	if actor.CompanyID != "" {
		companyID = actor.CompanyID
	}
	if err := s.authorize(ctx, actor, rbac.Target{CompanyID: companyID}); err != nil {
		return nil, err
	}
	return s.store.Dashboard(ctx, companyID)
}
