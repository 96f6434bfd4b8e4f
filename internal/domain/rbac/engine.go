package rbac

import (
	"context"
	"errors"
)

// DenyReason is the single reason string every denial carries. Denying a
// nonexistent target and denying an out-of-scope target look identical to the
// caller, so error shapes never reveal whether a target exists.
const DenyReason = "insufficient scope or rank"

var ErrDenied = errors.New(DenyReason)

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny() Decision {
	return Decision{Reason: DenyReason}
}

// Actor is an authenticated identity plus its scope, supplied by the session
// layer. Employee-tier actors carry their branch; the Company actor carries
// its company.
type Actor struct {
	ID        string
	Role      Role
	CompanyID string
	BranchID  string
}

// Peer identifies the other side of a message exchange.
type Peer struct {
	ID   string
	Role Role
}

// Target describes the entity an action is requested on. Only the fields that
// apply need to be set; EmployeeRole stands in for EmployeeID when the
// employee does not exist yet (creation).
type Target struct {
	CompanyID    string
	BranchID     string
	EmployeeID   string
	EmployeeRole Role
	TaskID       string
	Recipient    *Peer
}

// ScopeStore resolves the scope chain of targets. Implemented over the
// relational store; the engine itself keeps no state.
type ScopeStore interface {
	BranchInSubtree(ctx context.Context, companyID, rootBranchID, branchID string) (bool, error)
	EmployeeScope(ctx context.Context, employeeID string) (EmployeeScope, bool, error)
	TaskScope(ctx context.Context, taskID string) (TaskScope, bool, error)
	TaskAssignedTo(ctx context.Context, taskID, employeeID string) (bool, error)
}

type EmployeeScope struct {
	CompanyID string
	BranchID  string
	Role      Role
}

type TaskScope struct {
	CompanyID string
	BranchID  string
}

// Engine is the single authorization gate. Every mutating service operation
// calls Authorize before touching rows. Decisions are deterministic and the
// engine never writes.
type Engine struct {
	scopes ScopeStore
}

func NewEngine(scopes ScopeStore) *Engine {
	return &Engine{scopes: scopes}
}

// Authorize checks actor against action on target. The rules are evaluated in
// role order; the first matching rule wins and anything unmatched is denied.
// A non-nil error means a scope lookup failed, not a denial.
func (e *Engine) Authorize(ctx context.Context, actor Actor, action Action, target Target) (Decision, error) {
	switch actor.Role {
	case RoleAdmin:
		return e.authorizeAdmin(actor, action, target), nil
	case RoleCompany:
		return e.authorizeCompany(ctx, actor, action, target)
	case RoleManager, RoleAsstManager:
		return e.authorizeManagerTier(ctx, actor, action, target)
	case RoleEmployee:
		return e.authorizeGeneralEmployee(ctx, actor, action, target)
	}
	return Deny(), nil
}

// Admin may act on anything scoped to a company or below. Messaging is the
// exception: admin talks to companies only, and never to itself.
func (e *Engine) authorizeAdmin(actor Actor, action Action, target Target) Decision {
	if action == ActionSendMessage {
		if target.Recipient == nil || target.Recipient.Role != RoleCompany {
			return Deny()
		}
		if target.Recipient.ID == actor.ID {
			return Deny()
		}
		return Allow()
	}
	return Allow()
}

func (e *Engine) authorizeCompany(ctx context.Context, actor Actor, action Action, target Target) (Decision, error) {
	switch action {
	case ActionCreateCompany:
		return Deny(), nil
	case ActionSendMessage:
		if target.Recipient == nil || target.Recipient.Role != RoleAdmin {
			return Deny(), nil
		}
		return Allow(), nil
	}

	scope, found, err := e.resolveTargetScope(ctx, target)
	if err != nil {
		return Decision{}, err
	}
	if !found || scope.CompanyID == "" || scope.CompanyID != actor.CompanyID {
		return Deny(), nil
	}
	return Allow(), nil
}

func (e *Engine) authorizeManagerTier(ctx context.Context, actor Actor, action Action, target Target) (Decision, error) {
	if !managerActions[action] {
		return Deny(), nil
	}

	// Self-targeted report actions short-circuit the subtree walk.
	if (action == ActionSubmitReport || action == ActionViewReport) && target.EmployeeID == actor.ID {
		return Allow(), nil
	}

	scope, found, err := e.resolveTargetScope(ctx, target)
	if err != nil {
		return Decision{}, err
	}
	if !found || scope.CompanyID != actor.CompanyID {
		return Deny(), nil
	}

	reachable, err := e.scopes.BranchInSubtree(ctx, actor.CompanyID, actor.BranchID, scope.BranchID)
	if err != nil {
		return Decision{}, err
	}
	if !reachable {
		return Deny(), nil
	}

	for _, targetRole := range targetRoles(target, scope) {
		switch actor.Role {
		case RoleManager:
			// A manager never manages peer managers.
			if Rank(targetRole) >= RankManager {
				return Deny(), nil
			}
		case RoleAsstManager:
			if targetRole != RoleEmployee {
				return Deny(), nil
			}
		}
	}

	return Allow(), nil
}

// General employees may submit their own reports and move tasks assigned to
// them; everything else falls through to the default denial.
func (e *Engine) authorizeGeneralEmployee(ctx context.Context, actor Actor, action Action, target Target) (Decision, error) {
	switch action {
	case ActionSubmitReport:
		if target.EmployeeID == actor.ID {
			return Allow(), nil
		}
	case ActionViewReport:
		if target.EmployeeID == actor.ID {
			return Allow(), nil
		}
		// Viewing an assigned task's progress is viewing one's own work.
		if target.TaskID != "" {
			assigned, err := e.scopes.TaskAssignedTo(ctx, target.TaskID, actor.ID)
			if err != nil {
				return Decision{}, err
			}
			if assigned {
				return Allow(), nil
			}
		}
	case ActionUpdateTaskStatus:
		if target.TaskID == "" {
			return Deny(), nil
		}
		assigned, err := e.scopes.TaskAssignedTo(ctx, target.TaskID, actor.ID)
		if err != nil {
			return Decision{}, err
		}
		if assigned {
			return Allow(), nil
		}
	}
	return Deny(), nil
}

type targetScope struct {
	CompanyID string
	BranchID  string
	Role      Role
	roleKnown bool
}

// resolveTargetScope walks the target's scope chain: an employee target
// resolves through its row, a task target through its task, and bare
// company/branch targets are taken as given. Missing rows report found=false
// so the caller denies without leaking existence.
func (e *Engine) resolveTargetScope(ctx context.Context, target Target) (targetScope, bool, error) {
	if target.EmployeeID != "" {
		es, found, err := e.scopes.EmployeeScope(ctx, target.EmployeeID)
		if err != nil || !found {
			return targetScope{}, false, err
		}
		return targetScope{CompanyID: es.CompanyID, BranchID: es.BranchID, Role: es.Role, roleKnown: true}, true, nil
	}
	if target.TaskID != "" {
		ts, found, err := e.scopes.TaskScope(ctx, target.TaskID)
		if err != nil || !found {
			return targetScope{}, false, err
		}
		return targetScope{CompanyID: ts.CompanyID, BranchID: ts.BranchID}, true, nil
	}
	if target.CompanyID == "" && target.BranchID == "" {
		return targetScope{}, false, nil
	}
	return targetScope{CompanyID: target.CompanyID, BranchID: target.BranchID}, true, nil
}

// targetRoles collects every role the rank rules must clear: the target's
// current role when the row resolved, and the role a write is about to set.
// A promotion passes only when both do.
func targetRoles(target Target, scope targetScope) []Role {
	var roles []Role
	if scope.roleKnown {
		roles = append(roles, scope.Role)
	}
	if target.EmployeeRole != "" && (!scope.roleKnown || target.EmployeeRole != scope.Role) {
		roles = append(roles, target.EmployeeRole)
	}
	return roles
}
