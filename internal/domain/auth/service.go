package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"ems/internal/domain/rbac"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminID is the fixed actor id of the configured administrator, who has no
// database row.
const AdminID = "admin"

// Identity is what a successful login resolves to; the page layer turns it
// into an rbac.Actor on each request.
type Identity struct {
	ID        string    `json:"id"`
	Role      rbac.Role `json:"role"`
	Name      string    `json:"name"`
	CompanyID string    `json:"companyId,omitempty"`
	BranchID  string    `json:"branchId,omitempty"`
}

type Service struct {
	store         *Store
	adminUsername string
	adminPassword string
}

// NewService takes the admin credential from configuration; it is not a
// module constant and never lives in the database.
func NewService(store *Store, adminUsername, adminPassword string) *Service {
	return &Service{store: store, adminUsername: adminUsername, adminPassword: adminPassword}
}

// Login resolves a username/password pair to an identity, checking the
// configured admin first, then companies, then employees.
func (s *Service) Login(ctx context.Context, username, password string) (*Identity, error) {
	if s.matchesAdmin(username, password) {
		return &Identity{ID: AdminID, Role: rbac.RoleAdmin, Name: "Administrator"}, nil
	}

	company, err := s.store.FindActiveCompany(ctx, username)
	if err != nil {
		return nil, err
	}
	if company != nil {
		if CheckPassword(company.PasswordHash, password) == nil {
			return &Identity{ID: company.ID, Role: rbac.RoleCompany, Name: company.Name, CompanyID: company.ID}, nil
		}
		return nil, ErrInvalidCredentials
	}

	employee, err := s.store.FindActiveEmployee(ctx, username)
	if err != nil {
		return nil, err
	}
	if employee != nil {
		if CheckPassword(employee.PasswordHash, password) == nil {
			role, ok := rbac.RoleByName(employee.RoleName)
			if !ok {
				return nil, ErrInvalidCredentials
			}
			return &Identity{
				ID:        employee.ID,
				Role:      role,
				Name:      employee.FullName,
				CompanyID: employee.CompanyID,
				BranchID:  employee.BranchID,
			}, nil
		}
	}

	return nil, ErrInvalidCredentials
}

func (s *Service) matchesAdmin(username, password string) bool {
	if s.adminUsername == "" || s.adminPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return userOK && passOK
}
