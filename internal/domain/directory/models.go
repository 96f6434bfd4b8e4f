package directory

import (
	"time"

	"ems/internal/domain/rbac"
)

type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone string    `json:"contactPhone"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Branch struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"companyId"`
	ParentBranchID string    `json:"parentBranchId,omitempty"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Head           string    `json:"head"`
	Main           bool      `json:"main"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Employee struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branchId"`
	CompanyID string    `json:"companyId"`
	Role      rbac.Role `json:"role"`
	RoleName  string    `json:"roleName"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewCompany struct {
	Name         string
	Username     string
	Password     string
	ContactEmail string
	ContactPhone string
}

type NewBranch struct {
	CompanyID      string
	ParentBranchID string
	Name           string
	Location       string
	Head           string
	Main           bool
}

type NewEmployee struct {
	BranchID string
	Role     rbac.Role
	Username string
	Password string
	FullName string
}
