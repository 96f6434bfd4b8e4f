package rbac

// Role names the five fixed roles. Admin and Company are tenant-scope roles
// and carry no rank; the three employee-tier roles are totally ordered by
// Rank, higher meaning more authority.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCompany     Role = "company"
	RoleManager     Role = "manager"
	RoleAsstManager Role = "asst_manager"
	RoleEmployee    Role = "general_employee"
)

const (
	RankEmployee    = 1
	RankAsstManager = 2
	RankManager     = 3
)

var roleRanks = map[Role]int{
	RoleManager:     RankManager,
	RoleAsstManager: RankAsstManager,
	RoleEmployee:    RankEmployee,
}

// DisplayNames as seeded into the roles table.
var DisplayNames = map[Role]string{
	RoleManager:     "Manager",
	RoleAsstManager: "Asst. Manager",
	RoleEmployee:    "General Employee",
}

// Rank returns the employee-tier rank of a role, or 0 for tenant-scope roles.
func Rank(role Role) int {
	return roleRanks[role]
}

// IsAtLeast reports whether role ranks at or above threshold. Tenant-scope
// roles are never at least anything on the employee tier.
func IsAtLeast(role, threshold Role) bool {
	r, t := roleRanks[role], roleRanks[threshold]
	return r > 0 && t > 0 && r >= t
}

func IsEmployeeTier(role Role) bool {
	return roleRanks[role] > 0
}

// IsManagerTier reports whether role may act on behalf of a branch.
func IsManagerTier(role Role) bool {
	return role == RoleManager || role == RoleAsstManager
}

// RoleByName maps a stored role display name back to its Role.
func RoleByName(name string) (Role, bool) {
	for role, display := range DisplayNames {
		if display == name {
			return role, true
		}
	}
	return "", false
}
