package rbac

import "testing"

func TestRankOrdering(t *testing.T) {
	if Rank(RoleManager) <= Rank(RoleAsstManager) {
		t.Fatal("expected manager to outrank asst. manager")
	}
	if Rank(RoleAsstManager) <= Rank(RoleEmployee) {
		t.Fatal("expected asst. manager to outrank general employee")
	}
}

func TestTenantRolesHaveNoRank(t *testing.T) {
	if Rank(RoleAdmin) != 0 || Rank(RoleCompany) != 0 {
		t.Fatal("tenant-scope roles must not participate in the employee-tier ordering")
	}
	if IsAtLeast(RoleAdmin, RoleEmployee) {
		t.Fatal("admin is not ranked against employee-tier roles")
	}
}

func TestIsAtLeast(t *testing.T) {
	cases := []struct {
		role      Role
		threshold Role
		want      bool
	}{
		{RoleManager, RoleEmployee, true},
		{RoleManager, RoleManager, true},
		{RoleAsstManager, RoleManager, false},
		{RoleEmployee, RoleAsstManager, false},
		{RoleEmployee, RoleEmployee, true},
	}
	for _, tc := range cases {
		if got := IsAtLeast(tc.role, tc.threshold); got != tc.want {
			t.Fatalf("IsAtLeast(%s, %s) = %v, want %v", tc.role, tc.threshold, got, tc.want)
		}
	}
}

func TestRoleByName(t *testing.T) {
	for role, name := range DisplayNames {
		got, ok := RoleByName(name)
		if !ok || got != role {
			t.Fatalf("RoleByName(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := RoleByName("Director"); ok {
		t.Fatal("unknown role name must not resolve")
	}
}
