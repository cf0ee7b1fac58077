package authz

import "strings"

// Scope is the college/department boundary an admin's authority is restricted
// to. Nil fields mean the corresponding dimension is unrestricted, which is
// only meaningful for super admins; for lower roles an absent field means the
// profile lookup failed and elevated access must be denied.
type Scope struct {
	CollegeID  *string
	Department *string
}

// Identity is the per-request resolved caller. It is derived from a verified
// bearer token plus a profile lookup and never persisted.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Roles   []Role
	Scope   Scope
}

// HighestRole returns the strongest role the identity holds.
func (i Identity) HighestRole() Role {
	highest := RoleUnknown
	for _, role := range i.Roles {
		if role.rank() > highest.rank() {
			highest = role
		}
	}
	return highest
}

// HasRoleAtLeast reports whether any held role meets the minimum.
func (i Identity) HasRoleAtLeast(minimum Role) bool {
	for _, role := range i.Roles {
		if role.AtLeast(minimum) {
			return true
		}
	}
	return false
}

// HasRole reports whether the identity holds the exact role.
func (i Identity) HasRole(role Role) bool {
	for _, held := range i.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// CollegeFilter returns the college predicate downstream queries must apply.
// A nil filter with ok set means unrestricted, which only super admins get.
// ok is false when a lower role's college scope is absent; callers must deny
// rather than widen the query.
func (i Identity) CollegeFilter() (*string, bool) {
	if i.HasRoleAtLeast(RoleSuperAdmin) {
		return nil, true
	}
	if i.Scope.CollegeID == nil {
		return nil, false
	}
	return i.Scope.CollegeID, true
}

// DepartmentFilter returns the department predicate downstream queries must
// apply. Head admins and above are restricted by college only, so the nil
// filter is valid for them; a dept admin with an absent department scope is
// denied.
func (i Identity) DepartmentFilter() (*string, bool) {
	if i.HasRoleAtLeast(RoleHeadAdmin) {
		return nil, true
	}
	if i.Scope.Department == nil {
		return nil, false
	}
	return i.Scope.Department, true
}

// IsAdminFor reports whether the identity holds admin authority over the
// given college/department pair.
func (i Identity) IsAdminFor(collegeID, department string) bool {
	return i.HasRoleAtLeast(RoleDeptAdmin) && i.CanAccessDepartment(collegeID, department)
}

// CanAccessCollege reports whether the identity's authority covers the given
// college. Super admins always pass. Identities with an absent college scope
// are denied: missing scope is treated conservatively.
func (i Identity) CanAccessCollege(collegeID string) bool {
	if i.HasRoleAtLeast(RoleSuperAdmin) {
		return true
	}
	if i.Scope.CollegeID == nil {
		return false
	}
	return strings.EqualFold(*i.Scope.CollegeID, collegeID)
}

// CanAccessDepartment reports whether the identity's authority covers the
// given college/department pair. Head admins cover every department of their
// college.
func (i Identity) CanAccessDepartment(collegeID, department string) bool {
	if i.HasRoleAtLeast(RoleSuperAdmin) {
		return true
	}
	if !i.CanAccessCollege(collegeID) {
		return false
	}
	if i.HasRoleAtLeast(RoleHeadAdmin) {
		return true
	}
	if i.Scope.Department == nil {
		return false
	}
	return strings.EqualFold(*i.Scope.Department, department)
}
