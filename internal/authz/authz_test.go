package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/projecthub-api/internal/apperr"
)

func stringPtr(v string) *string {
	return &v
}

func superAdmin() *Identity {
	return &Identity{Subject: "admin-1", Roles: []Role{RoleSuperAdmin}}
}

func headAdmin(college string) *Identity {
	return &Identity{
		Subject: "admin-2",
		Roles:   []Role{RoleHeadAdmin},
		Scope:   Scope{CollegeID: stringPtr(college)},
	}
}

func deptAdmin(college, department string) *Identity {
	return &Identity{
		Subject: "admin-3",
		Roles:   []Role{RoleDeptAdmin},
		Scope:   Scope{CollegeID: stringPtr(college), Department: stringPtr(department)},
	}
}

func TestRoleOrdering(t *testing.T) {
	require.True(t, RoleSuperAdmin.AtLeast(RoleHeadAdmin))
	require.True(t, RoleHeadAdmin.AtLeast(RoleDeptAdmin))
	require.True(t, RoleDeptAdmin.AtLeast(RoleStudent))
	require.False(t, RoleDeptAdmin.AtLeast(RoleHeadAdmin))
	require.False(t, RoleStudent.AtLeast(RoleDeptAdmin))
	require.False(t, RoleUnknown.AtLeast(RoleStudent))

	// Student and faculty share the lowest rank.
	require.True(t, RoleFaculty.AtLeast(RoleStudent))
	require.True(t, RoleStudent.AtLeast(RoleFaculty))
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleSuperAdmin, ParseRole("SUPER_ADMIN"))
	require.Equal(t, RoleFaculty, ParseRole(" teacher "))
	require.Equal(t, RoleUnknown, ParseRole("janitor"))
}

func TestSuperAdminAccessIsUnrestricted(t *testing.T) {
	identity := superAdmin()
	require.True(t, identity.CanAccessCollege("C1"))
	require.True(t, identity.CanAccessCollege("anything"))
	require.True(t, identity.CanAccessDepartment("C9", "physics"))

	college, ok := identity.CollegeFilter()
	require.True(t, ok)
	require.Nil(t, college)
	department, ok := identity.DepartmentFilter()
	require.True(t, ok)
	require.Nil(t, department)
}

func TestHeadAdminCollegeBoundary(t *testing.T) {
	identity := headAdmin("C1")
	require.True(t, identity.CanAccessCollege("C1"))
	require.False(t, identity.CanAccessCollege("C2"))
	require.True(t, identity.CanAccessDepartment("C1", "math"))
	require.False(t, identity.CanAccessDepartment("C2", "math"))

	filter, ok := identity.CollegeFilter()
	require.True(t, ok)
	require.NotNil(t, filter)
	require.Equal(t, "C1", *filter)
	department, ok := identity.DepartmentFilter()
	require.True(t, ok)
	require.Nil(t, department)
}

func TestDeptAdminDepartmentBoundary(t *testing.T) {
	identity := deptAdmin("C1", "cs")
	require.True(t, identity.CanAccessDepartment("C1", "cs"))
	require.True(t, identity.CanAccessDepartment("C1", "CS"))
	require.False(t, identity.CanAccessDepartment("C1", "math"))
	require.False(t, identity.CanAccessDepartment("C2", "cs"))

	department, ok := identity.DepartmentFilter()
	require.True(t, ok)
	require.NotNil(t, department)
	require.Equal(t, "cs", *department)
}

func TestMissingScopeDeniesAccess(t *testing.T) {
	identity := &Identity{Subject: "admin-4", Roles: []Role{RoleHeadAdmin}}
	require.False(t, identity.CanAccessCollege("C1"))
	require.False(t, identity.CanAccessDepartment("C1", "cs"))

	// The filters must not degrade to the super-admin wildcard.
	college, ok := identity.CollegeFilter()
	require.False(t, ok)
	require.Nil(t, college)

	deptIdentity := &Identity{Subject: "admin-7", Roles: []Role{RoleDeptAdmin}, Scope: Scope{CollegeID: stringPtr("C1")}}
	department, ok := deptIdentity.DepartmentFilter()
	require.False(t, ok)
	require.Nil(t, department)
}

func TestHasRole(t *testing.T) {
	faculty := &Identity{Subject: "f-1", Roles: []Role{RoleFaculty}}
	require.True(t, faculty.HasRole(RoleFaculty))
	require.False(t, faculty.HasRole(RoleStudent))

	student := &Identity{Subject: "s-1", Roles: []Role{RoleStudent}}
	require.False(t, student.HasRole(RoleFaculty))
}

func TestRequireDeptAdmin(t *testing.T) {
	require.NoError(t, RequireDeptAdmin(deptAdmin("C1", "cs")))
	require.NoError(t, RequireDeptAdmin(headAdmin("C1")))
	require.NoError(t, RequireDeptAdmin(superAdmin()))

	student := &Identity{Subject: "s-1", Roles: []Role{RoleStudent}}
	err := RequireDeptAdmin(student)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestRequireDeptAdminRejectsIncompleteScope(t *testing.T) {
	identity := &Identity{
		Subject: "admin-5",
		Roles:   []Role{RoleDeptAdmin},
		Scope:   Scope{CollegeID: stringPtr("C1")},
	}

	err := RequireDeptAdmin(identity)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestRequireHeadAdmin(t *testing.T) {
	require.NoError(t, RequireHeadAdmin(headAdmin("C1")))
	require.NoError(t, RequireHeadAdmin(superAdmin()))

	err := RequireHeadAdmin(deptAdmin("C1", "cs"))
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)

	scopeless := &Identity{Subject: "admin-6", Roles: []Role{RoleHeadAdmin}}
	err = RequireHeadAdmin(scopeless)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestRequireSuperAdmin(t *testing.T) {
	require.NoError(t, RequireSuperAdmin(superAdmin()))

	err := RequireSuperAdmin(headAdmin("C1"))
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestGatesRequireResolvedIdentity(t *testing.T) {
	err := RequireDeptAdmin(nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthenticated, apperr.From(err).Kind)

	err = RequireSuperAdmin(&Identity{})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthenticated, apperr.From(err).Kind)
}

func TestHigherRoleWithoutLowerScopeIsAdmitted(t *testing.T) {
	// A super admin carries no scope yet passes every gate.
	require.NoError(t, RequireDeptAdmin(superAdmin()))
	require.NoError(t, RequireHeadAdmin(superAdmin()))
}
