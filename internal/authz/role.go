package authz

import "strings"

// Role is an ordered position in the admin hierarchy. Higher values subsume
// the data access of lower values within their scope.
type Role int

// Role hierarchy, lowest to highest. Student and faculty share the lowest
// rank; neither carries admin authority.
const (
	RoleUnknown Role = iota
	RoleStudent
	RoleFaculty
	RoleDeptAdmin
	RoleHeadAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleStudent:    "student",
	RoleFaculty:    "faculty",
	RoleDeptAdmin:  "dept_admin",
	RoleHeadAdmin:  "head_admin",
	RoleSuperAdmin: "super_admin",
}

var rolesByName = map[string]Role{
	"student":     RoleStudent,
	"faculty":     RoleFaculty,
	"teacher":     RoleFaculty,
	"dept_admin":  RoleDeptAdmin,
	"head_admin":  RoleHeadAdmin,
	"super_admin": RoleSuperAdmin,
}

// ParseRole maps a claim string onto a Role. Unrecognised values yield
// RoleUnknown.
func ParseRole(value string) Role {
	return rolesByName[strings.ToLower(strings.TrimSpace(value))]
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// rank collapses student and faculty onto the same level so that neither
// outranks the other.
func (r Role) rank() int {
	switch r {
	case RoleStudent, RoleFaculty:
		return 1
	case RoleDeptAdmin:
		return 2
	case RoleHeadAdmin:
		return 3
	case RoleSuperAdmin:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether r sits at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank() && r.rank() > 0
}

// IsAdmin reports whether the role carries any admin authority.
func (r Role) IsAdmin() bool {
	return r.AtLeast(RoleDeptAdmin)
}
