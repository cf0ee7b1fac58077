package authz

import (
	"github.com/noah-isme/projecthub-api/internal/apperr"
)

// RequireDeptAdmin admits department admins and above. A caller holding
// exactly dept_admin must carry both a college and a department in scope;
// higher roles answer to their own gates' scope rules instead.
func RequireDeptAdmin(identity *Identity) error {
	return requireRole(identity, RoleDeptAdmin, func(i *Identity) bool {
		return i.Scope.CollegeID != nil && i.Scope.Department != nil
	})
}

// RequireHeadAdmin admits head admins and above. A caller holding exactly
// head_admin must carry a college in scope.
func RequireHeadAdmin(identity *Identity) error {
	return requireRole(identity, RoleHeadAdmin, func(i *Identity) bool {
		return i.Scope.CollegeID != nil
	})
}

// RequireSuperAdmin admits super admins only. Super admins carry no scope
// restriction.
func RequireSuperAdmin(identity *Identity) error {
	return requireRole(identity, RoleSuperAdmin, func(*Identity) bool {
		return true
	})
}

// requireRole checks the minimum role, then the scope requirement for callers
// whose highest role is exactly the minimum. A higher-role identity without
// the lower role's scope fields is not rejected here; its authority is
// broader and its own gate enforces its own scope rule.
func requireRole(identity *Identity, minimum Role, scopeComplete func(*Identity) bool) error {
	if identity == nil || identity.Subject == "" {
		return apperr.Unauthenticated("authentication required")
	}

	if !identity.HasRoleAtLeast(minimum) {
		return apperr.Forbidden("insufficient role")
	}

	if identity.HighestRole() == minimum && !scopeComplete(identity) {
		return apperr.Forbidden("admin scope incomplete")
	}

	return nil
}
