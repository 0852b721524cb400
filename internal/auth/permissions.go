package auth

import (
	"strings"

	"github.com/solestep/solestep-api/internal/model"
)

// rolePermissions maps each role to the module permissions it holds.
// A permission is either a whole module ("customer") or a single
// capability within one ("customer.create"). The table is static and
// never mutated after init.
var rolePermissions = map[model.Role][]string{
	model.RoleSuperAdmin: {
		"sales",
		"inventory",
		"customer",
		"analytics",
		"company",
		"permissions",
	},
	model.RoleAdmin: {
		"sales",
		"inventory",
		"customer",
		"analytics",
	},
	model.RoleManager: {
		"sales",
		"inventory",
		"customer",
	},
	model.RoleCashier: {
		"sales",
		"customer.create",
		"customer.search",
		"products.view",
		"products.search",
	},
}

// HasModuleAccess reports whether role may access any of the required
// modules. A role qualifies when it holds the module itself or any
// capability scoped under it.
func HasModuleAccess(role model.Role, required ...string) bool {
	granted := rolePermissions[role]
	for _, module := range required {
		for _, permission := range granted {
			if permission == module || strings.HasPrefix(permission, module+".") {
				return true
			}
		}
	}
	return false
}

// Permissions returns the permission strings granted to role.
func Permissions(role model.Role) []string {
	return rolePermissions[role]
}
