package identity

import (
	"sort"
	"strings"
)

// Role is the access level of an admin
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleManager    Role = "manager"
	RoleOperator   Role = "operator"

	// RoleCustomer is carried by tokens issued to storefront users
	RoleCustomer Role = "customer"
)

// IsAdminRole checks if the role can be assigned to an admin
func (r Role) IsAdminRole() bool {
	_, ok := rolePermissions[r]
	return ok
}

// PermissionAll grants every permission
const PermissionAll = "*"

// Permission actions used by the HTTP layer
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Resources guarded by the admin API
const (
	ResourceAdmin     = "admin"
	ResourceUser      = "user"
	ResourceProduct   = "product"
	ResourceOrder     = "order"
	ResourcePayment   = "payment"
	ResourceShipment  = "shipment"
	ResourceLive      = "live"
	ResourceWhatsApp  = "whatsapp"
	ResourceDashboard = "dashboard"
)

var rolePermissions = map[Role][]string{
	RoleSuperAdmin: {PermissionAll},
	RoleManager: {
		"user:read", "user:update",
		"product:read", "product:create", "product:update", "product:delete",
		"order:read", "order:create", "order:update",
		"payment:read", "payment:create", "payment:update",
		"shipment:read", "shipment:create", "shipment:update",
		"live:read", "live:create", "live:update", "live:delete",
		"whatsapp:read", "whatsapp:create", "whatsapp:update", "whatsapp:delete",
		"dashboard:read",
	},
	RoleOperator: {
		"product:read",
		"order:read", "order:create", "order:update",
		"payment:read", "payment:create",
		"shipment:read", "shipment:create", "shipment:update",
		"live:read", "live:update",
		"whatsapp:read", "whatsapp:create",
		"dashboard:read",
	},
}

// PermissionsFor returns a sorted copy of the permissions of a role
func PermissionsFor(role Role) []string {
	perms := append([]string(nil), rolePermissions[role]...)
	sort.Strings(perms)
	return perms
}

// Permission builds a "resource:action" permission code
func Permission(resource, action string) string {
	return resource + ":" + action
}

// HasPermission reports whether granted covers the required permission.
// "*" grants all; "resource:*" grants every action on a resource.
func HasPermission(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	for _, p := range granted {
		if p == PermissionAll || p == required || p == resource+":*" {
			return true
		}
	}
	return false
}
