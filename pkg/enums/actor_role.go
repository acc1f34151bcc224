package enums

import "fmt"

// ActorRole is the authenticated role carried in access tokens. Seller access
// is decided server-side from this claim, never from client-held flags.
type ActorRole string

const (
	ActorRoleCustomer ActorRole = "customer"
	ActorRoleSeller   ActorRole = "seller"
)

var validActorRoles = []ActorRole{
	ActorRoleCustomer,
	ActorRoleSeller,
}

// IsValid reports whether the value matches the canonical actor role enum.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts the raw string to ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
