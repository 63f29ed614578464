package gate

import "strings"

// Role identifies the staff role attached to the current session.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleLabTech      Role = "lab_tech"
	RolePharmacist   Role = "pharmacist"
	RoleBillingStaff Role = "billing_staff"
	RoleFrontDesk    Role = "front_desk"
	RoleHR           Role = "hr"
	RoleImagingTech  Role = "imaging_tech"
)

var roles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleLabTech,
	RolePharmacist,
	RoleBillingStaff,
	RoleFrontDesk,
	RoleHR,
	RoleImagingTech,
}

// Roles returns every known staff role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Valid reports whether the role belongs to the closed role set.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes a raw role string and reports whether it is known.
// Dashes are accepted in place of underscores.
func ParseRole(value string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	role := Role(normalized)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// ActorRef identifies the actor making a change to tenant state.
type ActorRef struct {
	ID   string
	Type string
	Name string
}
