package models

// AdminRole is the human-facing label stored on admin accounts.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPER ADMIN"
	RoleAdmin      AdminRole = "ADMIN"
	RoleSubAdmin   AdminRole = "SUB ADMIN"
)

const (
	RoleUser   = "user"
	RoleBighil = "BIGHIL"
)

var AdminRoles = []AdminRole{RoleSuperAdmin, RoleAdmin, RoleSubAdmin}

type ActorKind string

const (
	ActorKindUser   ActorKind = "user"
	ActorKindAdmin  ActorKind = "admin"
	ActorKindBighil ActorKind = "bighil"
)

// CanonicalRole keys unseen counters and presence.
type CanonicalRole string

const (
	CanonicalUser       CanonicalRole = "user"
	CanonicalSubAdmin   CanonicalRole = "subadmin"
	CanonicalSuperAdmin CanonicalRole = "superadmin"
	CanonicalAdmin      CanonicalRole = "admin"
)

var CanonicalRoles = []CanonicalRole{
	CanonicalUser,
	CanonicalSubAdmin,
	CanonicalSuperAdmin,
	CanonicalAdmin,
}

var labelToCanonical = map[string]CanonicalRole{
	RoleUser:               CanonicalUser,
	string(RoleSubAdmin):   CanonicalSubAdmin,
	string(RoleSuperAdmin): CanonicalSuperAdmin,
	string(RoleAdmin):      CanonicalAdmin,
}

var canonicalToLabel = map[CanonicalRole]string{
	CanonicalUser:       RoleUser,
	CanonicalSubAdmin:   string(RoleSubAdmin),
	CanonicalSuperAdmin: string(RoleSuperAdmin),
	CanonicalAdmin:      string(RoleAdmin),
}

// ToCanonical maps a role label ("SUPER ADMIN", "user", ...) to its canonical key.
func ToCanonical(label string) (CanonicalRole, bool) {
	c, ok := labelToCanonical[label]
	return c, ok
}

// Label is the inverse of ToCanonical.
func (c CanonicalRole) Label() string {
	return canonicalToLabel[c]
}

func IsAdminRole(label string) bool {
	for _, r := range AdminRoles {
		if string(r) == label {
			return true
		}
	}
	return false
}
