package authorization

// Role is the closed set of account roles. Readers hold RoleUser and can
// never own or edit content; RoleUploader publishes content; RoleAdmin is a
// global override.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
	RoleUser     Role = "user"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanOwnContent reports whether accounts with this role may own series or
// units. Reader accounts are not ownership-eligible.
func (r Role) CanOwnContent() bool {
	return r == RoleAdmin || r == RoleUploader
}

// CanUsePasskeys reports whether accounts with this role may register and
// authenticate with passkeys.
func (r Role) CanUsePasskeys() bool {
	return r == RoleAdmin || r == RoleUploader
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUploader, RoleUser:
		return true
	}
	return false
}

// ParseRole maps an arbitrary string to a Role, defaulting to RoleUser for
// anything unknown so a corrupted value can never escalate privileges.
func ParseRole(s string) Role {
	role := Role(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}
