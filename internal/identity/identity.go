package identity

import "time"

// Role is the closed set of roles stored on a user record.
type Role string

const (
	RoleMember  Role = "member"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role value onto the closed set, falling back to
// the default for anything missing or unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleTeacher:
		return RoleTeacher
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleMember
	}
}

// User is the durable per-subject record. The middleware touches only the
// role, email and last-active fields and assumes nothing else exists.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty"`
	Sub          string    `bson:"sub" json:"sub"`
	Role         string    `bson:"role" json:"role"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	LastActiveAt time.Time `bson:"lastActiveAt" json:"lastActiveAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Identity is what the access controller and business handlers see: the
// verified subject merged with locally stored role data.
type Identity struct {
	Sub        string    `json:"sub"`
	Role       Role      `json:"role"`
	Email      string    `json:"email,omitempty"`
	LastActive time.Time `json:"lastActive,omitempty"`
}

// IsAdmin reports whether the identity satisfies every role requirement.
func (i *Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// HasRole reports whether the identity satisfies the required role.
// Administrators pass any requirement.
func (i *Identity) HasRole(r Role) bool { return i.Role == r || i.IsAdmin() }
