package entity

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleUser indicates a regular account.
	RoleUser Role = "user"
	// RoleAdmin indicates an account allowed to list and delete other accounts.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// RoleOf derives the role from the admin flag of a user.
func RoleOf(u *User) Role {
	if u != nil && u.IsAdmin {
		return RoleAdmin
	}

	return RoleUser
}
