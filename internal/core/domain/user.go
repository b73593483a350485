package domain

// Role is the coarse permission tag the auth API attaches to every user.
// It only gates what the portal renders; the API remains the authority.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles lists the assignable roles in display order.
var Roles = []Role{RoleViewer, RoleEditor, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// Label is the capitalised form used in role selectors.
func (r Role) Label() string {
	switch r {
	case RoleViewer:
		return "Viewer"
	case RoleEditor:
		return "Editor"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// ParseRole converts form input to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Identity is the server-confirmed profile of the signed-in user.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
}

// HasRole is the capability check used for every role-gated decision.
// A nil identity holds no role.
func (i *Identity) HasRole(role Role) bool {
	return i != nil && role != "" && i.Role == role
}

// DisplayName prefers the full name and falls back to the username.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

// Registration is the payload for both the regular and first-admin signup.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Credentials are submitted by the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
