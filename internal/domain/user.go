package domain

type Role string

const (
	RoleOwner  Role = "owner"
	RoleBooker Role = "booker"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleBooker, RoleAdmin:
		return true
	}
	return false
}

// StoredUser is the persisted registry entry. Role is fixed at
// registration; the single admin identity is config-supplied and never
// stored here.
type StoredUser struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// CurrentUser is the ephemeral session projection of a signed-in user.
type CurrentUser struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (u CurrentUser) Authenticated() bool { return u.Email != "" }
