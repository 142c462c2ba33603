package model

// Role is the account role reported by the remote API. Values other than
// the two constants below are preserved as-is.
type Role string

const (
	// RoleAdmin may manage the product catalogue.
	RoleAdmin Role = "ADMIN"
	// RoleUser is a regular shopper.
	RoleUser Role = "USER"
)

// User is the account shape returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Registration is the payload for POST /auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	CPF      string `json:"cpf,omitempty"`
}
