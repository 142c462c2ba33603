package model

// Session is the authenticated identity held by the client for the duration
// of a login. The JSON form is what gets persisted to durable storage.
type Session struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	AccessToken string `json:"accessToken"`
}

// IsAdmin reports whether the session has admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}
