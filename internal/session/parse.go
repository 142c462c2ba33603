package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/me/shopctl/pkg/model"
)

// ErrNoAccessToken is returned when a login response carries no token.
var ErrNoAccessToken = errors.New("login response has no access token")

// loginUser is the user object as it appears, flat or nested, in a login
// response.
type loginUser struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        model.Role      `json:"role"`
	AccessToken string          `json:"accessToken"`
}

// loginResponse covers both server shapes:
//
//	{"accessToken": "...", "user": {"id": ..., "name": ...}}
//	{"id": ..., "name": ..., "accessToken": "..."}
type loginResponse struct {
	User *loginUser `json:"user"`
	loginUser
}

// ParseLoginResponse normalizes a login response into a Session.
//
// Precedence rules:
//   - identity fields (id, name, email, role) come from "user" when present,
//     otherwise from the top level
//   - accessToken comes from the top level when non-empty, otherwise from
//     the nested user
//
// The result always has a non-empty AccessToken or the call fails with
// ErrNoAccessToken.
func ParseLoginResponse(raw []byte) (model.Session, error) {
	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.Session{}, fmt.Errorf("parse login response: %w", err)
	}

	identity := resp.loginUser
	if resp.User != nil {
		identity = *resp.User
	}

	token := resp.AccessToken
	if token == "" && resp.User != nil {
		token = resp.User.AccessToken
	}
	if token == "" {
		return model.Session{}, ErrNoAccessToken
	}

	id, err := parseID(identity.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("parse login response: %w", err)
	}

	return model.Session{
		ID:          id,
		Name:        identity.Name,
		Email:       identity.Email,
		Role:        identity.Role,
		AccessToken: token,
	}, nil
}

// parseID accepts string or numeric ids; some backends use integer keys.
func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("user id %s is neither string nor number", raw)
	}
	return n.String(), nil
}
