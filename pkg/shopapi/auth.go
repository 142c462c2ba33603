package shopapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/me/shopctl/pkg/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials to /auth/login and returns the raw response.
// The response shape varies between deployments, so normalizing it into a
// session is left to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, WrapError("POST /auth/login", fmt.Errorf("empty login response"))
	}
	return raw, nil
}

// Register creates an account via /auth/register and returns the created user
// as reported by the server (fields may be empty if the server only confirms).
func (c *Client) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	var user model.User
	if err := c.Post(ctx, "/auth/register", reg, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}
