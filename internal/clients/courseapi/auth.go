package courseapi

import (
	"context"
	"net/http"

	"github.com/yungbote/apprende-client/internal/domain/account"
)

func (c *Client) Register(ctx context.Context, reg account.Registration) (*account.User, error) {
	var out account.User
	if err := c.do(ctx, call{method: http.MethodPost, route: "/auth/register", body: reg}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login posts the OAuth2 password form the server expects.
func (c *Client) Login(ctx context.Context, email, password string) (*account.Token, error) {
	var out account.Token
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/login",
		form:   map[string]string{"username": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*account.User, error) {
	var out account.User
	if err := c.do(ctx, call{method: http.MethodGet, route: "/users/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BecomeInstructor(ctx context.Context) (string, error) {
	var out messageResponse
	if err := c.do(ctx, call{method: http.MethodPost, route: "/instructors/become-instructor"}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) InstructorProfile(ctx context.Context) (*account.InstructorProfile, error) {
	var out account.InstructorProfile
	if err := c.do(ctx, call{method: http.MethodGet, route: "/instructors/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInstructorProfile(ctx context.Context, upd InstructorProfileUpdate) (*account.InstructorProfile, error) {
	var out account.InstructorProfile
	if err := c.do(ctx, call{method: http.MethodPut, route: "/instructors/me", body: upd}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
