package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/session"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates the account and signs in with it.
func (a *App) Register(ctx context.Context, reg account.Registration) (*account.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.FullName = strings.TrimSpace(reg.FullName)
	if err := forms.Check(reg); err != nil {
		return nil, err
	}
	if _, err := a.API.Register(ctx, reg); err != nil {
		return nil, err
	}
	return a.signIn(ctx, reg.Email, reg.Password, session.ReasonRegister)
}

func (a *App) Login(ctx context.Context, email, password string) (*account.User, error) {
	creds := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := forms.Check(creds); err != nil {
		return nil, err
	}
	return a.signIn(ctx, creds.Email, creds.Password, session.ReasonLogin)
}

func (a *App) signIn(ctx context.Context, email, password string, reason session.Reason) (*account.User, error) {
	tok, err := a.API.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.Session.Set(ctx, tok.AccessToken, reason); err != nil {
		return nil, err
	}
	user, err := a.API.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	a.Log.Info("signed in", "user_id", user.ID, "reason", reason)
	return user, nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.Session.Clear(ctx, session.ReasonLogout)
}

func (a *App) Me(ctx context.Context) (*account.User, error) {
	return a.API.Me(ctx)
}

// BecomeInstructor upgrades the account and returns the refreshed profile.
func (a *App) BecomeInstructor(ctx context.Context) (*account.User, string, error) {
	msg, err := a.API.BecomeInstructor(ctx)
	if err != nil {
		return nil, "", err
	}
	user, err := a.API.Me(ctx)
	if err != nil {
		return nil, msg, err
	}
	return user, msg, nil
}
