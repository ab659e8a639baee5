package cli

import (
	"context"
	"fmt"

	"github.com/amleal/produtos-manager/internal/models"
	"github.com/amleal/produtos-manager/internal/session"
)

// Login prompts for credentials and authenticates the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, session.Credentials{Email: email, Password: password}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Register collects account details and creates the account. The session
// stays anonymous; the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := getText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	country, err := getText(a.reader, "Phone country code (e.g. 55)", a.out)
	if err != nil {
		return err
	}
	ddd, err := getText(a.reader, "Phone area code", a.out)
	if err != nil {
		return err
	}
	number, err := getText(a.reader, "Phone number", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	verify, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	if password != verify {
		return fmt.Errorf("passwords do not match")
	}

	resp, err := a.session.Register(ctx, session.Registration{
		Name:           name,
		Email:          email,
		Password:       password,
		VerifyPassword: verify,
		Phone:          models.Phone{Country: country, DDD: ddd, Number: number},
	})
	if err != nil {
		return err
	}

	if resp.Message != "" {
		fmt.Fprintln(a.out, resp.Message)
	} else {
		fmt.Fprintln(a.out, "Account created, you can log in now.")
	}
	return nil
}

// Logout clears the session and the stored token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Refresh revalidates the session against the server.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.RefreshSession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

// Renew rotates the bearer token.
func (a *App) Renew(ctx context.Context) error {
	if err := a.session.RenewToken(ctx); err != nil {
		return err
	}
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Fprintln(a.out, "Token renewed, valid until", exp.Local().Format("02/01/2006 15:04"))
	} else {
		fmt.Fprintln(a.out, "Token renewed")
	}
	return nil
}

// WhoAmI prints the current user record.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	renderUser(a.out, u)
	return nil
}
